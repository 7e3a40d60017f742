package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes status lines: results to out, warnings and debug lines to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	caps   TerminalCapabilities
}

// New returns a Printer that detects capabilities per writer.
func New(out, errOut io.Writer) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		caps:   DetectTerminalCapabilities(errOut),
	}
}

// ColorsEnabled reports whether the error stream shows colors.
func (p *Printer) ColorsEnabled() bool {
	return p.caps.SupportsColor
}

func (p *Printer) paint(caps TerminalCapabilities, attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if caps.SupportsColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

// Success prints a completed action, e.g. "Updated file".
// Terminals get a green checkmark in front.
func (p *Printer) Success(format string, args ...any) {
	caps := DetectTerminalCapabilities(p.out)
	msg := fmt.Sprintf(format, args...)
	if caps.SupportsUnicode {
		green := p.paint(caps, color.FgGreen, color.Bold)
		fmt.Fprintf(p.out, "%s %s\n", green("✓"), msg)
		return
	}
	fmt.Fprintln(p.out, msg)
}

// Result prints a bare value such as a version number.
func (p *Printer) Result(value string) {
	fmt.Fprintln(p.out, value)
}

// Warning prints a non-fatal problem in yellow.
func (p *Printer) Warning(format string, args ...any) {
	yellow := p.paint(p.caps, color.FgYellow)
	fmt.Fprintln(p.errOut, yellow(fmt.Sprintf(format, args...)))
}

// Debugf prints a dimmed debug line. Its signature matches the
// SetDebugLogger hooks of other packages.
func (p *Printer) Debugf(format string, args ...any) {
	faint := p.paint(p.caps, color.Faint)
	fmt.Fprintln(p.errOut, faint("[debug] "+fmt.Sprintf(format, args...)))
}
