package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette holds the color functions used by the formatter.
type palette struct {
	label, message, fix, usageLabel, usage, bullet, category func(a ...interface{}) string
}

func newPalette(useColors bool) palette {
	sprint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		label:      sprint(color.FgRed, color.Bold),
		message:    sprint(color.FgRed),
		fix:        sprint(color.FgGreen, color.Bold),
		usageLabel: sprint(color.FgCyan, color.Bold),
		usage:      sprint(color.FgCyan),
		bullet:     sprint(color.FgGreen),
		category:   sprint(color.FgYellow),
	}
}

// FormatError formats a CLIError for display in the terminal.
// Colors follow fatih/color's terminal detection.
func FormatError(err *CLIError) string {
	return formatError(err, !color.NoColor)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	if err == nil {
		return ""
	}
	p := newPalette(useColors)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usageLabel("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}
	return sb.String()
}

// FprintError prints a formatted CLIError to w.
// Colors are used only when useColors is set.
func FprintError(w io.Writer, err *CLIError, useColors bool) {
	if err == nil {
		return
	}
	fmt.Fprint(w, formatError(err, useColors))
}
