// Package output prints kac's status lines.
// It has no internal dependencies so any package can import it.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what a writer can display.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
}

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// DetectTerminalCapabilities inspects w.
// Checks: w is a terminal, NO_COLOR env, KAC_ASCII env.
// Anything that is not a terminal gets plain ASCII output.
func DetectTerminalCapabilities(w io.Writer) TerminalCapabilities {
	f, ok := w.(fdWriter)
	if !ok {
		return TerminalCapabilities{}
	}

	isTTY := term.IsTerminal(int(f.Fd()))
	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && os.Getenv("NO_COLOR") == "",
		SupportsUnicode: isTTY && os.Getenv("KAC_ASCII") != "1",
	}
}
