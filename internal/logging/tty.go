package logging

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsTTY returns true if the given writer is a terminal.
// It supports os.File and any wrapper that provides an Fd() method.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

var colorDisabled bool

// DisableColor turns off color for both log handlers and report output.
// It backs the --no-color flag.
func DisableColor() {
	colorDisabled = true
	color.NoColor = true
}

// SupportsColor returns true if the given writer supports ANSI color codes.
// It returns false if:
//   - color was disabled with DisableColor
//   - the NO_COLOR environment variable is set
//   - TERM is "dumb"
//   - the writer is not a TTY
func SupportsColor(w io.Writer) bool {
	if colorDisabled {
		return false
	}
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	// https://no-color.org
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
