package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is any writer backed by a file descriptor, such as os.File.
type fdWriter interface {
	Fd() uintptr
}

// IsTTY reports whether w writes to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether colored output should be emitted on w.
// Non-terminal writers never get color, and the NO_COLOR convention
// (https://no-color.org) and TERM=dumb both disable it.
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	if !isTTY {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
