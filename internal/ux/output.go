package ux

import (
	"fmt"
	"io"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// Errorf prints a red "error:" line.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%serror:%s %s\n", Red, Reset, fmt.Sprintf(format, args...))
}

// Warnf prints a yellow "warning:" line.
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%swarning:%s %s\n", Yellow, Reset, fmt.Sprintf(format, args...))
}
