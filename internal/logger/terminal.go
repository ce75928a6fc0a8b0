package logger

import (
	"golang.org/x/term"
)

// isTerminal reports whether fd refers to a terminal, which enables colored
// text output.
func isTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
