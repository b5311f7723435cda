package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if f is connected to a terminal (TTY).
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ShouldUseColor determines if ANSI color codes should be used on stdout.
// NO_COLOR and CLICOLOR=0 disable color, CLICOLOR_FORCE forces it, otherwise
// color follows TTY detection.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	return IsTerminal(os.Stdout)
}

// CanPrompt reports whether an interactive question can be asked.
func CanPrompt() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stderr)
}

// Width returns the width of the terminal or 80.
func Width() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
