package shared

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Package-level color variables
var (
	ColorInfo    = color.New(color.FgCyan)
	ColorSuccess = color.New(color.FgGreen)
	ColorWarning = color.New(color.FgYellow)
	ColorError   = color.New(color.FgRed)
	ColorDebug   = color.New(color.FgHiBlack)
)

// InitializeColors initializes color output based on TTY detection
func InitializeColors() {
	color.NoColor = !IsTTY()
}

// IsTTY reports whether stdout is an interactive terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
