package util

import (
	"os"

	"github.com/fatih/color"
)

var (
	step_color    = color.New(color.FgBlue, color.Bold)
	success_color = color.New(color.FgGreen, color.Bold)
	error_color   = color.New(color.FgRed, color.Bold)
)

// Step prints a blue progress line to stdout.
func Step(format string, a ...any) {
	step_color.Printf("==> "+format+"\n", a...)
}

func Success(format string, a ...any) {
	success_color.Printf("[SUCCESS] "+format+"\n", a...)
}

// Fail prints a red error line to stderr. It does not exit.
func Fail(format string, a ...any) {
	error_color.Fprintf(os.Stderr, "[ERROR] "+format+"\n", a...)
}
