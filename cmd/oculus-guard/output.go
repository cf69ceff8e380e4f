package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	dimColor     = color.New(color.Faint)
)

// printLine writes a session log line, colored by what it reports.
func printLine(w io.Writer, line string) {
	switch {
	case strings.Contains(line, "ERROR:"):
		errorColor.Fprintln(w, line)
	case strings.Contains(line, "WARNING:"), strings.Contains(line, "manually remove"):
		warningColor.Fprintln(w, line)
	case strings.Contains(line, "BLOCKED"), strings.Contains(line, "Ready!"), strings.Contains(line, "restored"):
		successColor.Fprintln(w, line)
	default:
		fmt.Fprintln(w, line)
	}
}
