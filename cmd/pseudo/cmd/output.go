package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corey/pseudo/internal/app"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// isStdoutTTY returns true if stdout is connected to a terminal.
func isStdoutTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// paint wraps s in color when stdout is a terminal.
func paint(color, s string) string {
	if !isStdoutTTY() {
		return s
	}
	return color + s + colorReset
}

// printFailures writes one line per failed type:
//
//	error: Broken (Models/Broken.cs:3): property X: missing getter
func printFailures(w io.Writer, failures []app.Failure) {
	for _, f := range failures {
		loc := f.Location
		if loc == "" {
			loc = f.File
		}
		fmt.Fprintf(w, "error: %s (%s): %s\n", f.Type, loc, f.Reason())
	}
}

// colorDiff colors a unified diff line by line.
func colorDiff(diff string) string {
	if !isStdoutTTY() {
		return diff
	}
	var sb strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			sb.WriteString(colorBold + line + colorReset)
		case strings.HasPrefix(line, "@@"):
			sb.WriteString(colorCyan + line + colorReset)
		case strings.HasPrefix(line, "+"):
			sb.WriteString(colorGreen + line + colorReset)
		case strings.HasPrefix(line, "-"):
			sb.WriteString(colorRed + line + colorReset)
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}
