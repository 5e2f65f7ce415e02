//go:build !cgo

package cmd

import "github.com/corey/pseudo/internal/ports"

// newParser returns nil when CGo is unavailable (pure Go build). Type
// discovery needs tree-sitter, so every command that parses reports
// app.ErrNoParser.
func newParser(_ string, _ []string) (ports.Parser, func()) {
	return nil, func() {}
}

func grammarStatus(_ string, _ []string) string {
	return "unavailable (built without CGo)"
}
