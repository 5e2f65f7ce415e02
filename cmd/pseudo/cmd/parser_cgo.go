//go:build cgo

package cmd

import (
	"github.com/corey/pseudo/internal/adapters/treesitter"
	"github.com/corey/pseudo/internal/ports"
)

// newParser returns a tree-sitter parser when CGo is available. Grammar
// libraries are searched in extra first, then the project-local and global
// grammar directories. The returned func releases loaded grammars.
func newParser(root string, extra []string) (ports.Parser, func()) {
	p := treesitter.NewParser()
	paths := append([]string{}, extra...)
	if root != "" {
		paths = append(paths, treesitter.DefaultGrammarPaths(root)...)
	}
	p.SetGrammarPaths(paths)
	return p, p.Close
}

// grammarStatus describes where the C# grammar comes from.
func grammarStatus(root string, extra []string) string {
	p, closeFn := newParser(root, extra)
	defer closeFn()
	tp := p.(*treesitter.Parser)
	if !tp.HasGrammar() {
		return "missing (install c_sharp" + treesitter.LibExtension() + " into .pseudo/grammars)"
	}
	if path := tp.GrammarSource(); path != "" {
		return path
	}
	return "built-in"
}
