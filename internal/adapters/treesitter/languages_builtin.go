//go:build !lean

package treesitter

// The default build compiles the C# grammar in. Building with -tags lean
// leaves it out; the grammar is then loaded from a shared library instead.

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	ts_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
)

// langPtr wraps a Language() call that returns unsafe.Pointer.
func langPtr(p unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(p)
}

func (p *Parser) registerBuiltinLanguages() {
	p.addLang(csharp, langPtr(ts_csharp.Language()))
}
