//go:build lean

package treesitter

// Lean builds carry no compiled-in grammar. Point the parser at a directory
// holding c_sharp.so (or .dylib) with SetGrammarPaths.
//
// Build with: go build -tags lean ./cmd/pseudo/

func (p *Parser) registerBuiltinLanguages() {}
