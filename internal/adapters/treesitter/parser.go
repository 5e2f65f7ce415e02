// Package treesitter discovers C# type declarations using the tree-sitter C#
// grammar and exposes each one as a ports.TypeHandle.
//
// The grammar is compiled in via CGo by default. Lean builds (-tags lean) load
// it at runtime from a shared library through purego.
package treesitter

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/pseudo/internal/ports"
)

// Parser extracts type declarations from C# source files.
type Parser struct {
	mu        sync.Mutex
	languages map[string]*tree_sitter.Language // lang name -> language
	extToLang map[string]string                // extension -> lang name
	loader    *DynamicLoader                   // optional: loads grammars from .so/.dylib
}

// NewParser creates a parser with the built-in grammar registered.
func NewParser() *Parser {
	p := &Parser{
		languages: make(map[string]*tree_sitter.Language),
		extToLang: make(map[string]string),
	}
	p.registerBuiltinLanguages()
	p.addExt(csharp, ".cs", ".csx")
	return p
}

// csharp is the grammar name. It doubles as the shared library base name and
// derives the C symbol tree_sitter_c_sharp.
const csharp = "c_sharp"

func (p *Parser) addLang(name string, lang *tree_sitter.Language) {
	if lang != nil {
		p.languages[name] = lang
	}
}

func (p *Parser) addExt(lang string, exts ...string) {
	for _, ext := range exts {
		p.extToLang[ext] = lang
	}
}

// ParseFile returns one Declaration per class, struct, interface or record
// declared in source, nested declarations included, in source order.
// Returns nil for unsupported files or when no grammar is available.
func (p *Parser) ParseFile(path string, source []byte) ([]*Declaration, error) {
	lang, err := p.language(path)
	if err != nil || lang == nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, nil
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree", path)
	}
	defer tree.Close()

	w := &walker{path: path, source: source}
	w.collect(tree.RootNode(), nil)
	return w.decls, nil
}

// ParseHandles implements ports.Parser.
func (p *Parser) ParseHandles(path string, source []byte) ([]ports.TypeHandle, error) {
	decls, err := p.ParseFile(path, source)
	if err != nil {
		return nil, err
	}
	handles := make([]ports.TypeHandle, len(decls))
	for i, d := range decls {
		handles[i] = d
	}
	return handles, nil
}

// SupportsExtension returns true if the parser recognizes this file extension.
func (p *Parser) SupportsExtension(ext string) bool {
	_, ok := p.extToLang[strings.ToLower(ext)]
	return ok
}

// SetGrammarPaths configures the parser to load the grammar dynamically from
// shared libraries found in the given directories when it is not compiled in.
func (p *Parser) SetGrammarPaths(paths []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loader = NewDynamicLoader(paths)
}

// HasGrammar reports whether the C# grammar is compiled in or loadable.
func (p *Parser) HasGrammar() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.languages[csharp]; ok {
		return true
	}
	return p.loader != nil && p.loader.GrammarPath(csharp) != ""
}

// GrammarSource returns the shared library the C# grammar would be loaded
// from, or "" when it is compiled in or cannot be found.
func (p *Parser) GrammarSource() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.languages[csharp]; ok || p.loader == nil {
		return ""
	}
	return p.loader.GrammarPath(csharp)
}

// Close releases the dynamic loader, if any.
func (p *Parser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loader != nil {
		p.loader.Close()
	}
}

// language resolves the grammar for path. An unknown extension yields nil, nil.
func (p *Parser) language(path string) (*tree_sitter.Language, error) {
	name, ok := p.extToLang[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if lang, ok := p.languages[name]; ok {
		return lang, nil
	}
	if p.loader == nil {
		return nil, nil // extension mapped but grammar not available
	}
	lang, err := p.loader.LoadGrammar(name)
	if err != nil {
		return nil, err
	}
	p.languages[name] = lang
	return lang, nil
}

// nodeText returns the source text spanned by n.
func nodeText(n *tree_sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

// childByKind finds the first child with the given kind.
func childByKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// flatten collapses every whitespace run that contains a line break into a
// single space, so multi-line type and initializer text renders on one line.
func flatten(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if !isSpace(s[i]) {
			sb.WriteByte(s[i])
			i++
			continue
		}
		j := i
		broken := false
		for j < len(s) && isSpace(s[j]) {
			if s[j] == '\n' || s[j] == '\r' {
				broken = true
			}
			j++
		}
		if broken {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(s[i:j])
		}
		i = j
	}
	return sb.String()
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
