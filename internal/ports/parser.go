package ports

// Parser turns a source file into type handles.
// The concrete implementation (tree-sitter) lives in internal/adapters/treesitter.
// When nil, the system cannot discover types: the CLI reports that the binary was
// built without a C# grammar.
type Parser interface {
	// ParseHandles returns one handle per type declaration in the file, nested
	// declarations included, in source order. Returns nil, nil for unsupported
	// files (not an error).
	ParseHandles(path string, source []byte) ([]TypeHandle, error)

	// SupportsExtension returns true if the parser can handle files with this
	// extension (e.g., ".cs"). Extension includes the leading dot.
	SupportsExtension(ext string) bool
}

// BaseLister is implemented by handles that know their declared base types.
// Bases returns simple names with namespaces and generic arguments stripped.
type BaseLister interface {
	Bases() []string
}
