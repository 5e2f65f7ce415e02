package ports

// TypeHandle is an opaque reference to one source type declaration. It exposes
// only what the extractor needs; the concrete source (tree-sitter, tests, ...)
// decides how the raw member records are obtained.
//
// All sequences are returned in source declaration order. Implementations must
// not share backing arrays with mutable state: the extractor copies what it keeps,
// but callers may iterate a handle from several goroutines.
type TypeHandle interface {
	// TypeKeyword returns the declaration keyword, e.g. "class", "struct", "interface".
	TypeKeyword() string

	// Name returns the declared identifier of the type.
	Name() string

	// Modifiers returns the modifier tokens of the type ("public", "static", ...).
	Modifiers() []string

	Fields() []FieldNode
	Properties() []PropertyNode
	Constructors() []ConstructorNode
	Methods() []MethodNode
}

// Locator is implemented by handles that know where they were declared.
// Location returns a human-readable position such as "Models/User.cs:12".
type Locator interface {
	Location() string
}

// Qualifier is implemented by handles that can name their enclosing types.
// QualifiedName returns the name prefixed with them, such as "Red.Node".
type Qualifier interface {
	QualifiedName() string
}

// FieldNode is one field statement. A single statement may declare several names
// (int a, b = 2;), each becoming its own declarator.
type FieldNode struct {
	Modifiers   []string
	Type        string
	Declarators []Declarator
}

// Declarator is one declared name of a field statement. Initializer is the
// initializer expression text, or empty when the name has none.
type Declarator struct {
	Name        string
	Initializer string
}

// PropertyNode is one property declaration.
type PropertyNode struct {
	Modifiers   []string
	Type        string
	Name        string
	Accessors   []AccessorNode
	Initializer string // empty when absent
}

// AccessorNode is one accessor of a property. Kind is the raw accessor keyword
// ("get", "set", "init", or anything else the source language allows).
type AccessorNode struct {
	Modifier string
	Kind     string
}

// ConstructorNode is one constructor declaration.
type ConstructorNode struct {
	Modifiers  []string
	Name       string
	Parameters []ParameterNode
}

// MethodNode is one method declaration. ReturnType is the declared return type
// text; an empty string means the source declared none.
type MethodNode struct {
	Modifiers  []string
	ReturnType string
	Name       string
	Parameters []ParameterNode
}

// ParameterNode is one formal parameter.
type ParameterNode struct {
	Type string
	Name string
}
