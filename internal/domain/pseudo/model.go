// Package pseudo defines the pseudo-model: an immutable intermediate
// representation of one type declaration and its members, independent of the
// source language it was extracted from.
//
// Every value is built through a constructor that validates its invariants and
// copies its inputs. Accessors hand out copies, so a constructed value can be
// shared between goroutines without locking.
package pseudo

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// Construction errors. Callers wrap these with the member they were building.
var (
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyType       = errors.New("empty type")
	ErrEmptyModifier   = errors.New("empty modifier")
	ErrMissingGetter   = errors.New("missing getter")
	ErrInvalidAccessor = errors.New("invalid accessor kind")
)

// Modifier is a single modifier token such as "public" or "static".
type Modifier struct {
	name string
}

// NewModifier returns a modifier; the token must be non-empty.
func NewModifier(name string) (Modifier, error) {
	if name == "" {
		return Modifier{}, ErrEmptyModifier
	}
	return Modifier{name: name}, nil
}

func (m Modifier) String() string { return m.name }

// Modifiers builds a modifier list from tokens, preserving order.
func Modifiers(tokens ...string) ([]Modifier, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	mods := make([]Modifier, 0, len(tokens))
	for _, tok := range tokens {
		m, err := NewModifier(tok)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// TypeRef is resolved type text ("int", "List<string>", "int[]?"). The model
// attaches no meaning to it.
type TypeRef struct {
	text string
}

// NewTypeRef returns a type reference; the text must be non-empty.
func NewTypeRef(text string) (TypeRef, error) {
	if text == "" {
		return TypeRef{}, ErrEmptyType
	}
	return TypeRef{text: text}, nil
}

func (t TypeRef) String() string { return t.text }

// Parameter is one formal parameter of a constructor or method.
type Parameter struct {
	name string
	typ  TypeRef
}

// NewParameter returns a parameter; name and type must be set.
func NewParameter(name string, typ TypeRef) (Parameter, error) {
	if name == "" {
		return Parameter{}, ErrEmptyName
	}
	if typ.text == "" {
		return Parameter{}, ErrEmptyType
	}
	return Parameter{name: name, typ: typ}, nil
}

func (p Parameter) Name() string  { return p.name }
func (p Parameter) Type() TypeRef { return p.typ }

// AccessorKind distinguishes property accessors. The zero value is invalid so
// that an uninitialized accessor can never pass for a getter.
type AccessorKind uint8

const (
	_ AccessorKind = iota
	Get
	Set
	Init
)

var accessorKeywords = [...]string{Get: "get", Set: "set", Init: "init"}

// Valid reports whether k is one of Get, Set or Init.
func (k AccessorKind) Valid() bool { return k >= Get && k <= Init }

func (k AccessorKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("AccessorKind(%d)", uint8(k))
	}
	return accessorKeywords[k]
}

// ParseAccessorKind maps an accessor keyword to its kind.
func ParseAccessorKind(keyword string) (AccessorKind, bool) {
	switch keyword {
	case "get":
		return Get, true
	case "set":
		return Set, true
	case "init":
		return Init, true
	}
	return 0, false
}

// Accessor is a property getter, setter or init accessor. Only its modifier
// (possibly empty) and kind are kept; bodies are never modeled.
type Accessor struct {
	modifier string
	kind     AccessorKind
}

// NewAccessor returns an accessor. It cannot fail: whether kind fits its
// position is checked by NewProperty.
func NewAccessor(modifier string, kind AccessorKind) Accessor {
	return Accessor{modifier: modifier, kind: kind}
}

func (a Accessor) Modifier() string   { return a.modifier }
func (a Accessor) Kind() AccessorKind { return a.kind }

// Field is one declared field name. A source statement declaring several names
// produces one Field per name.
type Field struct {
	name      string
	modifiers []Modifier
	typ       TypeRef
	value     string
}

// NewField returns a field. value is the initializer text, empty for none.
func NewField(name string, modifiers []Modifier, typ TypeRef, value string) (Field, error) {
	if name == "" {
		return Field{}, ErrEmptyName
	}
	if typ.text == "" {
		return Field{}, ErrEmptyType
	}
	return Field{name: name, modifiers: clone(modifiers), typ: typ, value: value}, nil
}

func (f Field) Name() string          { return f.name }
func (f Field) Modifiers() []Modifier { return clone(f.modifiers) }
func (f Field) Type() TypeRef         { return f.typ }
func (f Field) Value() (string, bool) { return f.value, f.value != "" }

// Property is one property declaration with a mandatory getter and an optional
// set or init accessor.
type Property struct {
	name      string
	modifiers []Modifier
	typ       TypeRef
	getter    Accessor
	setter    Accessor
	hasSetter bool
	value     string
}

// NewProperty returns a property. getter must be of kind Get; setter, when not
// nil, must be of kind Set or Init. value is the initializer text, empty for none.
func NewProperty(name string, modifiers []Modifier, typ TypeRef, getter Accessor, setter *Accessor, value string) (Property, error) {
	if name == "" {
		return Property{}, ErrEmptyName
	}
	if typ.text == "" {
		return Property{}, ErrEmptyType
	}
	if getter.kind != Get {
		return Property{}, ErrMissingGetter
	}
	p := Property{
		name:      name,
		modifiers: clone(modifiers),
		typ:       typ,
		getter:    getter,
		value:     value,
	}
	if setter != nil {
		if setter.kind != Set && setter.kind != Init {
			return Property{}, fmt.Errorf("%w: %s", ErrInvalidAccessor, setter.kind)
		}
		p.setter = *setter
		p.hasSetter = true
	}
	return p, nil
}

func (p Property) Name() string             { return p.name }
func (p Property) Modifiers() []Modifier    { return clone(p.modifiers) }
func (p Property) Type() TypeRef            { return p.typ }
func (p Property) Getter() Accessor         { return p.getter }
func (p Property) Setter() (Accessor, bool) { return p.setter, p.hasSetter }
func (p Property) Value() (string, bool)    { return p.value, p.value != "" }

// Constructor is one constructor declaration; its name is the enclosing type's.
type Constructor struct {
	name       string
	modifiers  []Modifier
	parameters []Parameter
}

// NewConstructor returns a constructor; the name must be set.
func NewConstructor(name string, modifiers []Modifier, parameters []Parameter) (Constructor, error) {
	if name == "" {
		return Constructor{}, ErrEmptyName
	}
	return Constructor{name: name, modifiers: clone(modifiers), parameters: clone(parameters)}, nil
}

func (c Constructor) Name() string            { return c.name }
func (c Constructor) Modifiers() []Modifier   { return clone(c.modifiers) }
func (c Constructor) Parameters() []Parameter { return clone(c.parameters) }

// Method is one method declaration. A method without a return type (void) holds
// no TypeRef at all rather than a TypeRef named "void".
type Method struct {
	name       string
	modifiers  []Modifier
	returns    TypeRef
	hasReturn  bool
	parameters []Parameter
}

// NewMethod returns a method. returns is nil for a method with no return type.
func NewMethod(name string, modifiers []Modifier, returns *TypeRef, parameters []Parameter) (Method, error) {
	if name == "" {
		return Method{}, ErrEmptyName
	}
	m := Method{name: name, modifiers: clone(modifiers), parameters: clone(parameters)}
	if returns != nil {
		if returns.text == "" {
			return Method{}, ErrEmptyType
		}
		m.returns = *returns
		m.hasReturn = true
	}
	return m, nil
}

func (m Method) Name() string                { return m.name }
func (m Method) Modifiers() []Modifier       { return clone(m.modifiers) }
func (m Method) ReturnType() (TypeRef, bool) { return m.returns, m.hasReturn }
func (m Method) Parameters() []Parameter     { return clone(m.parameters) }

// Members groups the four member categories of a type declaration. Each slice
// keeps source declaration order.
type Members struct {
	Fields       []Field
	Properties   []Property
	Constructors []Constructor
	Methods      []Method
}

// TypeDeclaration is the root of the pseudo-model. It exclusively owns its
// member collections.
type TypeDeclaration struct {
	keyword      string
	name         string
	modifiers    []Modifier
	fields       []Field
	properties   []Property
	constructors []Constructor
	methods      []Method
}

// NewTypeDeclaration returns a declaration; keyword and name must be set.
func NewTypeDeclaration(keyword, name string, modifiers []Modifier, members Members) (TypeDeclaration, error) {
	if keyword == "" {
		return TypeDeclaration{}, fmt.Errorf("type keyword: %w", ErrEmptyName)
	}
	if name == "" {
		return TypeDeclaration{}, ErrEmptyName
	}
	return TypeDeclaration{
		keyword:      keyword,
		name:         name,
		modifiers:    clone(modifiers),
		fields:       clone(members.Fields),
		properties:   clone(members.Properties),
		constructors: clone(members.Constructors),
		methods:      clone(members.Methods),
	}, nil
}

func (d TypeDeclaration) Keyword() string             { return d.keyword }
func (d TypeDeclaration) Name() string                { return d.name }
func (d TypeDeclaration) Modifiers() []Modifier       { return clone(d.modifiers) }
func (d TypeDeclaration) Fields() []Field             { return clone(d.fields) }
func (d TypeDeclaration) Properties() []Property      { return clone(d.properties) }
func (d TypeDeclaration) Constructors() []Constructor { return clone(d.constructors) }
func (d TypeDeclaration) Methods() []Method           { return clone(d.methods) }

// MemberCount returns the number of members across all categories.
func (d TypeDeclaration) MemberCount() int {
	return len(d.fields) + len(d.properties) + len(d.constructors) + len(d.methods)
}

// Equal reports whether two declarations are structurally identical.
func (d TypeDeclaration) Equal(other TypeDeclaration) bool {
	return reflect.DeepEqual(d, other)
}

// clone copies s, normalizing empty slices to nil so that structural equality
// does not depend on how a caller spelled "no members".
func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}
