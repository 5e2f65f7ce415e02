// Package extractor maps a type handle into a pseudo-model declaration.
//
// Extraction is a pure read/transform pass over the handle: the declaration is
// returned whole or not at all, and a failure affects only the type being
// extracted.
package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corey/pseudo/internal/domain/pseudo"
	"github.com/corey/pseudo/internal/ports"
)

// ErrNoDeclarators is returned for a field statement that declares no names.
var ErrNoDeclarators = errors.New("field statement declares no names")

// ExtractionError reports malformed input for a single type.
type ExtractionError struct {
	Type     string // declared type name, "" if the handle had none
	Member   string // offending member, e.g. "property Name"; "" for the type itself
	Location string // "file:line" when the handle knows it
	Err      error
}

func (e *ExtractionError) Error() string {
	var sb strings.Builder
	sb.WriteString("extract ")
	if e.Type != "" {
		sb.WriteString(e.Type)
	} else {
		sb.WriteString("<unnamed type>")
	}
	if e.Location != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Location)
		sb.WriteByte(')')
	}
	if e.Member != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Member)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Config holds the values extraction depends on.
type Config struct {
	// VoidTypes lists return type spellings that mean "no return type".
	VoidTypes []string
}

// DefaultConfig returns the configuration for C# sources.
func DefaultConfig() Config {
	return Config{VoidTypes: []string{"void"}}
}

// Extractor converts handles into declarations. It holds no per-call state and
// is safe for concurrent use.
type Extractor struct {
	void map[string]bool
}

// New creates an Extractor. An empty VoidTypes list falls back to the defaults.
func New(cfg Config) *Extractor {
	voids := cfg.VoidTypes
	if len(voids) == 0 {
		voids = DefaultConfig().VoidTypes
	}
	e := &Extractor{void: make(map[string]bool, len(voids))}
	for _, v := range voids {
		e.void[strings.TrimSpace(v)] = true
	}
	return e
}

// Extract builds the declaration for h. Nested type declarations are not
// visited; a handle only ever yields its own members.
func (e *Extractor) Extract(h ports.TypeHandle) (pseudo.TypeDeclaration, error) {
	name := h.Name()
	fail := func(member string, err error) (pseudo.TypeDeclaration, error) {
		xerr := &ExtractionError{Type: name, Member: member, Err: err}
		if loc, ok := h.(ports.Locator); ok {
			xerr.Location = loc.Location()
		}
		return pseudo.TypeDeclaration{}, xerr
	}

	if name == "" {
		return fail("", fmt.Errorf("type name: %w", pseudo.ErrEmptyName))
	}
	mods, err := pseudo.Modifiers(h.Modifiers()...)
	if err != nil {
		return fail("modifiers", err)
	}

	var members pseudo.Members

	for _, node := range h.Fields() {
		fields, err := e.fields(node)
		if err != nil {
			return fail(fieldLabel(node), err)
		}
		members.Fields = append(members.Fields, fields...)
	}

	for _, node := range h.Properties() {
		prop, err := e.property(node)
		if err != nil {
			return fail("property "+node.Name, err)
		}
		members.Properties = append(members.Properties, prop)
	}

	for _, node := range h.Constructors() {
		ctor, err := e.constructor(node)
		if err != nil {
			return fail("constructor "+node.Name, err)
		}
		members.Constructors = append(members.Constructors, ctor)
	}

	for _, node := range h.Methods() {
		m, err := e.method(node)
		if err != nil {
			return fail("method "+node.Name, err)
		}
		members.Methods = append(members.Methods, m)
	}

	decl, err := pseudo.NewTypeDeclaration(h.TypeKeyword(), name, mods, members)
	if err != nil {
		return fail("", err)
	}
	return decl, nil
}

// fields expands one field statement into one Field per declared name, all
// sharing the statement's type and modifiers.
func (e *Extractor) fields(node ports.FieldNode) ([]pseudo.Field, error) {
	if len(node.Declarators) == 0 {
		return nil, ErrNoDeclarators
	}
	typ, err := pseudo.NewTypeRef(node.Type)
	if err != nil {
		return nil, err
	}
	mods, err := pseudo.Modifiers(node.Modifiers...)
	if err != nil {
		return nil, err
	}
	out := make([]pseudo.Field, 0, len(node.Declarators))
	for _, d := range node.Declarators {
		f, err := pseudo.NewField(d.Name, mods, typ, d.Initializer)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (e *Extractor) property(node ports.PropertyNode) (pseudo.Property, error) {
	typ, err := pseudo.NewTypeRef(node.Type)
	if err != nil {
		return pseudo.Property{}, err
	}
	mods, err := pseudo.Modifiers(node.Modifiers...)
	if err != nil {
		return pseudo.Property{}, err
	}

	var getter *pseudo.Accessor
	var setter *pseudo.Accessor
	for _, acc := range node.Accessors {
		kind, ok := pseudo.ParseAccessorKind(acc.Kind)
		if !ok {
			continue // add/remove and unknown accessors carry no shape
		}
		a := pseudo.NewAccessor(acc.Modifier, kind)
		switch {
		case kind == pseudo.Get && getter == nil:
			getter = &a
		case (kind == pseudo.Set || kind == pseudo.Init) && setter == nil:
			setter = &a
		}
	}
	if getter == nil {
		return pseudo.Property{}, pseudo.ErrMissingGetter
	}
	return pseudo.NewProperty(node.Name, mods, typ, *getter, setter, node.Initializer)
}

func (e *Extractor) constructor(node ports.ConstructorNode) (pseudo.Constructor, error) {
	mods, err := pseudo.Modifiers(node.Modifiers...)
	if err != nil {
		return pseudo.Constructor{}, err
	}
	params, err := parameters(node.Parameters)
	if err != nil {
		return pseudo.Constructor{}, err
	}
	return pseudo.NewConstructor(node.Name, mods, params)
}

func (e *Extractor) method(node ports.MethodNode) (pseudo.Method, error) {
	mods, err := pseudo.Modifiers(node.Modifiers...)
	if err != nil {
		return pseudo.Method{}, err
	}
	params, err := parameters(node.Parameters)
	if err != nil {
		return pseudo.Method{}, err
	}

	var ret *pseudo.TypeRef
	if rt := strings.TrimSpace(node.ReturnType); rt != "" && !e.void[rt] {
		tr, err := pseudo.NewTypeRef(rt)
		if err != nil {
			return pseudo.Method{}, err
		}
		ret = &tr
	}
	return pseudo.NewMethod(node.Name, mods, ret, params)
}

func parameters(nodes []ports.ParameterNode) ([]pseudo.Parameter, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	params := make([]pseudo.Parameter, 0, len(nodes))
	for i, n := range nodes {
		typ, err := pseudo.NewTypeRef(n.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		p, err := pseudo.NewParameter(n.Name, typ)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		params = append(params, p)
	}
	return params, nil
}

func fieldLabel(node ports.FieldNode) string {
	names := make([]string, 0, len(node.Declarators))
	for _, d := range node.Declarators {
		names = append(names, d.Name)
	}
	return "field " + strings.Join(names, ", ")
}
