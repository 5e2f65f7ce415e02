package treesitter

import (
	"fmt"
	"slices"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/pseudo/internal/ports"
)

// Declaration is one C# type declaration read out of a syntax tree. All member
// records are copied out at parse time, so a Declaration outlives its tree and
// is read-only afterwards.
type Declaration struct {
	File string
	Line int // 1-based

	keyword      string
	name         string
	outer        []string // enclosing type names, outermost first
	modifiers    []string
	bases        []string
	fields       []ports.FieldNode
	properties   []ports.PropertyNode
	constructors []ports.ConstructorNode
	methods      []ports.MethodNode
}

var (
	_ ports.TypeHandle = (*Declaration)(nil)
	_ ports.Locator    = (*Declaration)(nil)
	_ ports.BaseLister = (*Declaration)(nil)
	_ ports.Qualifier  = (*Declaration)(nil)
)

func (d *Declaration) TypeKeyword() string                   { return d.keyword }
func (d *Declaration) Name() string                          { return d.name }
func (d *Declaration) Modifiers() []string                   { return d.modifiers }
func (d *Declaration) Fields() []ports.FieldNode             { return d.fields }
func (d *Declaration) Properties() []ports.PropertyNode      { return d.properties }
func (d *Declaration) Constructors() []ports.ConstructorNode { return d.constructors }
func (d *Declaration) Methods() []ports.MethodNode           { return d.methods }

// Bases returns the simple names in the base list, in declaration order.
func (d *Declaration) Bases() []string { return d.bases }

// QualifiedName prefixes the name with its enclosing types: "Red.Node".
func (d *Declaration) QualifiedName() string {
	if len(d.outer) == 0 {
		return d.name
	}
	return strings.Join(d.outer, ".") + "." + d.name
}

// Location returns "file:line".
func (d *Declaration) Location() string { return fmt.Sprintf("%s:%d", d.File, d.Line) }

// typeKinds are the declarations that become handles. Enums and delegates have
// no members the pseudo-model can express.
var typeKinds = map[string]bool{
	"class_declaration":     true,
	"struct_declaration":    true,
	"interface_declaration": true,
	"record_declaration":    true,
}

// containerKinds may hold type declarations further down.
var containerKinds = map[string]bool{
	"compilation_unit":                  true,
	"namespace_declaration":             true,
	"file_scoped_namespace_declaration": true,
	"declaration_list":                  true,
}

type walker struct {
	path   string
	source []byte
	decls  []*Declaration
}

// collect appends every type declaration under n, outer before inner. outer
// holds the names of the types enclosing n.
func (w *walker) collect(n *tree_sitter.Node, outer []string) {
	for i := uint(0); i < uint(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		kind := child.Kind()
		switch {
		case typeKinds[kind]:
			d := w.declaration(child, outer)
			w.decls = append(w.decls, d)
			if body := bodyOf(child); body != nil {
				w.collect(body, append(slices.Clip(outer), d.name))
			}
		case containerKinds[kind], strings.HasPrefix(kind, "preproc_"):
			w.collect(child, outer)
		}
	}
}

func (w *walker) declaration(n *tree_sitter.Node, outer []string) *Declaration {
	d := &Declaration{
		File:  w.path,
		Line:  int(n.StartPosition().Row) + 1,
		outer: outer,
	}

	nameNode := n.ChildByFieldName("name")
	if nameNode != nil {
		d.name = nodeText(nameNode, w.source)
	}

	// Keyword tokens sit between the modifiers and the name: "class",
	// "record struct", ...
	var keyword []string
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		c := n.Child(i)
		if nameNode != nil && c.StartByte() >= nameNode.StartByte() {
			break
		}
		switch {
		case c.Kind() == "modifier":
			d.modifiers = append(d.modifiers, nodeText(c, w.source))
		case !c.IsNamed():
			keyword = append(keyword, nodeText(c, w.source))
		}
	}
	d.keyword = strings.Join(keyword, " ")

	if bl := childByKind(n, "base_list"); bl != nil {
		for i := uint(0); i < uint(bl.NamedChildCount()); i++ {
			if name := simpleName(nodeText(bl.NamedChild(i), w.source)); name != "" {
				d.bases = append(d.bases, name)
			}
		}
	}

	if body := bodyOf(n); body != nil {
		w.members(d, body)
	}
	return d
}

// bodyOf returns the member list of a type declaration, nil for a bodiless
// record such as "record Point(int X, int Y);".
func bodyOf(n *tree_sitter.Node) *tree_sitter.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		return body
	}
	return childByKind(n, "declaration_list")
}

// members reads the direct members of a declaration body. Nested types,
// events, indexers, operators and destructors are skipped.
func (w *walker) members(d *Declaration, body *tree_sitter.Node) {
	for i := uint(0); i < uint(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		switch kind := m.Kind(); kind {
		case "field_declaration":
			if f, ok := w.field(m); ok {
				d.fields = append(d.fields, f)
			}
		case "property_declaration":
			d.properties = append(d.properties, w.property(m))
		case "constructor_declaration":
			d.constructors = append(d.constructors, ports.ConstructorNode{
				Modifiers:  w.modifiers(m),
				Name:       w.fieldText(m, "name"),
				Parameters: w.parameters(m.ChildByFieldName("parameters")),
			})
		case "method_declaration":
			ret := m.ChildByFieldName("returns")
			if ret == nil {
				ret = m.ChildByFieldName("type")
			}
			node := ports.MethodNode{
				Modifiers:  w.modifiers(m),
				Name:       w.fieldText(m, "name"),
				Parameters: w.parameters(m.ChildByFieldName("parameters")),
			}
			if ret != nil {
				node.ReturnType = flatten(nodeText(ret, w.source))
			}
			d.methods = append(d.methods, node)
		default:
			if strings.HasPrefix(kind, "preproc_") {
				w.members(d, m)
			}
		}
	}
}

func (w *walker) field(n *tree_sitter.Node) (ports.FieldNode, bool) {
	decl := childByKind(n, "variable_declaration")
	if decl == nil {
		return ports.FieldNode{}, false
	}
	f := ports.FieldNode{
		Modifiers: w.modifiers(n),
		Type:      w.fieldText(decl, "type"),
	}
	for i := uint(0); i < uint(decl.NamedChildCount()); i++ {
		v := decl.NamedChild(i)
		if v.Kind() != "variable_declarator" {
			continue
		}
		f.Declarators = append(f.Declarators, ports.Declarator{
			Name:        w.declaratorName(v),
			Initializer: w.initializer(v),
		})
	}
	return f, true
}

func (w *walker) declaratorName(v *tree_sitter.Node) string {
	if name := v.ChildByFieldName("name"); name != nil {
		return nodeText(name, w.source)
	}
	if id := childByKind(v, "identifier"); id != nil {
		return nodeText(id, w.source)
	}
	return ""
}

// initializer returns the text after "=" in a declarator, or "" when there is
// none. Older grammars wrap it in an equals_value_clause.
func (w *walker) initializer(v *tree_sitter.Node) string {
	if clause := childByKind(v, "equals_value_clause"); clause != nil {
		if clause.NamedChildCount() > 0 {
			return flatten(nodeText(clause.NamedChild(0), w.source))
		}
		return ""
	}
	for i := uint(0); i < uint(v.ChildCount()); i++ {
		if v.Child(i).Kind() != "=" {
			continue
		}
		for j := i + 1; j < uint(v.ChildCount()); j++ {
			if c := v.Child(j); c.IsNamed() {
				return flatten(nodeText(c, w.source))
			}
		}
	}
	return ""
}

func (w *walker) property(n *tree_sitter.Node) ports.PropertyNode {
	p := ports.PropertyNode{
		Modifiers: w.modifiers(n),
		Type:      w.fieldText(n, "type"),
		Name:      w.fieldText(n, "name"),
	}

	if list := n.ChildByFieldName("accessors"); list != nil {
		for i := uint(0); i < uint(list.NamedChildCount()); i++ {
			acc := list.NamedChild(i)
			if acc.Kind() != "accessor_declaration" {
				continue
			}
			p.Accessors = append(p.Accessors, ports.AccessorNode{
				Modifier: strings.Join(w.modifiers(acc), " "),
				Kind:     w.fieldText(acc, "name"),
			})
		}
	}

	if value := n.ChildByFieldName("value"); value != nil {
		if value.Kind() == "arrow_expression_clause" {
			// int Total => a + b; reads like a getter-only property.
			p.Accessors = []ports.AccessorNode{{Kind: "get"}}
		} else {
			p.Initializer = flatten(nodeText(value, w.source))
		}
	}
	return p
}

func (w *walker) parameters(list *tree_sitter.Node) []ports.ParameterNode {
	if list == nil {
		return nil
	}
	var params []ports.ParameterNode
	for i := uint(0); i < uint(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		if c.Kind() != "parameter" {
			continue
		}
		params = append(params, ports.ParameterNode{
			Type: w.parameterType(c),
			Name: w.fieldText(c, "name"),
		})
	}
	// The grammar has no node for a params array: its type and name are
	// fields of the list itself, and it is always the last parameter.
	if name := list.ChildByFieldName("name"); name != nil {
		params = append(params, ports.ParameterNode{
			Type: "params " + w.fieldText(list, "type"),
			Name: nodeText(name, w.source),
		})
	}
	return params
}

// parameterType keeps parameter modifiers (ref, out, in, this) with the type,
// since they are part of the signature: "ref int".
func (w *walker) parameterType(c *tree_sitter.Node) string {
	typ := c.ChildByFieldName("type")
	if typ == nil {
		return ""
	}
	start := typ.StartByte()
	for i := uint(0); i < uint(c.ChildCount()); i++ {
		ch := c.Child(i)
		if ch.Kind() == "attribute_list" {
			continue
		}
		if ch.StartByte() < start {
			start = ch.StartByte()
		}
		break
	}
	return flatten(string(w.source[start:typ.EndByte()]))
}

func (w *walker) modifiers(n *tree_sitter.Node) []string {
	var mods []string
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Kind() == "modifier" {
			mods = append(mods, nodeText(c, w.source))
		}
	}
	return mods
}

func (w *walker) fieldText(n *tree_sitter.Node, field string) string {
	c := n.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return flatten(nodeText(c, w.source))
}

// simpleName strips namespace qualifiers, generic arguments and primary
// constructor arguments from a base type: "global::A.B.IRepo<T>" -> "IRepo".
func simpleName(text string) string {
	if i := strings.IndexAny(text, "<("); i >= 0 {
		text = text[:i]
	}
	if i := strings.LastIndex(text, "::"); i >= 0 {
		text = text[i+2:]
	}
	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}
