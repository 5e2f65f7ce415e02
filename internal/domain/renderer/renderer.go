// Package renderer serializes a pseudo-model into pseudo-code text.
//
// Layout:
//
//	public class Point
//	{
//		public int X;
//		public int Y { get; set; }
//		public Point(int x, int y) { ... }
//		public void Move(int dx) { ... }
//	}
//
// Members render one per line, tab-indented, grouped as fields, properties,
// constructors, methods regardless of their order in the source. Rendering is a
// pure function of the model: the same declaration always yields the same bytes.
package renderer

import (
	"fmt"
	"strings"

	"github.com/corey/pseudo/internal/domain/pseudo"
)

// body stands in for every constructor and method body.
const body = " { ... }"

// memberHint is the per-member guess used to pre-size the output buffer. The
// buffer grows past it as needed.
const memberHint = 64

// Render returns the pseudo-code text of decl. The result has no trailing newline.
func Render(decl pseudo.TypeDeclaration) string {
	var sb strings.Builder
	sb.Grow(len(decl.Keyword()) + len(decl.Name()) + 8 + decl.MemberCount()*memberHint)

	writeModifiers(&sb, decl.Modifiers())
	sb.WriteString(decl.Keyword())
	sb.WriteByte(' ')
	sb.WriteString(decl.Name())
	sb.WriteString("\n{\n")

	for _, f := range decl.Fields() {
		sb.WriteByte('\t')
		writeField(&sb, f)
		sb.WriteByte('\n')
	}
	for _, p := range decl.Properties() {
		sb.WriteByte('\t')
		writeProperty(&sb, p)
		sb.WriteByte('\n')
	}
	for _, c := range decl.Constructors() {
		sb.WriteByte('\t')
		writeConstructor(&sb, c)
		sb.WriteByte('\n')
	}
	for _, m := range decl.Methods() {
		sb.WriteByte('\t')
		writeMethod(&sb, m)
		sb.WriteByte('\n')
	}

	sb.WriteByte('}')
	return sb.String()
}

// Modifiers renders each modifier followed by one space: "public static ".
func Modifiers(mods []pseudo.Modifier) string {
	var sb strings.Builder
	writeModifiers(&sb, mods)
	return sb.String()
}

// Parameters renders "int x, string y".
func Parameters(params []pseudo.Parameter) string {
	var sb strings.Builder
	writeParameters(&sb, params)
	return sb.String()
}

// Field renders "public int Count = 0;".
func Field(f pseudo.Field) string {
	var sb strings.Builder
	writeField(&sb, f)
	return sb.String()
}

// Property renders "public int X { get; private set; } = 1;".
func Property(p pseudo.Property) string {
	var sb strings.Builder
	writeProperty(&sb, p)
	return sb.String()
}

// Constructor renders "public Point(int x, int y) { ... }".
func Constructor(c pseudo.Constructor) string {
	var sb strings.Builder
	writeConstructor(&sb, c)
	return sb.String()
}

// Method renders "public string Compute() { ... }", dropping the return type
// segment entirely for methods without one.
func Method(m pseudo.Method) string {
	var sb strings.Builder
	writeMethod(&sb, m)
	return sb.String()
}

func writeModifiers(sb *strings.Builder, mods []pseudo.Modifier) {
	for _, m := range mods {
		sb.WriteString(m.String())
		sb.WriteByte(' ')
	}
}

func writeParameters(sb *strings.Builder, params []pseudo.Parameter) {
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type().String())
		sb.WriteByte(' ')
		sb.WriteString(p.Name())
	}
}

func writeField(sb *strings.Builder, f pseudo.Field) {
	writeModifiers(sb, f.Modifiers())
	sb.WriteString(f.Type().String())
	sb.WriteByte(' ')
	sb.WriteString(f.Name())
	if v, ok := f.Value(); ok {
		sb.WriteString(" = ")
		sb.WriteString(v)
	}
	sb.WriteByte(';')
}

func writeProperty(sb *strings.Builder, p pseudo.Property) {
	getter := p.Getter()
	if getter.Kind() != pseudo.Get {
		// Only a zero-value Property can get here; NewProperty rejects it.
		panic(fmt.Sprintf("renderer: property %q has no getter", p.Name()))
	}

	writeModifiers(sb, p.Modifiers())
	sb.WriteString(p.Type().String())
	sb.WriteByte(' ')
	sb.WriteString(p.Name())
	sb.WriteString(" { ")
	writeAccessor(sb, getter)
	if setter, ok := p.Setter(); ok {
		sb.WriteByte(' ')
		writeAccessor(sb, setter)
	}
	sb.WriteString(" }")
	if v, ok := p.Value(); ok {
		sb.WriteString(" = ")
		sb.WriteString(v)
		sb.WriteByte(';')
	}
}

func writeAccessor(sb *strings.Builder, a pseudo.Accessor) {
	if !a.Kind().Valid() {
		panic(fmt.Sprintf("renderer: invalid accessor %s", a.Kind()))
	}
	if a.Modifier() != "" {
		sb.WriteString(a.Modifier())
		sb.WriteByte(' ')
	}
	sb.WriteString(a.Kind().String())
	sb.WriteByte(';')
}

func writeConstructor(sb *strings.Builder, c pseudo.Constructor) {
	writeModifiers(sb, c.Modifiers())
	writeSignature(sb, c.Name(), c.Parameters())
}

func writeMethod(sb *strings.Builder, m pseudo.Method) {
	writeModifiers(sb, m.Modifiers())
	if ret, ok := m.ReturnType(); ok {
		sb.WriteString(ret.String())
		sb.WriteByte(' ')
	}
	writeSignature(sb, m.Name(), m.Parameters())
}

func writeSignature(sb *strings.Builder, name string, params []pseudo.Parameter) {
	sb.WriteString(name)
	sb.WriteByte('(')
	writeParameters(sb, params)
	sb.WriteByte(')')
	sb.WriteString(body)
}
