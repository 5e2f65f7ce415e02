//go:build !lean

package treesitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/pseudo/internal/ports"
)

const sampleSource = `namespace Demo;

public abstract class AbstractTest : IAnalyzable
{
    public abstract void AbstractMethod();
}

public class TestClass2 : AbstractTest, ITestInterface
{
    // Fields
    public int publicField;
    private string privateField = "PrivateValue";
    protected static double staticField = 3.14;
    int a, b = 2;

    public TestClass2()
    {
        publicField = 42;
    }

    public TestClass2(int value, string text)
    {
        publicField = value;
    }

    public int AutoProperty { get; set; }
    public string ReadOnlyProperty { get; } = "ReadOnly";
    public string ComputedProperty
    {
        get { return privateField.ToUpper(); }
    }
    public int Total => publicField + 1;
    public string Name { get; private set; }

    public int this[int index]
    {
        get { return 0; }
    }

    public void DoSomething()
    {
    }

    public static Dictionary<string, List<int>> Lookup(ref int x, string y)
    {
        return null;
    }

    public event EventHandler TestEvent;

    ~TestClass2()
    {
    }

    public class NestedClass
    {
        public void NestedMethod() { }
    }
}

public struct Plain
{
    public int X;
}
`

func lineOf(t *testing.T, source, needle string) int {
	t.Helper()
	i := strings.Index(source, needle)
	require.GreaterOrEqual(t, i, 0, "needle %q not in source", needle)
	return strings.Count(source[:i], "\n") + 1
}

func byName(t *testing.T, decls []*Declaration, name string) *Declaration {
	t.Helper()
	for _, d := range decls {
		if d.Name() == name {
			return d
		}
	}
	require.Failf(t, "declaration not found", "no declaration named %s", name)
	return nil
}

func parseSample(t *testing.T) []*Declaration {
	t.Helper()
	decls, err := NewParser().ParseFile("Demo/TestClass2.cs", []byte(sampleSource))
	require.NoError(t, err)
	return decls
}

func TestParseFile_DiscoversTypesInSourceOrder(t *testing.T) {
	decls := parseSample(t)

	var names []string
	for _, d := range decls {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"AbstractTest", "TestClass2", "NestedClass", "Plain"}, names)

	tc := byName(t, decls, "TestClass2")
	assert.Equal(t, "class", tc.TypeKeyword())
	assert.Equal(t, []string{"public"}, tc.Modifiers())
	assert.Equal(t, []string{"AbstractTest", "ITestInterface"}, tc.Bases())
	assert.Equal(t, lineOf(t, sampleSource, "public class TestClass2"), tc.Line)
	assert.Equal(t, "Demo/TestClass2.cs:8", tc.Location())

	assert.Equal(t, "struct", byName(t, decls, "Plain").TypeKeyword())
	assert.Equal(t, []string{"public", "abstract"}, byName(t, decls, "AbstractTest").Modifiers())
}

func TestParseFile_Fields(t *testing.T) {
	fields := byName(t, parseSample(t), "TestClass2").Fields()
	require.Len(t, fields, 4)

	assert.Equal(t, ports.FieldNode{
		Modifiers:   []string{"public"},
		Type:        "int",
		Declarators: []ports.Declarator{{Name: "publicField"}},
	}, fields[0])
	assert.Equal(t, []ports.Declarator{{Name: "privateField", Initializer: `"PrivateValue"`}}, fields[1].Declarators)
	assert.Equal(t, []string{"protected", "static"}, fields[2].Modifiers)
	assert.Equal(t, "double", fields[2].Type)
	assert.Equal(t, "3.14", fields[2].Declarators[0].Initializer)

	assert.Nil(t, fields[3].Modifiers)
	assert.Equal(t, []ports.Declarator{{Name: "a"}, {Name: "b", Initializer: "2"}}, fields[3].Declarators)
}

func TestParseFile_Properties(t *testing.T) {
	props := byName(t, parseSample(t), "TestClass2").Properties()
	require.Len(t, props, 5, "indexers are not properties")

	auto := props[0]
	assert.Equal(t, "AutoProperty", auto.Name)
	assert.Equal(t, "int", auto.Type)
	assert.Equal(t, []ports.AccessorNode{{Kind: "get"}, {Kind: "set"}}, auto.Accessors)
	assert.Equal(t, "", auto.Initializer)

	readOnly := props[1]
	assert.Equal(t, []ports.AccessorNode{{Kind: "get"}}, readOnly.Accessors)
	assert.Equal(t, `"ReadOnly"`, readOnly.Initializer)

	computed := props[2]
	assert.Equal(t, "ComputedProperty", computed.Name)
	assert.Equal(t, []ports.AccessorNode{{Kind: "get"}}, computed.Accessors)

	total := props[3]
	assert.Equal(t, "Total", total.Name)
	assert.Equal(t, []ports.AccessorNode{{Kind: "get"}}, total.Accessors, "expression body reads as a getter")
	assert.Equal(t, "", total.Initializer)

	name := props[4]
	assert.Equal(t, []ports.AccessorNode{{Kind: "get"}, {Modifier: "private", Kind: "set"}}, name.Accessors)
}

func TestParseFile_ConstructorsAndMethods(t *testing.T) {
	tc := byName(t, parseSample(t), "TestClass2")

	ctors := tc.Constructors()
	require.Len(t, ctors, 2, "destructors are not constructors")
	assert.Equal(t, "TestClass2", ctors[0].Name)
	assert.Empty(t, ctors[0].Parameters)
	assert.Equal(t, []ports.ParameterNode{{Type: "int", Name: "value"}, {Type: "string", Name: "text"}}, ctors[1].Parameters)

	methods := tc.Methods()
	require.Len(t, methods, 2, "events, nested types and destructors are skipped")
	assert.Equal(t, "DoSomething", methods[0].Name)
	assert.Equal(t, "void", methods[0].ReturnType)
	assert.Equal(t, []string{"public"}, methods[0].Modifiers)

	assert.Equal(t, "Lookup", methods[1].Name)
	assert.Equal(t, "Dictionary<string, List<int>>", methods[1].ReturnType)
	assert.Equal(t, []string{"public", "static"}, methods[1].Modifiers)
	assert.Equal(t, []ports.ParameterNode{{Type: "ref int", Name: "x"}, {Type: "string", Name: "y"}}, methods[1].Parameters)
}

func TestParseFile_NestedTypeIsSeparate(t *testing.T) {
	decls := parseSample(t)
	nested := byName(t, decls, "NestedClass")
	require.Len(t, nested.Methods(), 1)
	assert.Equal(t, "NestedMethod", nested.Methods()[0].Name)

	for _, m := range byName(t, decls, "TestClass2").Methods() {
		assert.NotEqual(t, "NestedMethod", m.Name)
	}
}

func TestParseFile_BlockNamespaceRecordsAndInterfaces(t *testing.T) {
	source := `using System.Collections.Generic;

namespace Shapes
{
    public interface IShape : Core.IAnalyzable
    {
        double Area();
        string Label { get; }
    }

    [Serializable]
    public sealed class Circle : IShape
    {
        private List<int> items = new List<int>
        {
            1, 2
        };

        public double Area() { return 0; }
        public string Label { get; init; }
    }

    public record Person(string First) : IAnalyzable
    {
        public int Age { get; init; }
    }

    public class Repo<T> : IRepository<T> where T : class
    {
    }
}
`
	decls, err := NewParser().ParseFile("Shapes.cs", []byte(source))
	require.NoError(t, err)
	require.Len(t, decls, 4)

	shape := byName(t, decls, "IShape")
	assert.Equal(t, "interface", shape.TypeKeyword())
	assert.Equal(t, []string{"IAnalyzable"}, shape.Bases())
	require.Len(t, shape.Methods(), 1)
	assert.Equal(t, "double", shape.Methods()[0].ReturnType)

	circle := byName(t, decls, "Circle")
	assert.Equal(t, []string{"public", "sealed"}, circle.Modifiers())
	require.Len(t, circle.Fields(), 1)
	assert.Equal(t, "new List<int> { 1, 2 }", circle.Fields()[0].Declarators[0].Initializer)
	assert.Equal(t, []ports.AccessorNode{{Kind: "get"}, {Kind: "init"}}, circle.Properties()[0].Accessors)

	person := byName(t, decls, "Person")
	assert.Equal(t, "record", person.TypeKeyword())
	assert.Equal(t, []string{"IAnalyzable"}, person.Bases())

	repo := byName(t, decls, "Repo")
	assert.Equal(t, []string{"IRepository"}, repo.Bases())
}

func TestParseHandles(t *testing.T) {
	handles, err := NewParser().ParseHandles("Demo.cs", []byte(sampleSource))
	require.NoError(t, err)
	require.Len(t, handles, 4)
	_, ok := handles[0].(ports.Locator)
	assert.True(t, ok)
}

func TestParseFile_Empty(t *testing.T) {
	decls, err := NewParser().ParseFile("Empty.cs", nil)
	require.NoError(t, err)
	assert.Nil(t, decls)
}

func TestParseFile_ParamsArray(t *testing.T) {
	source := `class C
{
    public C(ref int x, out int y, in int z, params string[] rest) { y = 0; }
    public void M(int a, params string[] rest) { }
    public void V(params int[] xs) { }
}
`
	decls, err := NewParser().ParseFile("C.cs", []byte(source))
	require.NoError(t, err)
	c := byName(t, decls, "C")

	require.Len(t, c.Constructors(), 1)
	assert.Equal(t, []ports.ParameterNode{
		{Type: "ref int", Name: "x"},
		{Type: "out int", Name: "y"},
		{Type: "in int", Name: "z"},
		{Type: "params string[]", Name: "rest"},
	}, c.Constructors()[0].Parameters)

	methods := c.Methods()
	require.Len(t, methods, 2)
	assert.Equal(t, []ports.ParameterNode{{Type: "int", Name: "a"}, {Type: "params string[]", Name: "rest"}}, methods[0].Parameters)
	assert.Equal(t, []ports.ParameterNode{{Type: "params int[]", Name: "xs"}}, methods[1].Parameters)
}

func TestParseFile_QualifiedNestedNames(t *testing.T) {
	source := `namespace Trees
{
    class Red
    {
        class Node { }
    }
    class Black
    {
        class Node
        {
            class Leaf { }
        }
    }
}
`
	decls, err := NewParser().ParseFile("Trees.cs", []byte(source))
	require.NoError(t, err)

	var names []string
	for _, d := range decls {
		names = append(names, d.QualifiedName())
	}
	assert.Equal(t, []string{"Red", "Red.Node", "Black", "Black.Node", "Black.Node.Leaf"}, names)
	assert.Equal(t, "Node", decls[1].Name())
}
