package parser

import (
	"testing"
)

func collectKind(tree *Tree, kind Kind) []*Node {
	collector := NewCollectorVisitor(func(n *Node) bool { return n.Kind == kind })
	tree.Root.Accept(collector)
	return collector.GetNodes()
}

func texts(nodes []*Node) []string {
	result := make([]string, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, n.Text)
	}
	return result
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindOther, "Other"},
		{KindNameRef, "NameRef"},
		{KindLiteralStmt, "LiteralStmt"},
		{KindFunctionDef, "FunctionDef"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNameReferences(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "assignment and use",
			source: "x = y + 1",
			want:   []string{"x", "y"},
		},
		{
			name:   "attribute name is not a reference",
			source: "obj.attr = 1",
			want:   []string{"obj"},
		},
		{
			name:   "keyword argument name",
			source: "f(key=value)",
			want:   []string{"f", "value"},
		},
		{
			name:   "function and parameter names",
			source: "def foo(x, y=z):\n    return x",
			want:   []string{"z", "x"},
		},
		{
			name:   "class name",
			source: "class Foo(Base):\n    pass",
			want:   []string{"Base"},
		},
		{
			name:   "imports",
			source: "import os.path\nfrom a import b as c",
			want:   nil,
		},
		{
			name:   "except alias",
			source: "try:\n    pass\nexcept ValueError as err:\n    raise err",
			want:   []string{"ValueError", "err"},
		},
		{
			name:   "global declaration",
			source: "def f():\n    global counter\n    counter = 1",
			want:   []string{"counter"},
		},
		{
			name:   "splat parameters",
			source: "def f(*args, **kwargs):\n    g(*args, **kwargs)",
			want:   []string{"g", "args", "kwargs"},
		},
		{
			name:   "lambda parameter",
			source: "h = lambda v: v",
			want:   []string{"h", "v"},
		},
		{
			name:   "match class pattern",
			source: "match p:\n    case Point(x=0, y=mod.ORIGIN):\n        pass\n    case other:\n        pass",
			want:   []string{"p", "Point", "mod"},
		},
		{
			name:   "f-string interpolation",
			source: "s = f\"{name}\"",
			want:   []string{"s", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.source)
			got := texts(collectKind(tree, KindNameRef))
			if len(got) != len(tt.want) {
				t.Fatalf("name refs = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("name refs = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestLiteralStatements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"docstring", "def f():\n    \"\"\"doc\"\"\"\n    return 1", 1},
		{"module docstring", "'''module'''\nx = 1", 1},
		{"number", "42", 1},
		{"ellipsis body", "def f(): ...", 1},
		{"parenthesized", "(None)", 1},
		{"concatenated strings", "'a' 'b'", 1},
		{"f-string is not constant", "f'{x}'", 0},
		{"call is not constant", "print('x')", 0},
		{"assignment is not constant", "x = 'doc'", 0},
		{"tuple is not constant", "1, 2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.source)
			if got := len(collectKind(tree, KindLiteralStmt)); got != tt.want {
				t.Errorf("literal statements = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFunctionDefinitionsAndDecorators(t *testing.T) {
	source := `@property
@cache(size=2)
def value(self):
    return 1

async def fetch():
    pass

class C:
    @staticmethod
    def make():
        pass
`
	tree := mustParse(t, source)
	defs := collectKind(tree, KindFunctionDef)
	if len(defs) != 3 {
		t.Fatalf("function definitions = %d, want 3", len(defs))
	}

	if got := len(defs[0].Decorators); got != 2 {
		t.Errorf("decorators on value = %d, want 2", got)
	}
	if defs[0].Parent != tree.Root {
		t.Errorf("decorated definition should replace its wrapper in the module")
	}
	if defs[0].IsAsync() {
		t.Errorf("value is not async")
	}
	if !defs[1].IsAsync() {
		t.Errorf("fetch is async")
	}
	if got := len(defs[2].Decorators); got != 1 {
		t.Errorf("decorators on make = %d, want 1", got)
	}
	if name := defs[2].ChildByField(FieldName); name == nil || name.Text != "make" {
		t.Errorf("unexpected name node %+v", name)
	}
}

func TestNodeEditing(t *testing.T) {
	tree := mustParse(t, "def f(x) -> int:\n    return x")
	def := collectKind(tree, KindFunctionDef)[0]

	returnType := def.ChildByField(FieldReturnType)
	if returnType == nil {
		t.Fatal("missing return type")
	}
	if prev := returnType.PrevSibling(); prev == nil || prev.Text != "->" {
		t.Fatalf("expected arrow before return type, got %+v", prev)
	}

	removed := def.RemoveChildren(func(n *Node) bool {
		return n.Field == FieldReturnType || n.Text == "->"
	})
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if def.ChildByField(FieldReturnType) != nil {
		t.Error("return type still present")
	}

	name := def.ChildByField(FieldName)
	leaf := NewLeaf(TypeIdentifier, "g")
	if !def.ReplaceChild(name, leaf) {
		t.Fatal("ReplaceChild failed")
	}
	if leaf.Field != FieldName || leaf.Parent != def || !leaf.Synthetic {
		t.Errorf("replacement not wired: %+v", leaf)
	}
	if name.Parent != nil {
		t.Error("replaced node still has a parent")
	}
	if def.ReplaceChild(name, leaf) {
		t.Error("ReplaceChild of a detached node should fail")
	}
	if def.IndexOf(leaf) < 0 {
		t.Error("IndexOf cannot find replacement")
	}
}

func TestLocation(t *testing.T) {
	tree := mustParse(t, "x = 1\ndef f():\n    pass\n")
	def := collectKind(tree, KindFunctionDef)[0]
	if def.Location.StartLine != 2 || def.Location.StartCol != 0 {
		t.Errorf("unexpected location %s", def.Location)
	}
	if def.Location.EndLine != 3 {
		t.Errorf("unexpected end line in %s", def.Location)
	}

	loc := Location{StartLine: 1, StartCol: 2, EndLine: 3, EndCol: 4}
	if got := loc.String(); got != "1:2-3:4" {
		t.Errorf("Location.String() = %q", got)
	}
}

func TestUnwrapParens(t *testing.T) {
	tree := mustParse(t, "((1))")
	stmt := tree.Root.NamedChildren()[0]
	inner := UnwrapParens(stmt.NamedChildren()[0])
	if inner.Type != "integer" {
		t.Errorf("UnwrapParens() = %s, want integer", inner.Type)
	}
}

func TestCount(t *testing.T) {
	var nilNode *Node
	if nilNode.Count() != 0 {
		t.Error("nil node should count 0")
	}
	tree := mustParse(t, "x")
	if tree.Root.Count() < 3 {
		t.Errorf("Count() = %d, want module, statement and identifier", tree.Root.Count())
	}
}
