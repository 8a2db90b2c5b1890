package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	parser := New()
	if parser == nil {
		t.Fatal("New() returned nil")
	}
	if parser.parser == nil {
		t.Fatal("parser field is nil")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{
			name: "simple function",
			source: `def hello():
    print("Hello, World!")`,
			wantErr: false,
		},
		{
			name: "class definition",
			source: `class MyClass:
    def __init__(self):
        self.value = 42`,
			wantErr: false,
		},
		{
			name:    "empty source",
			source:  "",
			wantErr: false,
		},
		{
			name: "syntax error",
			source: `def broken(:
    pass`,
			wantErr: true,
		},
		{
			name: "incomplete code",
			source: `def incomplete(
`,
			wantErr: true,
		},
	}

	parser := New()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(ctx, []byte(tt.source))

			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse() expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Parse() unexpected error: %v", err)
				return
			}

			if result == nil {
				t.Fatal("Parse() returned nil result")
			}
			if result.RootNode == nil {
				t.Fatal("ParseResult.RootNode is nil")
			}
			if string(result.SourceCode) != tt.source {
				t.Errorf("ParseResult.SourceCode mismatch: got %q, want %q",
					string(result.SourceCode), tt.source)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	parser := New()
	tree, err := parser.ParseTree(context.Background(), []byte("x = 1\n"))
	if err != nil {
		t.Fatalf("ParseTree() error: %v", err)
	}
	if tree.Root == nil || tree.Root.Type != TypeModule {
		t.Fatalf("expected module root, got %+v", tree.Root)
	}
	if string(tree.Source) != "x = 1\n" {
		t.Errorf("Source = %q", tree.Source)
	}
}

func TestParseRejectsLegacyStatements(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{name: "print statement", source: "print 'hello'\n", wantErr: true},
		{name: "print chevron", source: "import sys\nprint >>sys.stderr, 'x'\n", wantErr: true},
		{name: "exec statement", source: "exec 'x = 1'\n", wantErr: true},
		{name: "nested print statement", source: "def f():\n    if x:\n        print x\n", wantErr: true},
		{name: "print call", source: "print('hello')\n", wantErr: false},
		{name: "print as a name", source: "log = print\n", wantErr: false},
	}

	parser := New()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(ctx, []byte(tt.source))
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("Parse() error = %v, want ErrSyntax", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Parse() unexpected error: %v", err)
			}
		})
	}
}

func TestParseReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := []byte(strings.Repeat("def f(x, y):\n    return x + y\n", 500))
	_, err := New().Parse(ctx, source)
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Parse() error = %v, want context.Canceled or success", err)
	}
}

func TestParseReusesParser(t *testing.T) {
	parser := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := parser.ParseTree(ctx, []byte("def f(x):\n    return x\n")); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
	}
	if _, err := parser.ParseTree(ctx, []byte("def (")); err == nil {
		t.Fatal("expected syntax error")
	}
	if _, err := parser.ParseTree(ctx, []byte("y = 2")); err != nil {
		t.Fatalf("parser unusable after error: %v", err)
	}
}

func mustParse(t *testing.T, source string) *Tree {
	t.Helper()
	tree, err := New().ParseTree(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("ParseTree(%q) error: %v", source, err)
	}
	return tree
}
