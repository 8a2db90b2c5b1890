package parser

import "fmt"

// Kind classifies a node for canonicalization purposes.
type Kind int

const (
	// KindOther is any node without a canonicalization rule
	KindOther Kind = iota
	// KindNameRef is an identifier read or written as a variable
	KindNameRef
	// KindLiteralStmt is an expression statement holding a single constant
	KindLiteralStmt
	// KindFunctionDef is a function definition (sync or async)
	KindFunctionDef
)

// String returns string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindNameRef:
		return "NameRef"
	case KindLiteralStmt:
		return "LiteralStmt"
	case KindFunctionDef:
		return "FunctionDef"
	default:
		return "Other"
	}
}

// Grammar node types referenced by the builder, normalizer and printer
const (
	TypeModule                  = "module"
	TypeBlock                   = "block"
	TypeIdentifier              = "identifier"
	TypeFunctionDefinition      = "function_definition"
	TypeClassDefinition         = "class_definition"
	TypeDecoratedDefinition     = "decorated_definition"
	TypeDecorator               = "decorator"
	TypeParameters              = "parameters"
	TypeLambdaParameters        = "lambda_parameters"
	TypeTypedParameter          = "typed_parameter"
	TypeDefaultParameter        = "default_parameter"
	TypeTypedDefaultParameter   = "typed_default_parameter"
	TypeListSplatPattern        = "list_splat_pattern"
	TypeDictionarySplatPattern  = "dictionary_splat_pattern"
	TypeKeywordSeparator        = "keyword_separator"
	TypePositionalSeparator     = "positional_separator"
	TypeExpressionStatement     = "expression_statement"
	TypeParenthesizedExpression = "parenthesized_expression"
	TypeString                  = "string"
	TypeInteger                 = "integer"
	TypeFloat                   = "float"
	TypeConcatenatedString      = "concatenated_string"
	TypeInterpolation           = "interpolation"
	TypeComment                 = "comment"
	TypeLineContinuation        = "line_continuation"
)

// Field names used by the tree-sitter Python grammar
const (
	FieldName         = "name"
	FieldParameters   = "parameters"
	FieldReturnType   = "return_type"
	FieldBody         = "body"
	FieldAttribute    = "attribute"
	FieldAlias        = "alias"
	FieldDefinition   = "definition"
	FieldValue        = "value"
	FieldType         = "type"
	FieldSuperclasses = "superclasses"
	FieldOperator     = "operator"
)

// Location represents the position of a node in the source code
type Location struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a compact line:col range
func (l Location) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", l.StartLine, l.StartCol, l.EndLine, l.EndCol)
}

// Node is a mutable concrete syntax tree node.
//
// Leaves carry their token in Text. Interior nodes carry ordered Children,
// including anonymous tokens such as "def" or ",". Definitions carry their
// decorators separately, the way Python's own AST does.
type Node struct {
	Type       string
	Kind       Kind
	Field      string // field name in the parent, empty if none
	Named      bool   // false for anonymous grammar tokens
	Text       string // token text for leaves
	Children   []*Node
	Decorators []*Node
	Parent     *Node
	Location   Location

	// Byte range in the source; Synthetic nodes have none
	StartByte uint32
	EndByte   uint32
	Synthetic bool
}

// Tree is a parsed module together with the source it was built from
type Tree struct {
	Root   *Node
	Source []byte
}

// NewLeaf creates a synthetic leaf that has no source range
func NewLeaf(nodeType, text string) *Node {
	return &Node{
		Type:      nodeType,
		Named:     true,
		Text:      text,
		Synthetic: true,
	}
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// AddChild appends a child and sets its parent
func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

// ChildByField returns the first child with the given field name
func (n *Node) ChildByField(field string) *Node {
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// IndexOf returns the position of child in n.Children or -1
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// ReplaceChild swaps old for replacement at the same position.
// The replacement inherits the field name of the node it replaces.
func (n *Node) ReplaceChild(old, replacement *Node) bool {
	i := n.IndexOf(old)
	if i < 0 {
		return false
	}
	replacement.Field = old.Field
	replacement.Parent = n
	n.Children[i] = replacement
	old.Parent = nil
	return true
}

// RemoveChildren drops every child for which drop returns true
func (n *Node) RemoveChildren(drop func(*Node) bool) int {
	kept := n.Children[:0]
	removed := 0
	for _, child := range n.Children {
		if drop(child) {
			child.Parent = nil
			removed++
			continue
		}
		kept = append(kept, child)
	}
	n.Children = kept
	return removed
}

// PrevSibling returns the sibling immediately before n, if any
func (n *Node) PrevSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	i := n.Parent.IndexOf(n)
	if i <= 0 {
		return nil
	}
	return n.Parent.Children[i-1]
}

// NamedChildren returns the named children, skipping comments
func (n *Node) NamedChildren() []*Node {
	var named []*Node
	for _, child := range n.Children {
		if child.Named && child.Type != TypeComment {
			named = append(named, child)
		}
	}
	return named
}

// IsAsync reports whether a definition is prefixed with "async"
func (n *Node) IsAsync() bool {
	for _, child := range n.Children {
		if !child.Named && child.Text == "async" {
			return true
		}
	}
	return false
}

// Count returns the number of nodes in the subtree, decorators included
func (n *Node) Count() int {
	total := 0
	n.Accept(NewFuncVisitor(func(*Node) bool {
		total++
		return true
	}))
	return total
}
