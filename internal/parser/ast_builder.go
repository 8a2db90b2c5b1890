package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Builder converts tree-sitter parse trees to the mutable syntax tree
type Builder struct {
	source []byte
}

// NewBuilder creates a new tree builder for the given source
func NewBuilder(source []byte) *Builder {
	return &Builder{
		source: source,
	}
}

// Build converts a tree-sitter tree and classifies every node
func (b *Builder) Build(tree *sitter.Tree) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("root node is nil")
	}

	root := b.buildNode(rootNode, "")
	b.classify(root)
	return root, nil
}

// buildNode recursively mirrors a tree-sitter node
func (b *Builder) buildNode(tsNode *sitter.Node, field string) *Node {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()
	node := &Node{
		Type:  tsNode.Type(),
		Field: field,
		Named: tsNode.IsNamed(),
		Location: Location{
			StartLine: int(start.Row) + 1,
			StartCol:  int(start.Column),
			EndLine:   int(end.Row) + 1,
			EndCol:    int(end.Column),
		},
		StartByte: tsNode.StartByte(),
		EndByte:   tsNode.EndByte(),
	}

	childCount := int(tsNode.ChildCount())
	if childCount == 0 {
		node.Text = tsNode.Content(b.source)
		return node
	}

	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		node.AddChild(b.buildNode(child, tsNode.FieldNameForChild(i)))
	}

	if node.Type == TypeDecoratedDefinition {
		return b.foldDecorators(node)
	}
	return node
}

// foldDecorators moves the decorators of a decorated_definition onto the
// definition itself and returns the definition in place of the wrapper
func (b *Builder) foldDecorators(wrapper *Node) *Node {
	definition := wrapper.ChildByField(FieldDefinition)
	if definition == nil {
		return wrapper
	}

	for _, child := range wrapper.Children {
		if child.Type == TypeDecorator {
			child.Parent = definition
			definition.Decorators = append(definition.Decorators, child)
		}
	}

	definition.Field = wrapper.Field
	definition.Parent = nil
	return definition
}

// classify assigns a Kind to every node of the subtree
func (b *Builder) classify(node *Node) {
	switch {
	case node.Type == TypeIdentifier && isNameReference(node):
		node.Kind = KindNameRef
	case node.Type == TypeFunctionDefinition:
		node.Kind = KindFunctionDef
	case node.Type == TypeExpressionStatement && b.isLiteralStatement(node):
		node.Kind = KindLiteralStmt
	}

	for _, decorator := range node.Decorators {
		b.classify(decorator)
	}
	for _, child := range node.Children {
		b.classify(child)
	}
}

// isNameReference reports whether an identifier is a variable use rather
// than an attribute, keyword, import, parameter or definition name
func isNameReference(node *Node) bool {
	parent := node.Parent
	if parent == nil {
		return true
	}

	switch parent.Type {
	case "attribute":
		return node.Field != FieldAttribute
	case "keyword_argument":
		return node.Field != FieldName
	case TypeFunctionDefinition, TypeClassDefinition:
		return node.Field != FieldName
	case TypeDefaultParameter, TypeTypedDefaultParameter:
		return node.Field != FieldName
	case TypeParameters, TypeLambdaParameters, TypeTypedParameter:
		return false
	case TypeListSplatPattern, TypeDictionarySplatPattern:
		return !isParameter(parent)
	case "dotted_name":
		return isPatternName(node)
	case "aliased_import", "global_statement", "nonlocal_statement", "keyword_pattern":
		return false
	case "except_clause", "except_group_clause":
		if node.Field == FieldAlias {
			return false
		}
		if prev := node.PrevSibling(); prev != nil && !prev.Named && prev.Text == "as" {
			return false
		}
	case "as_pattern_target":
		// except ... as name binds a plain string, not a variable
		if owner := parent.Parent; owner != nil && owner.Type == "as_pattern" && owner.Parent != nil {
			switch owner.Parent.Type {
			case "except_clause", "except_group_clause":
				return false
			}
		}
	}
	return true
}

// isPatternName reports whether an identifier inside a dotted name of a
// match pattern reads a variable: the head of a class pattern, or the
// first part of a dotted value pattern. Bare capture names and import
// paths are bindings, not reads.
func isPatternName(node *Node) bool {
	dotted := node.Parent
	owner := dotted.Parent
	if owner == nil || isImport(owner) {
		return false
	}

	parts := dotted.NamedChildren()
	if len(parts) == 0 || parts[0] != node {
		return false
	}
	return owner.Type == "class_pattern" || len(parts) > 1
}

func isImport(node *Node) bool {
	switch node.Type {
	case "import_statement", "import_from_statement", "future_import_statement",
		"aliased_import", "relative_import":
		return true
	}
	return false
}

// isParameter reports whether a splat pattern declares a parameter
func isParameter(node *Node) bool {
	parent := node.Parent
	if parent != nil && parent.Type == TypeTypedParameter {
		parent = parent.Parent
	}
	return parent != nil && (parent.Type == TypeParameters || parent.Type == TypeLambdaParameters)
}

// isLiteralStatement reports whether an expression statement holds a
// single constant such as a docstring
func (b *Builder) isLiteralStatement(node *Node) bool {
	named := node.NamedChildren()
	if len(named) != 1 {
		return false
	}
	return b.isConstant(UnwrapParens(named[0]))
}

// isConstant reports whether an expression is a plain constant
func (b *Builder) isConstant(node *Node) bool {
	switch node.Type {
	case TypeInteger, TypeFloat, "true", "false", "none", "ellipsis":
		return true
	case TypeString:
		return !b.isFormatted(node)
	case TypeConcatenatedString:
		for _, part := range node.NamedChildren() {
			if part.Type != TypeString || b.isFormatted(part) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isFormatted reports whether a string literal carries an f prefix
func (b *Builder) isFormatted(node *Node) bool {
	raw := string(b.source[node.StartByte:node.EndByte])
	quote := strings.IndexAny(raw, `'"`)
	if quote < 0 {
		return false
	}
	return strings.ContainsAny(raw[:quote], "fF")
}

// UnwrapParens strips redundant parentheses around an expression
func UnwrapParens(node *Node) *Node {
	for node.Type == TypeParenthesizedExpression {
		inner := node.NamedChildren()
		if len(inner) != 1 {
			break
		}
		node = inner[0]
	}
	return node
}
