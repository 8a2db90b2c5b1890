// Package normalizer canonicalizes Python syntax trees so that two sources
// differing only in naming, docstrings, decorators or return annotations
// serialize to the same text.
package normalizer

import (
	"fmt"

	"github.com/ludo-technologies/pysim/internal/parser"
)

// ParameterCategory names a kind of function parameter
type ParameterCategory string

// Parameter categories, in declaration order
const (
	PositionalOnly ParameterCategory = "positional_only"
	Positional     ParameterCategory = "positional"
	KeywordOnly    ParameterCategory = "keyword_only"
	VarPositional  ParameterCategory = "var_positional"
	VarKeyword     ParameterCategory = "var_keyword"
)

// AllParameterCategories lists every category
var AllParameterCategories = []ParameterCategory{
	PositionalOnly, Positional, KeywordOnly, VarPositional, VarKeyword,
}

// Defaults
const (
	DefaultPlaceholder        = "a"
	DefaultLiteralPlaceholder = `""`
)

// Options configures a Normalizer
type Options struct {
	// Placeholder replaces variable, parameter and function names
	Placeholder string

	// LiteralPlaceholder replaces constants standing alone as statements
	LiteralPlaceholder string

	// Parameters lists the parameter categories that are renamed
	Parameters []ParameterCategory

	// AsyncFunctions applies the function rules to "async def" as well
	AsyncFunctions bool
}

// DefaultOptions returns options that rename positional parameters only
func DefaultOptions() Options {
	return Options{
		Placeholder:        DefaultPlaceholder,
		LiteralPlaceholder: DefaultLiteralPlaceholder,
		Parameters:         []ParameterCategory{Positional},
		AsyncFunctions:     true,
	}
}

// ParseParameterCategory validates a category name
func ParseParameterCategory(name string) (ParameterCategory, error) {
	for _, c := range AllParameterCategories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown parameter category %q", name)
}

// Normalizer rewrites syntax trees in place into canonical form.
// It holds no per-tree state and is safe for concurrent use.
type Normalizer struct {
	opts       Options
	parameters map[ParameterCategory]bool
}

// New creates a Normalizer; empty placeholders fall back to the defaults
func New(opts Options) *Normalizer {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.LiteralPlaceholder == "" {
		opts.LiteralPlaceholder = DefaultLiteralPlaceholder
	}

	parameters := make(map[ParameterCategory]bool, len(opts.Parameters))
	for _, c := range opts.Parameters {
		parameters[c] = true
	}

	return &Normalizer{
		opts:       opts,
		parameters: parameters,
	}
}

// Options returns the options the normalizer was built with
func (n *Normalizer) Options() Options {
	return n.opts
}

// Normalize canonicalizes the tree in place and returns it for chaining
func (n *Normalizer) Normalize(tree *parser.Tree) *parser.Tree {
	if tree == nil || tree.Root == nil {
		return tree
	}
	tree.Root.Accept(n)
	return tree
}

// Visit implements parser.Visitor. Every branch returns true so that
// traversal always continues into the (possibly rewritten) children.
func (n *Normalizer) Visit(node *parser.Node) bool {
	switch node.Kind {
	case parser.KindNameRef:
		node.Text = n.opts.Placeholder
	case parser.KindLiteralStmt:
		n.rewriteLiteral(node)
	case parser.KindFunctionDef:
		if node.IsAsync() && !n.opts.AsyncFunctions {
			return true
		}
		n.rewriteFunction(node)
	case parser.KindOther:
		// no rewrite rule
	}
	return true
}

// rewriteLiteral replaces the constant of a literal statement
func (n *Normalizer) rewriteLiteral(stmt *parser.Node) {
	for _, child := range stmt.Children {
		if child.Named && child.Type != parser.TypeComment {
			stmt.ReplaceChild(child, parser.NewLeaf(parser.TypeString, n.opts.LiteralPlaceholder))
			return
		}
	}
}

// rewriteFunction renames the function and its parameters and drops its
// decorators and return annotation
func (n *Normalizer) rewriteFunction(def *parser.Node) {
	if name := def.ChildByField(parser.FieldName); name != nil {
		name.Text = n.opts.Placeholder
	}

	def.Decorators = nil

	if def.ChildByField(parser.FieldReturnType) != nil {
		def.RemoveChildren(func(child *parser.Node) bool {
			return child.Field == parser.FieldReturnType || (!child.Named && child.Text == "->")
		})
	}

	if params := def.ChildByField(parser.FieldParameters); params != nil {
		for _, p := range ClassifyParameters(params) {
			if n.parameters[p.Category] {
				n.rewriteParameter(params, p.Node)
			}
		}
	}
}

// rewriteParameter gives a parameter the placeholder name and drops its
// annotation; default values are kept
func (n *Normalizer) rewriteParameter(params, param *parser.Node) {
	switch param.Type {
	case parser.TypeIdentifier:
		param.Text = n.opts.Placeholder

	case parser.TypeTypedParameter:
		inner := param.NamedChildren()
		if len(inner) > 0 && isSplat(inner[0]) {
			n.renameSplat(inner[0])
			params.ReplaceChild(param, inner[0])
			return
		}
		params.ReplaceChild(param, parser.NewLeaf(parser.TypeIdentifier, n.opts.Placeholder))

	case parser.TypeDefaultParameter:
		n.renameDefault(param)

	case parser.TypeTypedDefaultParameter:
		param.RemoveChildren(func(child *parser.Node) bool {
			return child.Field == parser.FieldType || (!child.Named && child.Text == ":")
		})
		param.Type = parser.TypeDefaultParameter
		n.renameDefault(param)

	case parser.TypeListSplatPattern, parser.TypeDictionarySplatPattern:
		n.renameSplat(param)

	default:
		// tuple parameters and anything else become a bare name
		params.ReplaceChild(param, parser.NewLeaf(parser.TypeIdentifier, n.opts.Placeholder))
	}
}

func (n *Normalizer) renameDefault(param *parser.Node) {
	name := param.ChildByField(parser.FieldName)
	if name == nil {
		return
	}
	if name.Type == parser.TypeIdentifier {
		name.Text = n.opts.Placeholder
		return
	}
	param.ReplaceChild(name, parser.NewLeaf(parser.TypeIdentifier, n.opts.Placeholder))
}

func (n *Normalizer) renameSplat(splat *parser.Node) {
	for _, child := range splat.Children {
		if child.Named {
			splat.ReplaceChild(child, parser.NewLeaf(parser.TypeIdentifier, n.opts.Placeholder))
			return
		}
	}
}

func isSplat(node *parser.Node) bool {
	return node.Type == parser.TypeListSplatPattern || node.Type == parser.TypeDictionarySplatPattern
}
