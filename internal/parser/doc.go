// Package parser provides Python code parsing capabilities using tree-sitter.
//
// Source is parsed with the tree-sitter Python grammar and mirrored into a
// mutable concrete syntax tree of *Node values. Every node is classified
// with a Kind (name reference, literal statement, function definition or
// other) so that later passes can rewrite it, and Unparse serializes the
// tree back to Python in a canonical layout.
//
// Basic usage:
//
//	p := parser.New()
//	tree, err := p.ParseTree(ctx, []byte("def hello(): pass"))
//	if err != nil {
//	    // source is not valid Python
//	}
//	text, err := parser.Unparse(tree)
package parser
