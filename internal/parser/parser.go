package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser provides Python code parsing capabilities using tree-sitter.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// New creates a new Parser instance with Python grammar
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Parser{
		parser: parser,
	}
}

// ParseResult represents the result of parsing Python code
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
}

// ErrSyntax reports source that Python 3 would reject
var ErrSyntax = errors.New("syntax errors found in source code")

// legacyStatements are Python 2 statements the grammar still accepts
var legacyStatements = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// Parse parses Python source code and returns the tree-sitter tree.
// When ctx is done the context error is returned unwrapped.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, ErrSyntax
	}
	if legacy := findLegacyStatement(rootNode); legacy != nil {
		return nil, fmt.Errorf("%w: Python 2 %s at line %d",
			ErrSyntax, legacy.Type(), legacy.StartPoint().Row+1)
	}

	return &ParseResult{
		Tree:       tree,
		RootNode:   rootNode,
		SourceCode: source,
	}, nil
}

// ParseTree parses Python source code into a mutable syntax tree
func (p *Parser) ParseTree(ctx context.Context, source []byte) (*Tree, error) {
	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	root, err := NewBuilder(source).Build(result.Tree)
	if err != nil {
		return nil, err
	}

	return &Tree{Root: root, Source: source}, nil
}

// findLegacyStatement returns the first Python 2 only statement, if any
func findLegacyStatement(node *sitter.Node) *sitter.Node {
	if legacyStatements[node.Type()] {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := findLegacyStatement(node.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}
