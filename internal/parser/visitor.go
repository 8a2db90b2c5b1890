package parser

import (
	"fmt"
	"io"
	"strings"
)

// Visitor defines the interface for visiting syntax tree nodes
type Visitor interface {
	// Visit is called for each node in the tree
	// Return false to skip the node's children
	Visit(node *Node) bool
}

// Accept implements the visitor pattern for syntax tree nodes.
// Children are read after Visit returns, so a visitor may rewrite the
// node it is given and traversal continues into the rewritten subtree.
func (n *Node) Accept(visitor Visitor) {
	if n == nil {
		return
	}

	if !visitor.Visit(n) {
		return
	}

	for _, decorator := range n.Decorators {
		decorator.Accept(visitor)
	}
	for _, child := range n.Children {
		child.Accept(visitor)
	}
}

// FuncVisitor is a visitor that uses a function
type FuncVisitor struct {
	fn func(*Node) bool
}

// NewFuncVisitor creates a visitor from a function
func NewFuncVisitor(fn func(*Node) bool) *FuncVisitor {
	return &FuncVisitor{fn: fn}
}

// Visit implements the Visitor interface
func (v *FuncVisitor) Visit(node *Node) bool {
	return v.fn(node)
}

// CollectorVisitor collects nodes matching a predicate
type CollectorVisitor struct {
	predicate func(*Node) bool
	nodes     []*Node
}

// NewCollectorVisitor creates a visitor that collects matching nodes
func NewCollectorVisitor(predicate func(*Node) bool) *CollectorVisitor {
	return &CollectorVisitor{
		predicate: predicate,
		nodes:     []*Node{},
	}
}

// Visit implements the Visitor interface
func (v *CollectorVisitor) Visit(node *Node) bool {
	if v.predicate(node) {
		v.nodes = append(v.nodes, node)
	}
	return true
}

// GetNodes returns the collected nodes
func (v *CollectorVisitor) GetNodes() []*Node {
	return v.nodes
}

// PrinterVisitor prints the tree structure, one node per line
type PrinterVisitor struct {
	writer io.Writer
	indent int
	prefix string
}

// NewPrinterVisitor creates a visitor that prints the tree
func NewPrinterVisitor(w io.Writer) *PrinterVisitor {
	return &PrinterVisitor{
		writer: w,
		indent: 0,
		prefix: "  ",
	}
}

// Visit implements the Visitor interface
func (v *PrinterVisitor) Visit(node *Node) bool {
	if node.Type == TypeComment {
		return false
	}

	fmt.Fprint(v.writer, strings.Repeat(v.prefix, v.indent))

	label := node.Type
	if node.Field != "" {
		label = node.Field + ": " + label
	}
	switch {
	case node.IsLeaf() && node.Named && node.Kind != KindOther:
		fmt.Fprintf(v.writer, "%s %q [%s]\n", label, node.Text, node.Kind)
	case node.IsLeaf() && node.Named:
		fmt.Fprintf(v.writer, "%s %q\n", label, node.Text)
	case node.IsLeaf():
		fmt.Fprintf(v.writer, "%q\n", node.Text)
	case node.Kind != KindOther:
		fmt.Fprintf(v.writer, "%s [%s]\n", label, node.Kind)
	default:
		fmt.Fprintf(v.writer, "%s\n", label)
	}

	v.indent++
	for _, decorator := range node.Decorators {
		decorator.Accept(v)
	}
	for _, child := range node.Children {
		child.Accept(v)
	}
	v.indent--

	return false // We handle children manually
}
