package parser

import (
	"fmt"
	"strings"
)

// indentUnit is the indentation emitted per nesting level
const indentUnit = "    "

// clauseTypes start a new line at the indentation of their statement
var clauseTypes = map[string]bool{
	"elif_clause":         true,
	"else_clause":         true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
}

// gluedOperators lists operator tokens printed without surrounding space,
// keyed by the parent node type
var gluedOperators = map[string]map[string]bool{
	"keyword_argument":         {"=": true},
	"keyword_pattern":          {"=": true},
	TypeDefaultParameter:       {"=": true},
	"list_splat":               {"*": true},
	"dictionary_splat":         {"**": true},
	TypeListSplatPattern:       {"*": true},
	TypeDictionarySplatPattern: {"**": true},
	"unary_operator":           {"-": true, "+": true, "~": true},
	TypeDecorator:              {"@": true},
}

var pythonKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"del": true, "elif": true, "else": true, "except": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"raise": true, "return": true, "while": true, "with": true, "yield": true,
}

// Unparse serializes a tree back to Python source in canonical layout:
// one statement per line, four-space indentation, single spaces between
// tokens, no comments. The result depends only on the tree, never on the
// formatting of the original source.
func Unparse(tree *Tree) (string, error) {
	if tree == nil || tree.Root == nil {
		return "", fmt.Errorf("tree is nil")
	}

	p := &printer{source: tree.Source}
	if tree.Root.Type == TypeModule {
		p.suite(tree.Root.Children, 0)
	} else {
		p.statement(tree.Root, 0)
	}
	p.flush()

	if p.err != nil {
		return "", p.err
	}
	return strings.Join(p.lines, "\n"), nil
}

type printer struct {
	source []byte
	lines  []string
	line   tokenLine
	depth  int
	err    error
}

// suite prints a sequence of statements at the given depth
func (p *printer) suite(statements []*Node, depth int) {
	for _, stmt := range statements {
		if !stmt.Named || stmt.Type == TypeComment || stmt.Type == TypeLineContinuation {
			continue
		}
		p.statement(stmt, depth)
	}
}

// statement prints decorators on their own lines, then the statement
func (p *printer) statement(node *Node, depth int) {
	for _, decorator := range node.Decorators {
		p.begin(depth)
		p.emit(decorator, depth)
	}
	p.begin(depth)
	p.emit(node, depth)
	p.flush()
}

// begin terminates the current line and starts a new one at depth
func (p *printer) begin(depth int) {
	p.flush()
	p.depth = depth
}

func (p *printer) flush() {
	if p.line.empty() {
		return
	}
	p.lines = append(p.lines, strings.Repeat(indentUnit, p.depth)+p.line.String())
	p.line.reset()
}

func (p *printer) emit(node *Node, depth int) {
	switch {
	case node.Type == TypeComment, node.Type == TypeLineContinuation:
		return
	case node.Type == TypeBlock:
		p.flush()
		p.suite(node.Children, depth+1)
		p.depth = depth
		return
	case clauseTypes[node.Type]:
		p.begin(depth)
	case node.Type == TypeParenthesizedExpression:
		if inner := UnwrapParens(node); inner != node {
			p.parenthesized(node, inner, depth)
			return
		}
	case node.Type == TypeConcatenatedString:
		if literal, ok := p.joinedLiteral(node); ok {
			p.line.add(literal, false)
			return
		}
	case node.Type == TypeString && !node.Synthetic:
		p.line.add(p.stringLiteral(node), false)
		return
	case node.Type == TypeInteger || node.Type == TypeFloat:
		text := node.Text
		if canonical, ok := CanonicalNumber(text); ok {
			text = canonical
		}
		p.line.add(text, false)
		return
	case node.IsLeaf():
		if node.Text != "" {
			p.line.add(node.Text, false)
		}
		return
	}

	for i, child := range node.Children {
		if p.omitted(node, i) {
			continue
		}
		if !child.Named && child.IsLeaf() && gluedOperators[node.Type][child.Text] {
			p.line.add(child.Text, child.Text == "=")
			p.line.glueNext()
			continue
		}
		p.emit(child, depth)
	}
}

// parenthesized prints an expression with a single pair of parentheses,
// or none when the surrounding context already binds it correctly
func (p *printer) parenthesized(node, inner *Node, depth int) {
	if !needsParens(node, inner) {
		p.emit(inner, depth)
		return
	}
	p.line.add("(", false)
	p.emit(inner, depth)
	p.line.add(")", false)
}

// omitted reports whether the i-th child of node is layout the canonical
// form leaves out: trailing commas, empty base lists and the parentheses
// of a from-import
func (p *printer) omitted(node *Node, i int) bool {
	child := node.Children[i]

	if node.Type == TypeClassDefinition && child.Field == FieldSuperclasses {
		return len(child.NamedChildren()) == 0
	}
	if child.Named || !child.IsLeaf() {
		return false
	}

	switch child.Text {
	case "(", ")":
		return node.Type == "import_from_statement" || node.Type == "future_import_statement"
	case ",":
		if !trailingCommaTypes[node.Type] {
			return false
		}
		if node.Type == "tuple" && len(node.NamedChildren()) == 1 {
			return false
		}
		next := nextToken(node, i)
		return next == nil || (!next.Named && closingBrackets[next.Text])
	}
	return false
}

// trailingCommaTypes lists the nodes whose trailing comma carries no meaning
var trailingCommaTypes = map[string]bool{
	"argument_list":           true,
	TypeParameters:            true,
	TypeLambdaParameters:      true,
	"list":                    true,
	"set":                     true,
	"dictionary":              true,
	"tuple":                   true,
	"import_from_statement":   true,
	"future_import_statement": true,
	"list_pattern":            true,
	"dict_pattern":            true,
}

var closingBrackets = map[string]bool{")": true, "]": true, "}": true}

// nextToken returns the sibling after position i, skipping comments
func nextToken(node *Node, i int) *Node {
	for _, sibling := range node.Children[i+1:] {
		if sibling.Type != TypeComment && sibling.Type != TypeLineContinuation {
			return sibling
		}
	}
	return nil
}

// stringLiteral prints a plain string from its decoded value so that quote
// style and escapes do not matter; formatted strings are kept verbatim
func (p *printer) stringLiteral(node *Node) string {
	text := p.verbatim(node)
	if literal, ok := DecodeString(text); ok {
		return literal.String()
	}
	return text
}

// joinedLiteral folds implicitly concatenated plain strings into one
func (p *printer) joinedLiteral(node *Node) (string, bool) {
	parts := node.NamedChildren()
	if len(parts) == 0 {
		return "", false
	}

	var joined strings.Builder
	var isBytes bool
	for i, part := range parts {
		if part.Type != TypeString || part.Synthetic {
			return "", false
		}
		literal, ok := DecodeString(p.verbatim(part))
		if !ok || (i > 0 && literal.Bytes != isBytes) {
			return "", false
		}
		isBytes = literal.Bytes
		joined.WriteString(literal.Value)
	}
	return StringLiteral{Value: joined.String(), Bytes: isBytes}.String(), true
}

// verbatim returns the source text of a string literal with any
// rewritten leaves inside it (identifiers in f-string interpolations)
// spliced in
func (p *printer) verbatim(node *Node) string {
	if int(node.EndByte) > len(p.source) || node.StartByte > node.EndByte {
		p.fail(fmt.Errorf("string at %s is outside the source", node.Location))
		return ""
	}

	var b strings.Builder
	pos := node.StartByte

	var splice func(*Node)
	splice = func(n *Node) {
		if !n.IsLeaf() {
			for _, child := range n.Children {
				splice(child)
			}
			return
		}
		if n.Synthetic || n.StartByte < pos || int(n.EndByte) > len(p.source) {
			return
		}
		if n.Text != string(p.source[n.StartByte:n.EndByte]) {
			b.Write(p.source[pos:n.StartByte])
			b.WriteString(n.Text)
			pos = n.EndByte
		}
	}
	splice(node)

	b.Write(p.source[pos:node.EndByte])
	return b.String()
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// tokenLine accumulates the tokens of one output line
type tokenLine struct {
	b    strings.Builder
	last string
	glue bool
}

func (l *tokenLine) add(token string, glueBefore bool) {
	if l.b.Len() > 0 && !l.glue && !glueBefore && spaceBetween(l.last, token) {
		l.b.WriteByte(' ')
	}
	l.b.WriteString(token)
	l.last = token
	l.glue = false
}

// glueNext suppresses the space before the next token
func (l *tokenLine) glueNext() {
	l.glue = true
}

func (l *tokenLine) empty() bool {
	return l.b.Len() == 0
}

func (l *tokenLine) reset() {
	l.b.Reset()
	l.last = ""
	l.glue = false
}

func (l *tokenLine) String() string {
	return l.b.String()
}

// spaceBetween decides whether two adjacent tokens need a separating space
func spaceBetween(prev, next string) bool {
	if prev == "" {
		return false
	}

	switch next {
	case ",", ")", "]", "}", ":", ".", ";":
		return false
	}
	switch prev {
	case "(", "[", "{", ".":
		return false
	}

	if next == "(" || next == "[" {
		if pythonKeywords[prev] {
			return true
		}
		last := prev[len(prev)-1]
		return !(isWordByte(last) || last == ')' || last == ']' || last == '}' || last == '"' || last == '\'')
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
