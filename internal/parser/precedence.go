package parser

// Binding strength of Python expressions, loosest first
const (
	precFree = iota
	precLambda
	precTest
	precOr
	precAnd
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
	precFactor
	precPower
	precAwait
	precAtom
)

var binaryPrecedence = map[string]int{
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"<<": precShift,
	">>": precShift,
	"+":  precArith,
	"-":  precArith,
	"*":  precTerm,
	"/":  precTerm,
	"//": precTerm,
	"%":  precTerm,
	"@":  precTerm,
	"**": precPower,
}

// freeContexts accept any expression without parentheses
var freeContexts = map[string]bool{
	TypeExpressionStatement:   true,
	"assignment":              true,
	"augmented_assignment":    true,
	"return_statement":        true,
	"argument_list":           true,
	"keyword_argument":        true,
	"list":                    true,
	"set":                     true,
	"tuple":                   true,
	"expression_list":         true,
	"if_statement":            true,
	"elif_clause":             true,
	"while_statement":         true,
	"for_statement":           true,
	"assert_statement":        true,
	"delete_statement":        true,
	"raise_statement":         true,
	"with_item":               true,
	TypeDefaultParameter:      true,
	TypeTypedDefaultParameter: true,
	TypeDecorator:             true,
}

// needsParens reports whether inner, found inside the parenthesized
// expression node, would change meaning or stop parsing without them
func needsParens(node, inner *Node) bool {
	switch inner.Type {
	case "yield", "named_expression":
		return true
	case TypeInteger:
		// 1.real is a malformed float
		if parent := node.Parent; parent != nil && parent.Type == "attribute" && node.Field == "object" {
			return true
		}
	}
	return precedenceOf(inner) < requiredPrecedence(node)
}

// precedenceOf returns how tightly an expression binds
func precedenceOf(node *Node) int {
	switch node.Type {
	case "lambda":
		return precLambda
	case "conditional_expression":
		return precTest
	case "boolean_operator":
		if operatorOf(node) == "and" {
			return precAnd
		}
		return precOr
	case "not_operator":
		return precNot
	case "comparison_operator":
		return precCompare
	case "binary_operator":
		if prec, ok := binaryPrecedence[operatorOf(node)]; ok {
			return prec
		}
		return precFree
	case "unary_operator":
		return precFactor
	case "await":
		return precAwait
	default:
		return precAtom
	}
}

// requiredPrecedence returns the loosest expression that may stand where
// node stands without parentheses
func requiredPrecedence(node *Node) int {
	parent := node.Parent
	if parent == nil || freeContexts[parent.Type] {
		return precFree
	}

	switch parent.Type {
	case "binary_operator":
		op := operatorOf(parent)
		prec := binaryPrecedence[op]
		if op == "**" {
			// right associative, and the exponent may be a unary expression
			if node.Field == "left" {
				return prec + 1
			}
			return precFactor
		}
		if node.Field == "left" {
			return prec
		}
		return prec + 1
	case "boolean_operator":
		prec := precedenceOf(parent)
		if node.Field == "left" {
			return prec
		}
		return prec + 1
	case "comparison_operator":
		return precCompare + 1
	case "not_operator":
		return precNot
	case "unary_operator":
		return precFactor
	case "await":
		return precAtom
	case "conditional_expression":
		if named := parent.NamedChildren(); len(named) == 3 && named[2] == node {
			return precTest
		}
		return precTest + 1
	case "lambda":
		if node.Field == FieldBody {
			return precTest
		}
	case "pair":
		return precTest
	case "for_in_clause", "if_clause":
		return precOr
	case "subscript":
		if node.Field == "subscript" {
			return precFree
		}
	}
	return precAtom
}

// operatorOf returns the operator token of a binary or boolean expression
func operatorOf(node *Node) string {
	if op := node.ChildByField(FieldOperator); op != nil {
		return op.Text
	}
	for _, child := range node.Children {
		if !child.Named {
			return child.Text
		}
	}
	return ""
}
