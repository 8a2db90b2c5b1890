package normalizer

import (
	"github.com/ludo-technologies/pysim/internal/parser"
)

// Parameter is one declared parameter of a function together with its category
type Parameter struct {
	Node     *parser.Node
	Category ParameterCategory
}

// ClassifyParameters splits a parameters node into categorized parameters.
// Separators ("/" and bare "*") and punctuation are not returned.
func ClassifyParameters(params *parser.Node) []Parameter {
	if params == nil {
		return nil
	}

	var result []Parameter
	positionalOnlyEnd := -1
	keywordOnly := false

	for _, child := range params.Children {
		if !child.Named || child.Type == parser.TypeComment {
			continue
		}

		switch child.Type {
		case parser.TypePositionalSeparator:
			positionalOnlyEnd = len(result)
			continue
		case parser.TypeKeywordSeparator:
			keywordOnly = true
			continue
		}

		switch splatOf(child) {
		case parser.TypeListSplatPattern:
			result = append(result, Parameter{Node: child, Category: VarPositional})
			keywordOnly = true
		case parser.TypeDictionarySplatPattern:
			result = append(result, Parameter{Node: child, Category: VarKeyword})
		default:
			category := Positional
			if keywordOnly {
				category = KeywordOnly
			}
			result = append(result, Parameter{Node: child, Category: category})
		}
	}

	for i := 0; i < positionalOnlyEnd; i++ {
		if result[i].Category == Positional {
			result[i].Category = PositionalOnly
		}
	}
	return result
}

// splatOf returns the splat pattern type of a parameter, looking through a
// type annotation, or "" for a plain parameter
func splatOf(param *parser.Node) string {
	if isSplat(param) {
		return param.Type
	}
	if param.Type == parser.TypeTypedParameter {
		if inner := param.NamedChildren(); len(inner) > 0 && isSplat(inner[0]) {
			return inner[0].Type
		}
	}
	return ""
}
