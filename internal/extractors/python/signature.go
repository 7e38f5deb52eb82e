package python

import (
	"fmt"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// parseParameters interprets the tokens between the parentheses of a def.
// Every parameter is kept; problems are returned as messages and make the
// declaration partial. Unparseable parameters keep their raw text as name.
func parseParameters(src string, toks []token) ([]domain.Parameter, []string) {
	var params []domain.Parameter
	var problems []string

	seen := make(map[string]bool)
	sawDefault := false
	keywordOnly := false
	sawVarKeyword := false

	for i, item := range splitTopLevel(toks) {
		if len(item) == 0 {
			problems = append(problems, fmt.Sprintf("empty parameter slot at position %d", i+1))
			continue
		}

		param, itemProblems := parseParameter(src, item)
		problems = append(problems, itemProblems...)

		if sawVarKeyword {
			problems = append(problems, fmt.Sprintf("parameter %q follows **kwargs", param.Display()))
		}

		switch param.Kind {
		case domain.ParamKeywordOnlyMarker, domain.ParamVarPositional:
			if keywordOnly {
				problems = append(problems, "only one '*' separator is allowed")
			}
			keywordOnly = true
		case domain.ParamVarKeyword:
			sawVarKeyword = true
		case domain.ParamPositional:
			if param.Default != "" {
				sawDefault = true
			} else if sawDefault && !keywordOnly {
				problems = append(problems, fmt.Sprintf("non-default parameter %q follows default parameter", param.Name))
			}
		}

		if !param.IsMarker() {
			if seen[param.Name] {
				problems = append(problems, fmt.Sprintf("duplicate parameter %q", param.Name))
			}
			seen[param.Name] = true
		}
		params = append(params, param)
	}
	return params, problems
}

func parseParameter(src string, item []token) (domain.Parameter, []string) {
	var problems []string
	param := domain.Parameter{Kind: domain.ParamPositional}

	rest := item
	switch {
	case len(item) == 1 && item[0].is(tokOp, "/"):
		return domain.Parameter{Name: "/", Kind: domain.ParamPositionalOnlyMarker}, nil
	case len(item) == 1 && item[0].is(tokOp, "*"):
		return domain.Parameter{Name: "*", Kind: domain.ParamKeywordOnlyMarker}, nil
	case item[0].is(tokOp, "*") && len(item) > 1 && isIdentifier(item[1]):
		param.Kind = domain.ParamVarPositional
		param.Name = item[1].text
		rest = item[2:]
	case item[0].is(tokOp, "**") && len(item) > 1 && isIdentifier(item[1]):
		param.Kind = domain.ParamVarKeyword
		param.Name = item[1].text
		rest = item[2:]
	case isIdentifier(item[0]):
		param.Name = item[0].text
		rest = item[1:]
	default:
		param.Name = tokenText(src, item)
		return param, []string{fmt.Sprintf("invalid parameter %q", param.Name)}
	}

	if len(rest) > 0 && rest[0].is(tokOp, ":") {
		annotation, after := untilDefault(rest[1:])
		param.Type = tokenText(src, annotation)
		switch {
		case len(annotation) == 0:
			problems = append(problems, fmt.Sprintf("missing annotation for parameter %q", param.Name))
		case !validExpression(annotation):
			problems = append(problems, fmt.Sprintf("cannot interpret annotation %q of parameter %q", param.Type, param.Name))
		}
		rest = after
	}

	if len(rest) > 0 && rest[0].is(tokOp, "=") {
		value := rest[1:]
		param.Default = tokenText(src, value)
		switch {
		case len(value) == 0:
			problems = append(problems, fmt.Sprintf("missing default value for parameter %q", param.Name))
		case !validExpression(value):
			problems = append(problems, fmt.Sprintf("cannot interpret default value %q of parameter %q", param.Default, param.Name))
		}
		if param.Kind == domain.ParamVarPositional || param.Kind == domain.ParamVarKeyword {
			problems = append(problems, fmt.Sprintf("variadic parameter %q cannot have a default value", param.Name))
		}
		rest = nil
	}

	if len(rest) > 0 {
		problems = append(problems, fmt.Sprintf("unexpected %q after parameter %q", tokenText(src, rest), param.Name))
	}
	return param, problems
}

// untilDefault splits an annotation from a following "= default".
func untilDefault(toks []token) (annotation, rest []token) {
	depth := 0
	for i, t := range toks {
		if t.kind != tokOp {
			continue
		}
		switch {
		case opensBracket(t):
			depth++
		case closesBracket(t):
			depth--
		case t.text == "=" && depth == 0:
			return toks[:i], toks[i:]
		}
	}
	return toks, nil
}

func isIdentifier(t token) bool {
	return t.kind == tokName && !isKeyword(t.text)
}

var expressionStarts = map[string]bool{
	"(": true, "[": true, "{": true, "-": true, "+": true, "~": true, "...": true, "*": true,
}

var expressionEnds = map[string]bool{
	")": true, "]": true, "}": true, "...": true,
}

// validExpression is a shallow check that catches the mistakes people make
// in signatures: stray characters, dangling operators and chained "=".
func validExpression(toks []token) bool {
	if len(toks) == 0 {
		return false
	}
	first, last := toks[0], toks[len(toks)-1]
	if first.kind == tokOp && !expressionStarts[first.text] {
		return false
	}
	if last.kind == tokOp && !expressionEnds[last.text] {
		return false
	}

	lambda := false
	depth := 0
	for _, t := range toks {
		switch {
		case t.kind == tokInvalid:
			return false
		case t.is(tokName, "lambda"):
			lambda = true
		case opensBracket(t):
			depth++
		case closesBracket(t):
			depth--
		case depth == 0 && t.is(tokOp, "="):
			return false
		case depth == 0 && t.is(tokOp, ":") && !lambda:
			return false
		}
	}
	return true
}
