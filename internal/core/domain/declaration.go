package domain

import "strings"

// DeclarationKind distinguishes module-level functions from class methods.
type DeclarationKind string

// Available declaration kinds.
const (
	// KindFunction is a top-level def.
	KindFunction DeclarationKind = "function"

	// KindMethod is a def directly inside a class body.
	KindMethod DeclarationKind = "method"
)

// ParameterKind classifies an entry of a parameter list.
type ParameterKind string

// Available parameter kinds.
const (
	// ParamPositional is an ordinary named parameter.
	ParamPositional ParameterKind = "positional"

	// ParamPositionalOnlyMarker is the bare "/" separator.
	ParamPositionalOnlyMarker ParameterKind = "positional_only_marker"

	// ParamKeywordOnlyMarker is the bare "*" separator.
	ParamKeywordOnlyMarker ParameterKind = "keyword_only_marker"

	// ParamVarPositional is "*args".
	ParamVarPositional ParameterKind = "var_positional"

	// ParamVarKeyword is "**kwargs".
	ParamVarKeyword ParameterKind = "var_keyword"
)

// Parameter is one entry of a declaration's parameter list.
type Parameter struct {
	// Name is the bare identifier, without "*" or "**" prefixes.
	// Markers ("*", "/") keep their symbol as name.
	Name string

	// Type is the annotation text, verbatim. Empty when not annotated.
	Type string

	// Default is the default value expression, verbatim. Empty when none.
	Default string

	// Kind classifies the parameter.
	Kind ParameterKind

	// Receiver flags the conventional self/cls first parameter of a method.
	// It stays in the list so renderers can decide whether to show it.
	Receiver bool
}

// IsMarker returns true for the bare "*" and "/" separators.
func (p Parameter) IsMarker() bool {
	return p.Kind == ParamKeywordOnlyMarker || p.Kind == ParamPositionalOnlyMarker
}

// Display returns the parameter as written in a signature, e.g. "*args: int = 1".
func (p Parameter) Display() string {
	var sb strings.Builder
	switch p.Kind {
	case ParamVarPositional:
		sb.WriteString("*")
	case ParamVarKeyword:
		sb.WriteString("**")
	}
	sb.WriteString(p.Name)
	if p.Type != "" {
		sb.WriteString(": ")
		sb.WriteString(p.Type)
	}
	if p.Default != "" {
		if p.Type != "" {
			sb.WriteString(" = ")
		} else {
			sb.WriteString("=")
		}
		sb.WriteString(p.Default)
	}
	return sb.String()
}

// Declaration is one extracted function or method.
// Declarations are immutable once the scanner returns them.
type Declaration struct {
	// Name is the function name.
	Name string

	// Kind is function or method.
	Kind DeclarationKind

	// Parameters in declaration order.
	Parameters []Parameter

	// ReturnType is the return annotation text. Empty when not annotated.
	ReturnType string

	// Documentation is the parsed docstring, nil when the body has none.
	Documentation *DocumentationBlock

	// Class is the owning class name, set for methods.
	Class string

	// Decorators are the decorator expressions without the leading "@".
	Decorators []string

	// Async is true for "async def".
	Async bool

	// Line is the 1-based line of the def keyword.
	Line int

	// Partial is true when the declaration was recorded with best-effort
	// data after a problem that raised a warning.
	Partial bool
}

// QualifiedName returns "Class.method" for methods and the bare name otherwise.
func (d *Declaration) QualifiedName() string {
	if d.Class != "" {
		return d.Class + "." + d.Name
	}
	return d.Name
}

// HasDecorator reports whether the declaration carries the named decorator.
func (d *Declaration) HasDecorator(name string) bool {
	for _, dec := range d.Decorators {
		if dec == name {
			return true
		}
	}
	return false
}

// Parameter returns the parameter with the given bare name.
func (d *Declaration) Parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name && !p.IsMarker() {
			return p, true
		}
	}
	return Parameter{}, false
}

// DocumentableParameters returns the parameters that get an argument entry:
// everything except the receiver and the bare separators.
func (d *Declaration) DocumentableParameters() []Parameter {
	params := make([]Parameter, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Receiver || p.IsMarker() {
			continue
		}
		params = append(params, p)
	}
	return params
}

// ClassDeclaration is a class and the methods declared directly in its body.
type ClassDeclaration struct {
	// Name is the class name.
	Name string

	// Bases are the base class expressions, verbatim.
	Bases []string

	// Decorators are the decorator expressions without the leading "@".
	Decorators []string

	// Documentation is the class docstring, nil when absent.
	Documentation *DocumentationBlock

	// Methods in source order.
	Methods []*Declaration

	// Line is the 1-based line of the class keyword.
	Line int
}
