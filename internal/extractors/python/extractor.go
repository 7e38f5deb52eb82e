// Package python extracts top-level functions, classes, methods and their
// docstrings from Python source files without executing them.
//
// The extractor tokenizes the file, walks module and class bodies, and
// interprets parameter lists and Google style docstrings. Structural
// problems (unterminated strings, unbalanced brackets, broken indentation)
// fail the whole file with *domain.ParseError. Problems confined to one
// declaration are recorded as warnings and the declaration is kept with
// best-effort data when its name can be recovered.
package python

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.SourceScanner = (*Extractor)(nil)

const unnamed = "<unnamed>"

// Extractor implements driven.SourceScanner for Python source.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// New creates a Python extractor.
func New() *Extractor {
	return &Extractor{}
}

// Scan parses src and returns the module record.
func (e *Extractor) Scan(path, module string, src []byte, opts driven.ScanOptions) (*domain.ModuleRecord, error) {
	if !utf8.Valid(src) {
		return nil, &domain.ParseError{Path: path, Msg: "source is not valid UTF-8"}
	}

	raw, err := parse(string(src))
	if err != nil {
		var se *syntaxError
		if errors.As(err, &se) {
			return nil, &domain.ParseError{Path: path, Line: se.line, Msg: se.msg}
		}
		return nil, &domain.ParseError{Path: path, Msg: err.Error()}
	}

	b := &builder{
		src:  normaliseNewlines(string(src)),
		opts: opts,
		record: &domain.ModuleRecord{
			Name: module,
			Path: path,
		},
	}
	b.build(raw)
	return b.record, nil
}

// builder converts parser output into domain types and collects warnings.
type builder struct {
	src    string
	opts   driven.ScanOptions
	record *domain.ModuleRecord
}

func (b *builder) build(raw *rawModule) {
	if len(raw.doc) > 0 {
		b.record.Documentation = b.documentation(raw.doc, b.record.Name, raw.doc[0].line)
	}
	for _, rf := range raw.functions {
		if b.skip(rf.name) {
			continue
		}
		if d := b.function(rf, ""); d != nil {
			b.record.Functions = append(b.record.Functions, d)
		}
	}
	for _, rc := range raw.classes {
		if b.skip(rc.name) {
			continue
		}
		if c := b.class(rc); c != nil {
			b.record.Classes = append(b.record.Classes, c)
		}
	}
}

// skip reports whether a named declaration is private and filtered out.
func (b *builder) skip(name string) bool {
	return name != "" && strings.HasPrefix(name, "_") && !b.opts.IncludePrivate
}

func (b *builder) warn(decl string, line int, msg string) {
	b.record.Warnings = append(b.record.Warnings, domain.DeclarationWarning{
		Declaration: decl,
		Line:        line,
		Message:     msg,
	})
}

// function builds a declaration. It returns nil when the name could not be
// recovered, after recording a single warning.
func (b *builder) function(rf *rawFunc, class string) *domain.Declaration {
	if rf.name == "" {
		decl := unnamed
		if class != "" {
			decl = class + "." + unnamed
		}
		b.warn(decl, rf.line, strings.Join(rf.problems, "; "))
		return nil
	}

	d := &domain.Declaration{
		Name:       rf.name,
		Kind:       domain.KindFunction,
		Class:      class,
		Decorators: rf.decorators,
		Async:      rf.async,
		Line:       rf.line,
	}
	if class != "" {
		d.Kind = domain.KindMethod
	}

	params, paramProblems := parseParameters(b.src, rf.params)
	problems := append(append([]string(nil), rf.problems...), paramProblems...)
	if class != "" && !d.HasDecorator("staticmethod") {
		markReceiver(params)
	}
	d.Parameters = params

	if rf.hasReturns {
		d.ReturnType = tokenText(b.src, rf.returns)
		switch {
		case len(rf.returns) == 0:
			problems = append(problems, "missing return annotation after '->'")
		case !validExpression(rf.returns):
			problems = append(problems, fmt.Sprintf("cannot interpret return annotation %q", d.ReturnType))
		}
	}

	if len(problems) > 0 {
		d.Partial = true
		b.warn(d.QualifiedName(), d.Line, strings.Join(problems, "; "))
	}

	if len(rf.doc) > 0 {
		d.Documentation = b.documentation(rf.doc, d.QualifiedName(), d.Line)
		b.checkDocumentedArguments(d.QualifiedName(), d.Line, d.Documentation, d.DocumentableParameters())
	}
	return d
}

// markReceiver flags the first ordinary parameter of a method as the
// instance or class receiver.
func markReceiver(params []domain.Parameter) {
	for i := range params {
		if params[i].IsMarker() {
			continue
		}
		if params[i].Kind == domain.ParamPositional {
			params[i].Receiver = true
		}
		return
	}
}

func (b *builder) class(rc *rawClass) *domain.ClassDeclaration {
	if rc.name == "" {
		b.warn(unnamed, rc.line, strings.Join(rc.problems, "; "))
		return nil
	}
	if len(rc.problems) > 0 {
		b.warn(rc.name, rc.line, strings.Join(rc.problems, "; "))
	}

	c := &domain.ClassDeclaration{
		Name:       rc.name,
		Decorators: rc.decorators,
		Line:       rc.line,
	}
	for _, base := range rc.bases {
		if len(base) > 0 {
			c.Bases = append(c.Bases, tokenText(b.src, base))
		}
	}

	if len(rc.doc) > 0 {
		c.Documentation = b.documentation(rc.doc, rc.name, rc.line)
		if ctorDef := findMethod(rc.methods, "__init__"); ctorDef != nil && c.Documentation != nil {
			params, _ := parseParameters(b.src, ctorDef.params)
			markReceiver(params)
			ctor := &domain.Declaration{Parameters: params}
			b.checkDocumentedArguments(rc.name, rc.line, c.Documentation, ctor.DocumentableParameters())
		}
	}

	for _, rf := range rc.methods {
		if b.skip(rf.name) {
			continue
		}
		if m := b.function(rf, rc.name); m != nil {
			c.Methods = append(c.Methods, m)
		}
	}
	return c
}

func findMethod(methods []*rawFunc, name string) *rawFunc {
	for _, m := range methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// documentation decodes, cleans and parses a docstring. It returns nil for
// literals that are not docstrings and for empty docstrings.
func (b *builder) documentation(doc []token, decl string, line int) *domain.DocumentationBlock {
	value, ok := literalValue(doc)
	if !ok {
		return nil
	}
	cleaned := cleanDoc(value)
	if cleaned == "" {
		return nil
	}
	block, problems := parseDocstring(cleaned)
	for _, p := range problems {
		b.warn(decl, line, p)
	}
	return block
}

// checkDocumentedArguments warns about documented arguments that are not
// in the parameter list.
func (b *builder) checkDocumentedArguments(decl string, line int, doc *domain.DocumentationBlock, params []domain.Parameter) {
	if doc == nil {
		return
	}
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name] = true
	}
	for _, arg := range doc.Arguments {
		if !known[arg.Name] {
			b.warn(decl, line, fmt.Sprintf("documented argument %q is not in the parameter list", arg.Name))
		}
	}
}
