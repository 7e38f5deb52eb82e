// Package markdown renders extracted module records as Markdown API
// reference documents and reads generated documents back.
//
// Rendering is deterministic: the output depends only on the record and
// the options, never on time, map order or the environment.
package markdown

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.DocRenderer = (*Renderer)(nil)

// Placeholders used when nothing was recorded.
const (
	NoSummary     = "No description."
	NoDescription = "no description"
)

// IndexIntro is the fixed sentence under the index heading.
const IndexIntro = "This section contains automatically generated documentation from the source code."

// Renderer implements driven.DocRenderer.
type Renderer struct{}

// New creates a Markdown renderer.
func New() *Renderer {
	return &Renderer{}
}

// RenderModule renders one module document.
func (r *Renderer) RenderModule(module *domain.ModuleRecord, opts driven.RenderOptions) (string, error) {
	if module == nil {
		return "", fmt.Errorf("render module: %w", domain.ErrInvalidInput)
	}

	var sb strings.Builder
	if opts.FrontMatter {
		err := writeFrontMatter(&sb, frontMatter{
			Title:     module.Name,
			Module:    module.Name,
			Source:    module.Path,
			Generator: domain.GeneratorName,
		})
		if err != nil {
			return "", fmt.Errorf("render module %s: %w", module.Name, err)
		}
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", module.Name))
	if doc := module.Documentation; !doc.IsEmpty() {
		if doc.Summary != "" {
			sb.WriteString(doc.Summary + "\n\n")
		}
		writeExamples(&sb, doc.Examples)
		writeSections(&sb, doc.Sections)
	}

	if len(module.Functions) > 0 {
		sb.WriteString("## Functions\n\n")
		for _, fn := range module.Functions {
			writeDeclaration(&sb, fn, 3, opts)
			sb.WriteString("---\n\n")
		}
	}

	if len(module.Classes) > 0 {
		sb.WriteString("## Classes\n\n")
		for _, cls := range module.Classes {
			writeClass(&sb, cls, opts)
			sb.WriteString("---\n\n")
		}
	}

	return finish(sb.String()), nil
}

// RenderIndex renders the aggregate index. Entries are listed in the order
// given, which is source-tree order.
func (r *Renderer) RenderIndex(entries []driven.IndexEntry, opts driven.RenderOptions) (string, error) {
	title := opts.IndexTitle
	if title == "" {
		title = domain.DefaultIndexTitle
	}

	var sb strings.Builder
	if opts.FrontMatter {
		if err := writeFrontMatter(&sb, frontMatter{Title: title, Generator: domain.GeneratorName}); err != nil {
			return "", fmt.Errorf("render index: %w", err)
		}
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(IndexIntro + "\n\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("- [%s](%s)", e.Module, e.DocPath))
		if e.Summary != "" {
			sb.WriteString(": " + e.Summary)
		}
		sb.WriteString("\n")
	}

	return finish(sb.String()), nil
}

// finish trims trailing blank lines and terminates the document with a
// single newline.
func finish(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}

func writeClass(sb *strings.Builder, cls *domain.ClassDeclaration, opts driven.RenderOptions) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", cls.Name))

	signature := "class " + cls.Name
	if len(cls.Bases) > 0 {
		signature += "(" + strings.Join(cls.Bases, ", ") + ")"
	}
	writeCode(sb, signature)

	doc := cls.Documentation
	writeSummary(sb, doc)
	if doc != nil {
		if len(doc.Arguments) > 0 {
			sb.WriteString("**Arguments:**\n\n")
			for _, arg := range doc.Arguments {
				writeBullet(sb, arg.Name, arg.Type, "", arg.Description, "")
			}
			sb.WriteString("\n")
		}
		writeRaises(sb, doc.Raises)
		writeExamples(sb, doc.Examples)
		writeSections(sb, doc.Sections)
	}

	if len(cls.Methods) > 0 {
		sb.WriteString("#### Methods\n\n")
		for _, m := range cls.Methods {
			writeDeclaration(sb, m, 5, opts)
		}
	}
}

func writeDeclaration(sb *strings.Builder, d *domain.Declaration, level int, opts driven.RenderOptions) {
	sb.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", level), d.Name))
	writeCode(sb, Signature(d, opts.ShowReceiver))

	doc := d.Documentation
	writeSummary(sb, doc)
	writeArguments(sb, d)
	writeReturns(sb, d)
	if doc != nil {
		writeRaises(sb, doc.Raises)
		writeExamples(sb, doc.Examples)
		writeSections(sb, doc.Sections)
	}
}

// Signature renders "[async ]name(params)[ -> return]". The receiver is
// omitted unless showReceiver is set.
func Signature(d *domain.Declaration, showReceiver bool) string {
	params := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Receiver && !showReceiver {
			continue
		}
		params = append(params, p.Display())
	}

	var sb strings.Builder
	if d.Async {
		sb.WriteString("async ")
	}
	sb.WriteString(d.Name)
	sb.WriteString("(" + strings.Join(params, ", ") + ")")
	if d.ReturnType != "" {
		sb.WriteString(" -> " + d.ReturnType)
	}
	return sb.String()
}

func writeSummary(sb *strings.Builder, doc *domain.DocumentationBlock) {
	if doc == nil || doc.Summary == "" {
		sb.WriteString(NoSummary + "\n\n")
		return
	}
	sb.WriteString(doc.Summary + "\n\n")
}

func writeArguments(sb *strings.Builder, d *domain.Declaration) {
	params := d.DocumentableParameters()

	var extra []domain.ArgumentDoc
	if d.Documentation != nil {
		for _, arg := range d.Documentation.Arguments {
			if p, ok := d.Parameter(arg.Name); !ok || p.Receiver {
				extra = append(extra, arg)
			}
		}
	}
	if len(params) == 0 && len(extra) == 0 {
		return
	}

	sb.WriteString("**Arguments:**\n\n")
	for _, p := range params {
		doc, _ := d.Documentation.Argument(p.Name)
		typ := p.Type
		if typ == "" {
			typ = doc.Type
		}
		writeBullet(sb, displayName(p), typ, p.Default, doc.Description, "")
	}
	for _, arg := range extra {
		writeBullet(sb, arg.Name, arg.Type, "", arg.Description, " (not in signature)")
	}
	sb.WriteString("\n")
}

// displayName keeps the star prefix of variadic parameters.
func displayName(p domain.Parameter) string {
	switch p.Kind {
	case domain.ParamVarPositional:
		return "*" + p.Name
	case domain.ParamVarKeyword:
		return "**" + p.Name
	default:
		return p.Name
	}
}

// writeBullet writes "- `name` (`type`, default `x`): description".
func writeBullet(sb *strings.Builder, name, typ, def, desc, suffix string) {
	var meta []string
	if typ != "" {
		meta = append(meta, code(typ))
	}
	if def != "" {
		meta = append(meta, "default "+code(def))
	}
	if desc == "" {
		desc = NoDescription
	}

	sb.WriteString("- " + code(name))
	if len(meta) > 0 {
		sb.WriteString(" (" + strings.Join(meta, ", ") + ")")
	}
	sb.WriteString(": " + indentContinuation(desc) + suffix + "\n")
}

func writeReturns(sb *strings.Builder, d *domain.Declaration) {
	typ := d.ReturnType
	desc := ""
	if d.Documentation != nil && d.Documentation.Returns != nil {
		if d.Documentation.Returns.Type != "" && typ == "" {
			typ = d.Documentation.Returns.Type
		}
		desc = d.Documentation.Returns.Description
	}
	if desc == "" {
		desc = NoDescription
	}

	sb.WriteString("**Returns:**\n\n")
	if typ != "" {
		sb.WriteString(code(typ) + ": ")
	}
	sb.WriteString(desc + "\n\n")
}

func writeRaises(sb *strings.Builder, raises []domain.RaiseDoc) {
	if len(raises) == 0 {
		return
	}
	sb.WriteString("**Raises:**\n\n")
	for _, r := range raises {
		cond := r.Condition
		if cond == "" {
			cond = NoDescription
		}
		if r.Kind == "" {
			sb.WriteString("- " + indentContinuation(cond) + "\n")
			continue
		}
		sb.WriteString("- " + code(r.Kind) + ": " + indentContinuation(cond) + "\n")
	}
	sb.WriteString("\n")
}

// writeExamples writes input/output pairs inside python code fences.
// Narrative text without an input is written as a plain paragraph and
// splits the fence.
func writeExamples(sb *strings.Builder, examples []domain.ExampleDoc) {
	if len(examples) == 0 {
		return
	}
	sb.WriteString("**Example:**\n\n")

	var block []string
	flush := func() {
		if len(block) > 0 {
			writeCode(sb, strings.Join(block, "\n"))
			block = nil
		}
	}

	for _, ex := range examples {
		if ex.Input == "" {
			flush()
			if ex.Output != "" {
				sb.WriteString(ex.Output + "\n\n")
			}
			continue
		}
		for i, line := range strings.Split(ex.Input, "\n") {
			prompt := ">>> "
			if i > 0 {
				prompt = "... "
			}
			block = append(block, prompt+line)
		}
		if ex.Output != "" {
			block = append(block, ex.Output)
		}
	}
	flush()
}

func writeSections(sb *strings.Builder, sections []domain.SectionDoc) {
	for _, s := range sections {
		sb.WriteString(fmt.Sprintf("**%s:**\n\n", s.Title))
		if s.Body != "" {
			sb.WriteString(s.Body + "\n\n")
		}
	}
}

// writeCode writes a python code fence long enough not to be closed by
// backticks inside content.
func writeCode(sb *strings.Builder, content string) {
	fence := strings.Repeat("`", max(3, longestRun(content, '`')+1))
	sb.WriteString(fence + "python\n" + content + "\n" + fence + "\n\n")
}

// code wraps s in an inline code span, widening the delimiter when s
// contains backticks.
func code(s string) string {
	n := longestRun(s, '`')
	if n == 0 {
		return "`" + s + "`"
	}
	delim := strings.Repeat("`", n+1)
	return delim + " " + s + " " + delim
}

func longestRun(s string, c rune) int {
	longest, run := 0, 0
	for _, r := range s {
		if r == c {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}

// indentContinuation indents every line after the first so multi-paragraph
// descriptions stay inside their list item.
func indentContinuation(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = "  " + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
