package python

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// sectionKind is the recognised meaning of a docstring section marker.
type sectionKind int

const (
	sectionGeneric sectionKind = iota
	sectionArguments
	sectionReturns
	sectionRaises
	sectionExample
)

var sectionVocabulary = map[string]sectionKind{
	"arg":               sectionArguments,
	"args":              sectionArguments,
	"argument":          sectionArguments,
	"arguments":         sectionArguments,
	"param":             sectionArguments,
	"params":            sectionArguments,
	"parameter":         sectionArguments,
	"parameters":        sectionArguments,
	"keyword arg":       sectionArguments,
	"keyword args":      sectionArguments,
	"keyword argument":  sectionArguments,
	"keyword arguments": sectionArguments,
	"return":            sectionReturns,
	"returns":           sectionReturns,
	"raise":             sectionRaises,
	"raises":            sectionRaises,
	"exception":         sectionRaises,
	"exceptions":        sectionRaises,
	"example":           sectionExample,
	"examples":          sectionExample,
}

// markerPattern matches "Title:" with a title of one to three words and
// optional inline text after the colon.
var markerPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*(?: [A-Za-z0-9_]+){0,2}):(?:\s+(.*))?$`)

var raiseKindPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// section is a marker and the lines that belong to it.
type section struct {
	title string
	kind  sectionKind
	lines []string
}

// parseDocstring turns a cleaned docstring into a documentation block.
// The returned messages describe lines that could not be interpreted.
func parseDocstring(doc string) (*domain.DocumentationBlock, []string) {
	block := &domain.DocumentationBlock{Raw: doc}
	var problems []string

	lines := strings.Split(doc, "\n")
	var summary []string
	var sections []*section
	var current *section

	for _, line := range lines {
		if title, kind, inline, ok := marker(line); ok {
			current = &section{title: title, kind: kind}
			if inline != "" {
				current.lines = append(current.lines, inline)
			}
			sections = append(sections, current)
			continue
		}
		if current == nil {
			summary = append(summary, line)
		} else {
			current.lines = append(current.lines, line)
		}
	}
	block.Summary = strings.Join(trimBlankLines(summary), "\n")

	for _, s := range sections {
		body := dedent(trimBlankLines(s.lines))
		switch s.kind {
		case sectionArguments:
			args, leftover, msgs := parseArguments(body)
			block.Arguments = append(block.Arguments, args...)
			problems = append(problems, msgs...)
			if len(leftover) > 0 {
				block.Sections = append(block.Sections, domain.SectionDoc{Title: s.title, Body: strings.Join(leftover, "\n")})
			}
		case sectionReturns:
			if block.Returns != nil {
				problems = append(problems, fmt.Sprintf("duplicate %q section", s.title))
				continue
			}
			block.Returns = parseReturns(body)
		case sectionRaises:
			raises, msgs := parseRaises(body)
			block.Raises = append(block.Raises, raises...)
			problems = append(problems, msgs...)
		case sectionExample:
			block.Examples = append(block.Examples, parseExamples(body)...)
		default:
			block.Sections = append(block.Sections, domain.SectionDoc{Title: s.title, Body: strings.Join(body, "\n")})
		}
	}
	return block, problems
}

// marker reports whether line is a section marker at base indentation.
// Unknown titles only count when nothing follows the colon, so ordinary
// sentences like "Note: this is slow" stay in the surrounding text.
func marker(line string) (title string, kind sectionKind, inline string, ok bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return "", 0, "", false
	}
	m := markerPattern.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return "", 0, "", false
	}
	title, inline = m[1], strings.TrimSpace(m[2])
	kind, known := sectionVocabulary[strings.ToLower(title)]
	if !known {
		if inline != "" {
			return "", 0, "", false
		}
		kind = sectionGeneric
	}
	return title, kind, inline, true
}

func parseArguments(lines []string) ([]domain.ArgumentDoc, []string, []string) {
	var args []domain.ArgumentDoc
	var leftover, problems []string
	var desc []string
	seen := make(map[string]bool)

	flush := func() {
		if len(args) > 0 {
			args[len(args)-1].Description = joinParagraphs(desc)
		}
		desc = nil
	}

	for _, line := range lines {
		if indentOf(line) == 0 && line != "" {
			if name, typ, text, ok := argumentLine(line); ok {
				flush()
				if seen[name] {
					problems = append(problems, fmt.Sprintf("argument %q documented more than once", name))
				}
				seen[name] = true
				args = append(args, domain.ArgumentDoc{Name: name, Type: typ})
				desc = append(desc, text)
				continue
			}
		}
		if len(args) == 0 {
			if strings.TrimSpace(line) != "" {
				problems = append(problems, fmt.Sprintf("cannot interpret argument line %q", strings.TrimSpace(line)))
			}
			leftover = append(leftover, line)
			continue
		}
		desc = append(desc, line)
	}
	flush()
	return args, trimBlankLines(leftover), problems
}

// argumentLine parses "name (type): description" or "name: description".
func argumentLine(line string) (name, typ, desc string, ok bool) {
	i := 0
	for i < len(line) && i < 2 && line[i] == '*' {
		i++
	}
	start := i
	for i < len(line) && (isLetter(line[i]) || isDigit(line[i]) || line[i] == '_') {
		i++
	}
	if i == start || isDigit(line[start]) {
		return "", "", "", false
	}
	name = line[start:i]

	rest := strings.TrimLeft(line[i:], " ")
	if strings.HasPrefix(rest, "(") {
		end := closingParen(rest)
		if end < 0 {
			return "", "", "", false
		}
		typ = strings.TrimSpace(rest[1:end])
		rest = strings.TrimLeft(rest[end+1:], " ")
	}
	if !strings.HasPrefix(rest, ":") {
		return "", "", "", false
	}
	return name, typ, strings.TrimSpace(rest[1:]), true
}

// closingParen returns the index of the parenthesis closing s[0].
func closingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseReturns(lines []string) *domain.ReturnDoc {
	ret := &domain.ReturnDoc{}
	if len(lines) == 0 {
		return ret
	}
	first := strings.TrimSpace(lines[0])
	if typ, desc, ok := splitReturnType(first); ok {
		ret.Type = typ
		lines = append([]string{desc}, lines[1:]...)
	}
	ret.Description = joinParagraphs(lines)
	return ret
}

// splitReturnType splits "type: description" when the text before the
// first ": " has no whitespace outside brackets.
func splitReturnType(line string) (typ, desc string, ok bool) {
	idx := strings.Index(line, ": ")
	if idx < 0 {
		if !strings.HasSuffix(line, ":") {
			return "", "", false
		}
		idx = len(line) - 1
	}
	prefix := line[:idx]
	if prefix == "" {
		return "", "", false
	}
	depth := 0
	for _, r := range prefix {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ' ', '\t':
			if depth == 0 {
				return "", "", false
			}
		}
	}
	return prefix, strings.TrimSpace(line[idx+1:]), true
}

func parseRaises(lines []string) ([]domain.RaiseDoc, []string) {
	var raises []domain.RaiseDoc
	var problems []string
	var cond []string

	flush := func() {
		if len(raises) > 0 {
			raises[len(raises)-1].Condition = joinParagraphs(cond)
		}
		cond = nil
	}

	for _, line := range lines {
		if line == "" || indentOf(line) > 0 {
			if len(raises) > 0 {
				cond = append(cond, line)
			}
			continue
		}
		kind, text, found := strings.Cut(line, ":")
		if found && raiseKindPattern.MatchString(strings.TrimSpace(kind)) {
			flush()
			raises = append(raises, domain.RaiseDoc{Kind: strings.TrimSpace(kind)})
			cond = append(cond, strings.TrimSpace(text))
			continue
		}
		flush()
		problems = append(problems, fmt.Sprintf("cannot interpret raises line %q", strings.TrimSpace(line)))
		raises = append(raises, domain.RaiseDoc{})
		cond = append(cond, strings.TrimSpace(line))
	}
	flush()
	return raises, problems
}

// parseExamples pairs interactive inputs with the output that follows them.
func parseExamples(lines []string) []domain.ExampleDoc {
	var pairs []domain.ExampleDoc
	var cur *domain.ExampleDoc
	var output []string
	var prefix string
	blanks := 0

	flush := func() {
		if cur != nil {
			cur.Output = strings.Join(output, "\n")
			pairs = append(pairs, *cur)
		}
		cur = nil
		output = nil
		blanks = 0
	}

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		switch {
		case strings.HasPrefix(trimmed, ">>>"):
			flush()
			prefix = line[:len(line)-len(trimmed)]
			cur = &domain.ExampleDoc{Input: promptText(trimmed, ">>>")}
		case cur != nil && cur.Input != "" && len(output) == 0 && blanks == 0 && isContinuation(trimmed):
			cur.Input += "\n" + promptText(trimmed, "...")
		case strings.TrimSpace(line) == "":
			if cur != nil {
				blanks++
			}
		default:
			if cur == nil {
				cur = &domain.ExampleDoc{}
				prefix = ""
			}
			for ; blanks > 0 && len(output) > 0; blanks-- {
				output = append(output, "")
			}
			blanks = 0
			output = append(output, strings.TrimPrefix(line, prefix))
		}
	}
	flush()
	return pairs
}

func isContinuation(trimmed string) bool {
	return trimmed == "..." || strings.HasPrefix(trimmed, "... ")
}

// promptText strips a prompt and the single space that follows it.
func promptText(line, prompt string) string {
	text := strings.TrimPrefix(line, prompt)
	return strings.TrimPrefix(text, " ")
}

// joinParagraphs joins wrapped lines with spaces. Blank lines separate
// paragraphs.
func joinParagraphs(lines []string) string {
	var paragraphs []string
	var words []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(words) > 0 {
				paragraphs = append(paragraphs, strings.Join(words, " "))
				words = nil
			}
			continue
		}
		words = append(words, line)
	}
	if len(words) > 0 {
		paragraphs = append(paragraphs, strings.Join(words, " "))
	}
	return strings.Join(paragraphs, "\n\n")
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// dedent removes the indentation common to all non-blank lines.
func dedent(lines []string) []string {
	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := indentOf(line); margin < 0 || n < margin {
			margin = n
		}
	}
	if margin <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= margin {
			out[i] = line[margin:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return out
}

func trimBlankLines(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// cleanDoc normalises docstring indentation: tabs are expanded, the first
// line is stripped, the common indentation of the remaining lines is
// removed and leading and trailing blank lines are dropped.
func cleanDoc(doc string) string {
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		if n := len(line) - len(content); margin < 0 || n < margin {
			margin = n
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = ""
			}
		}
	}
	for i := range lines {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(trimBlankLines(lines), "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabSize - col%tabSize
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			sb.WriteRune(r)
			col = 0
		default:
			sb.WriteRune(r)
			col++
		}
	}
	return sb.String()
}

// literalValue returns the value of consecutive string literal tokens.
// Byte strings and f-strings are not docstrings.
func literalValue(toks []token) (string, bool) {
	var sb strings.Builder
	for _, t := range toks {
		prefix, body, raw, ok := splitLiteral(t.text)
		if !ok || strings.ContainsAny(prefix, "bBfF") {
			return "", false
		}
		if raw {
			sb.WriteString(body)
		} else {
			sb.WriteString(decodeEscapes(body))
		}
	}
	return sb.String(), true
}

func splitLiteral(lit string) (prefix, body string, raw, ok bool) {
	i := 0
	for i < len(lit) && isLetter(lit[i]) {
		i++
	}
	prefix = lit[:i]
	quoted := lit[i:]
	quote := ""
	switch {
	case strings.HasPrefix(quoted, `"""`), strings.HasPrefix(quoted, `'''`):
		quote = quoted[:3]
	case strings.HasPrefix(quoted, `"`), strings.HasPrefix(quoted, `'`):
		quote = quoted[:1]
	default:
		return "", "", false, false
	}
	if len(quoted) < 2*len(quote) || !strings.HasSuffix(quoted, quote) {
		return "", "", false, false
	}
	body = quoted[len(quote) : len(quoted)-len(quote)]
	return prefix, body, strings.ContainsAny(prefix, "rR"), true
}

var simpleEscapes = map[byte]string{
	'\\': "\\", '\'': "'", '"': "\"", 'a': "\a", 'b': "\b", 'f': "\f",
	'n': "\n", 'r': "\r", 't': "\t", 'v': "\v", '\n': "",
}

// decodeEscapes interprets backslash escapes of a non-raw string literal.
// Unknown escapes are kept as written.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		next := s[i+1]
		if rep, ok := simpleEscapes[next]; ok {
			sb.WriteString(rep)
			i++
			continue
		}
		switch {
		case next >= '0' && next <= '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i+1:j], 8, 32)
			sb.WriteRune(rune(v))
			i = j - 1
		case next == 'x' || next == 'u' || next == 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[next]
			if i+2+width > len(s) {
				sb.WriteByte(c)
				continue
			}
			v, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				sb.WriteByte(c)
				continue
			}
			sb.WriteRune(rune(v))
			i += 1 + width
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
