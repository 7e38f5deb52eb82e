package python

import (
	"fmt"
	"strings"
)

// rawFunc is a def statement as found in the token stream, before its
// parameter list and docstring are interpreted.
type rawFunc struct {
	name       string
	line       int
	async      bool
	decorators []string
	params     []token
	returns    []token
	hasReturns bool
	doc        []token
	problems   []string
}

// rawClass is a class statement and the defs directly inside its body.
type rawClass struct {
	name       string
	line       int
	decorators []string
	bases      [][]token
	doc        []token
	methods    []*rawFunc
	problems   []string
}

// rawModule is the top-level structure of one file.
type rawModule struct {
	doc       []token
	functions []*rawFunc
	classes   []*rawClass
}

// parser walks the token stream one statement at a time. It only descends
// into module and class bodies; everything else is skipped as a block.
type parser struct {
	src  string
	toks []token
	pos  int
}

func parse(src string) (*rawModule, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: normaliseNewlines(src), toks: toks}
	return p.module()
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) module() (*rawModule, error) {
	mod := &rawModule{}
	mod.doc = p.docstringStatement()
	funcs, classes, err := p.block(false)
	if err != nil {
		return nil, err
	}
	mod.functions = funcs
	mod.classes = classes
	return mod, nil
}

// block parses statements until the DEDENT closing the current block or EOF.
// Nested classes are only collected at module level.
func (p *parser) block(inClass bool) ([]*rawFunc, []*rawClass, error) {
	var funcs []*rawFunc
	var classes []*rawClass
	for {
		t := p.peek()
		switch t.kind {
		case tokEOF:
			return funcs, classes, nil
		case tokDedent:
			p.next()
			return funcs, classes, nil
		case tokIndent:
			return nil, nil, &syntaxError{line: t.line, msg: "unexpected indent"}
		case tokNewline:
			p.next()
			continue
		}

		decorators := p.decorators()
		t = p.peek()
		switch {
		case t.is(tokName, "def"):
			f, err := p.function(decorators, false)
			if err != nil {
				return nil, nil, err
			}
			funcs = append(funcs, f)
		case t.is(tokName, "async") && p.peekAt(1).is(tokName, "def"):
			p.next()
			f, err := p.function(decorators, true)
			if err != nil {
				return nil, nil, err
			}
			funcs = append(funcs, f)
		case t.is(tokName, "class"):
			c, err := p.class(decorators)
			if err != nil {
				return nil, nil, err
			}
			if !inClass {
				classes = append(classes, c)
			}
		case t.kind == tokEOF || t.kind == tokDedent:
			continue
		default:
			if err := p.skipStatement(); err != nil {
				return nil, nil, err
			}
		}
	}
}

// decorators consumes consecutive "@expr" lines.
func (p *parser) decorators() []string {
	var out []string
	for p.peek().is(tokOp, "@") {
		p.next()
		expr := p.lineTokens()
		out = append(out, p.text(expr))
		p.consumeNewline()
	}
	return out
}

// lineTokens consumes and returns the tokens up to, not including, the NEWLINE.
func (p *parser) lineTokens() []token {
	start := p.pos
	for {
		k := p.peek().kind
		if k == tokNewline || k == tokEOF {
			break
		}
		p.next()
	}
	return p.toks[start:p.pos]
}

func (p *parser) consumeNewline() {
	if p.peek().kind == tokNewline {
		p.next()
	}
}

// skipStatement consumes a statement that is not a def or class, including
// the indented block of a compound statement.
func (p *parser) skipStatement() error {
	line := p.lineTokens()
	p.consumeNewline()
	compound := len(line) > 0 && line[len(line)-1].is(tokOp, ":")
	next := p.peek()
	switch {
	case next.kind == tokIndent && !compound:
		return &syntaxError{line: next.line, msg: "unexpected indent"}
	case next.kind != tokIndent && compound:
		return &syntaxError{line: line[0].line, msg: "expected an indented block"}
	case next.kind == tokIndent:
		p.next()
		p.skipBlock()
	}
	return nil
}

// skipBlock consumes tokens until the DEDENT matching an INDENT already consumed.
func (p *parser) skipBlock() {
	depth := 1
	for depth > 0 {
		switch p.next().kind {
		case tokIndent:
			depth++
		case tokDedent:
			depth--
		case tokEOF:
			return
		}
	}
}

// docstringStatement consumes the next statement when it consists only of
// string literals and returns those literals.
func (p *parser) docstringStatement() []token {
	i := 0
	for p.peekAt(i).kind == tokString {
		i++
	}
	if i == 0 {
		return nil
	}
	end := p.peekAt(i)
	if end.kind != tokNewline && end.kind != tokEOF && !end.is(tokOp, ";") {
		return nil
	}
	doc := p.toks[p.pos : p.pos+i]
	p.lineTokens()
	p.consumeNewline()
	return doc
}

// header splits a def or class line into the bracketed part, whatever sits
// between it and the colon, and the inline body after the colon.
type header struct {
	name     token
	hasName  bool
	inner    []token
	hasParen bool
	tail     []token
	colon    bool
	inline   []token
}

func splitHeader(line []token) header {
	var h header
	i := 0
	if i < len(line) && line[i].kind == tokName && !isKeyword(line[i].text) {
		h.name = line[i]
		h.hasName = true
		i++
	}
	if i < len(line) && line[i].is(tokOp, "(") {
		h.hasParen = true
		closeAt := matchBracket(line, i)
		h.inner = line[i+1 : closeAt]
		i = min(closeAt+1, len(line))
	}
	depth := 0
	tailStart := i
	for ; i < len(line); i++ {
		t := line[i]
		if t.kind != tokOp {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ":":
			if depth == 0 {
				h.tail = line[tailStart:i]
				h.colon = true
				h.inline = line[i+1:]
				return h
			}
		}
	}
	h.tail = line[tailStart:]
	return h
}

// matchBracket returns the index of the bracket closing line[open], or
// len(line) when it is not closed on this line.
func matchBracket(line []token, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		if line[i].kind != tokOp {
			continue
		}
		switch line[i].text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(line)
}

func (p *parser) function(decorators []string, async bool) (*rawFunc, error) {
	def := p.next()
	line := p.lineTokens()
	p.consumeNewline()

	f := &rawFunc{line: def.line, async: async, decorators: decorators}
	h := splitHeader(line)
	if h.hasName {
		f.name = h.name.text
	} else {
		f.problems = append(f.problems, "missing function name")
	}

	if h.hasParen {
		f.params = h.inner
	} else if h.hasName {
		f.problems = append(f.problems, "missing parameter list")
	}

	tail := h.tail
	if len(tail) > 0 && tail[0].is(tokOp, "->") {
		f.hasReturns = true
		f.returns = tail[1:]
		tail = nil
	}
	if len(tail) > 0 {
		f.problems = append(f.problems, fmt.Sprintf("unexpected %q in function header", p.text(tail)))
	}
	if !h.colon {
		f.problems = append(f.problems, "missing ':' after function header")
	}

	doc, err := p.body(h, def.line, "function definition")
	if err != nil {
		return nil, err
	}
	f.doc = doc
	return f, nil
}

func (p *parser) class(decorators []string) (*rawClass, error) {
	kw := p.next()
	line := p.lineTokens()
	p.consumeNewline()

	c := &rawClass{line: kw.line, decorators: decorators}
	h := splitHeader(line)
	if h.hasName {
		c.name = h.name.text
	} else {
		c.problems = append(c.problems, "missing class name")
	}
	if h.hasParen {
		c.bases = splitTopLevel(h.inner)
	}
	if len(h.tail) > 0 {
		c.problems = append(c.problems, fmt.Sprintf("unexpected %q in class header", p.text(h.tail)))
	}
	if !h.colon {
		c.problems = append(c.problems, "missing ':' after class header")
	}

	if len(h.inline) > 0 {
		c.doc = inlineDocstring(h.inline)
		return c, nil
	}
	if p.peek().kind != tokIndent {
		if h.colon {
			return nil, &syntaxError{line: kw.line, msg: fmt.Sprintf("expected an indented block after class definition on line %d", kw.line)}
		}
		return c, nil
	}
	p.next()
	c.doc = p.docstringStatement()
	methods, _, err := p.block(true)
	if err != nil {
		return nil, err
	}
	c.methods = methods
	return c, nil
}

// body reads the docstring of a def and skips the rest of its block.
func (p *parser) body(h header, line int, what string) ([]token, error) {
	if len(h.inline) > 0 {
		return inlineDocstring(h.inline), nil
	}
	if p.peek().kind != tokIndent {
		if h.colon {
			return nil, &syntaxError{line: line, msg: fmt.Sprintf("expected an indented block after %s on line %d", what, line)}
		}
		return nil, nil
	}
	p.next()
	doc := p.docstringStatement()
	p.skipBlock()
	return doc, nil
}

// inlineDocstring handles "def f(): 'doc'" style one-liners.
func inlineDocstring(inline []token) []token {
	i := 0
	for i < len(inline) && inline[i].kind == tokString {
		i++
	}
	if i == 0 || (i < len(inline) && !inline[i].is(tokOp, ";")) {
		return nil
	}
	return inline[:i]
}

// splitTopLevel splits tokens on commas outside brackets. A trailing comma
// does not produce an empty final item.
func splitTopLevel(toks []token) [][]token {
	var items [][]token
	depth := 0
	start := 0
	for i, t := range toks {
		if t.kind != tokOp {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				items = append(items, toks[start:i])
				start = i + 1
			}
		}
	}
	if start < len(toks) {
		items = append(items, toks[start:])
	}
	return items
}

// text renders tokens as they appear in the source, collapsing line breaks
// and comments between tokens to a single space.
func (p *parser) text(toks []token) string {
	return tokenText(p.src, toks)
}

func tokenText(src string, toks []token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			gap := src[toks[i-1].end:t.start]
			if strings.ContainsAny(gap, "\n#\\") {
				if !opensBracket(toks[i-1]) && !closesBracket(t) && !t.is(tokOp, ",") {
					sb.WriteByte(' ')
				}
			} else {
				sb.WriteString(gap)
			}
		}
		sb.WriteString(t.text)
	}
	return sb.String()
}

func opensBracket(t token) bool {
	return t.kind == tokOp && (t.text == "(" || t.text == "[" || t.text == "{")
}

func closesBracket(t token) bool {
	return t.kind == tokOp && (t.text == ")" || t.text == "]" || t.text == "}")
}

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

func isKeyword(name string) bool {
	return keywords[name]
}
