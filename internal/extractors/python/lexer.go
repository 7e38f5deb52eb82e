package python

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind classifies lexer output.
type tokenKind int

const (
	tokName tokenKind = iota
	tokNumber
	tokString
	tokOp
	tokInvalid
	tokNewline
	tokIndent
	tokDedent
	tokEOF
)

// token is one lexical token. Start and End are byte offsets into the
// normalised source so callers can recover verbatim text.
type token struct {
	kind  tokenKind
	text  string
	line  int
	start int
	end   int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// syntaxError is a structural problem that aborts the whole file.
type syntaxError struct {
	line int
	msg  string
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

// Operators longest first so the greedy match picks "**=" over "**".
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", "**", "//", "==", "!=", "<=", ">=", ":=", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".", "=", "@",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "<", ">",
}

var closers = map[string]string{")": "(", "]": "[", "}": "{"}

const tabSize = 8

type bracket struct {
	text string
	line int
}

// lexer turns Python source into a token stream with INDENT/DEDENT and
// NEWLINE tokens, following the rules of the reference tokenizer closely
// enough to find declarations and their docstrings.
type lexer struct {
	src     string
	pos     int
	line    int
	indents []int
	parens  []bracket
	tokens  []token
	// lineHasTokens is true once the current logical line produced a token.
	lineHasTokens bool
}

// tokenize lexes src. The returned error is always a *syntaxError.
func tokenize(src string) ([]token, error) {
	l := &lexer{
		src:     normaliseNewlines(src),
		line:    1,
		indents: []int{0},
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// normaliseNewlines converts CRLF and CR line endings to LF and strips a BOM.
func normaliseNewlines(src string) string {
	src = strings.TrimPrefix(src, "\uFEFF")
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.ReplaceAll(src, "\r", "\n")
}

func (l *lexer) emit(kind tokenKind, start, end int) {
	l.tokens = append(l.tokens, token{
		kind:  kind,
		text:  l.src[start:end],
		line:  l.line,
		start: start,
		end:   end,
	})
	if kind != tokNewline && kind != tokIndent && kind != tokDedent {
		l.lineHasTokens = true
	}
}

func (l *lexer) emitAt(kind tokenKind, start, end, line int) {
	l.tokens = append(l.tokens, token{kind: kind, text: l.src[start:end], line: line, start: start, end: end})
	l.lineHasTokens = true
}

func (l *lexer) fail(line int, format string, args ...any) error {
	return &syntaxError{line: line, msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) run() error {
	atLineStart := true
	for l.pos < len(l.src) {
		if atLineStart && len(l.parens) == 0 {
			skipped, err := l.indentation()
			if err != nil {
				return err
			}
			atLineStart = false
			if skipped {
				atLineStart = true
				continue
			}
		}

		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '\\':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n' {
				l.pos += 2
				l.line++
				continue
			}
			l.emit(tokInvalid, l.pos, l.pos+1)
			l.pos++
		case c == '\n':
			if len(l.parens) == 0 && l.lineHasTokens {
				l.emit(tokNewline, l.pos, l.pos+1)
				l.lineHasTokens = false
			}
			l.pos++
			l.line++
			atLineStart = len(l.parens) == 0
		default:
			if err := l.lexToken(); err != nil {
				return err
			}
		}
	}

	if len(l.parens) > 0 {
		open := l.parens[len(l.parens)-1]
		return l.fail(open.line, "'%s' was never closed", open.text)
	}
	if l.lineHasTokens {
		l.emit(tokNewline, l.pos, l.pos)
		l.lineHasTokens = false
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(tokDedent, l.pos, l.pos)
	}
	l.emit(tokEOF, l.pos, l.pos)
	return nil
}

// indentation measures the leading whitespace of a physical line and emits
// INDENT/DEDENT tokens. Blank and comment-only lines are skipped entirely.
func (l *lexer) indentation() (skipped bool, err error) {
	col := 0
	i := l.pos
measure:
	for ; i < len(l.src); i++ {
		switch l.src[i] {
		case ' ':
			col++
		case '\t':
			col = (col/tabSize + 1) * tabSize
		case '\f':
			col = 0
		default:
			break measure
		}
	}
	if i >= len(l.src) {
		l.pos = i
		return true, nil
	}
	switch l.src[i] {
	case '\n':
		l.pos = i + 1
		l.line++
		return true, nil
	case '#':
		for i < len(l.src) && l.src[i] != '\n' {
			i++
		}
		l.pos = i
		if i < len(l.src) {
			l.pos++
			l.line++
		}
		return true, nil
	}

	l.pos = i
	current := l.indents[len(l.indents)-1]
	switch {
	case col > current:
		if len(l.tokens) == 0 {
			return false, l.fail(l.line, "unexpected indent")
		}
		l.indents = append(l.indents, col)
		l.emit(tokIndent, i, i)
	case col < current:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > col {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(tokDedent, i, i)
		}
		if l.indents[len(l.indents)-1] != col {
			return false, l.fail(l.line, "unindent does not match any outer indentation level")
		}
	}
	return false, nil
}

func (l *lexer) lexToken() error {
	start := l.pos
	c := l.src[l.pos]

	if isStringStart(l.src[l.pos:]) {
		return l.lexString()
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	switch {
	case r == '_' || unicode.IsLetter(r):
		l.pos += size
		for l.pos < len(l.src) {
			r, size = utf8.DecodeRuneInString(l.src[l.pos:])
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			l.pos += size
		}
		l.emit(tokName, start, l.pos)
		return nil
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		l.lexNumber()
		l.emit(tokNumber, start, l.pos)
		return nil
	}

	for _, op := range operators {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += len(op)
			if err := l.trackBracket(op); err != nil {
				return err
			}
			l.emit(tokOp, start, l.pos)
			return nil
		}
	}

	l.pos += size
	l.emit(tokInvalid, start, l.pos)
	return nil
}

func (l *lexer) trackBracket(op string) error {
	switch op {
	case "(", "[", "{":
		l.parens = append(l.parens, bracket{text: op, line: l.line})
	case ")", "]", "}":
		if len(l.parens) == 0 {
			return l.fail(l.line, "unmatched '%s'", op)
		}
		open := l.parens[len(l.parens)-1]
		if open.text != closers[op] {
			return l.fail(l.line, "closing parenthesis '%s' does not match opening parenthesis '%s' on line %d",
				op, open.text, open.line)
		}
		l.parens = l.parens[:len(l.parens)-1]
	}
	return nil
}

func (l *lexer) lexNumber() {
	hex := strings.HasPrefix(strings.ToLower(l.src[l.pos:]), "0x")
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isDigit(c) || c == '_' || c == '.' || isLetter(c):
			l.pos++
		case (c == '+' || c == '-') && !hex && l.pos > 0 && (l.src[l.pos-1] == 'e' || l.src[l.pos-1] == 'E'):
			l.pos++
		default:
			return
		}
	}
}

// lexString consumes a string literal including its prefix.
func (l *lexer) lexString() error {
	start := l.pos
	startLine := l.line
	for isLetter(l.src[l.pos]) {
		l.pos++
	}
	quote := l.src[l.pos : l.pos+1]
	triple := strings.HasPrefix(l.src[l.pos:], strings.Repeat(quote, 3))
	if triple {
		quote = strings.Repeat(quote, 3)
	}
	l.pos += len(quote)

	for {
		if l.pos >= len(l.src) {
			if triple {
				return l.fail(startLine, "unterminated triple-quoted string literal")
			}
			return l.fail(startLine, "unterminated string literal")
		}
		c := l.src[l.pos]
		switch {
		case c == '\\':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n' {
				l.line++
			}
			l.pos += 2
		case c == '\n':
			if !triple {
				return l.fail(startLine, "unterminated string literal")
			}
			l.line++
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], quote):
			l.pos += len(quote)
			l.emitAt(tokString, start, l.pos, startLine)
			return nil
		default:
			l.pos++
		}
	}
}

// isStringStart reports whether s begins with an optional valid string
// prefix followed by a quote.
func isStringStart(s string) bool {
	i := 0
	for i < len(s) && i < 3 && isLetter(s[i]) {
		i++
	}
	if i >= len(s) || (s[i] != '"' && s[i] != '\'') {
		return false
	}
	return validPrefix(s[:i])
}

func validPrefix(prefix string) bool {
	switch strings.ToLower(prefix) {
	case "", "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
