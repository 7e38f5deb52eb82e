package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token) []tokenKind {
	out := make([]tokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.kind
	}
	return out
}

func TestTokenize(t *testing.T) {
	t.Run("emits indentation tokens", func(t *testing.T) {
		toks, err := tokenize("def f():\n    pass\nx = 1\n")
		require.NoError(t, err)

		assert.Equal(t, []tokenKind{
			tokName, tokName, tokOp, tokOp, tokOp, tokNewline,
			tokIndent, tokName, tokNewline,
			tokDedent, tokName, tokOp, tokNumber, tokNewline,
			tokEOF,
		}, kinds(toks))
	})

	t.Run("skips comments and blank lines", func(t *testing.T) {
		toks, err := tokenize("# header\n\nx = 1  # trailing\n    # indented comment\n")
		require.NoError(t, err)

		assert.Equal(t, []tokenKind{tokName, tokOp, tokNumber, tokNewline, tokEOF}, kinds(toks))
	})

	t.Run("joins lines inside brackets", func(t *testing.T) {
		toks, err := tokenize("f(a,\n  b)\n")
		require.NoError(t, err)

		assert.Equal(t, []tokenKind{tokName, tokOp, tokName, tokOp, tokName, tokOp, tokNewline, tokEOF}, kinds(toks))
	})

	t.Run("bracket closing mid-line keeps the logical line", func(t *testing.T) {
		toks, err := tokenize("def f(\n    a,\n) -> int:\n    pass\n")
		require.NoError(t, err)

		assert.Equal(t, []tokenKind{
			tokName, tokName, tokOp, tokName, tokOp, tokOp, tokOp, tokName, tokOp, tokNewline,
			tokIndent, tokName, tokNewline,
			tokDedent, tokEOF,
		}, kinds(toks))
	})

	t.Run("indented bracket continuation inside a block", func(t *testing.T) {
		toks, err := tokenize("class A:\n    def f(\n        self,\n    ) -> int:\n        pass\n")
		require.NoError(t, err)

		counts := map[tokenKind]int{}
		for _, k := range kinds(toks) {
			counts[k]++
		}
		assert.Equal(t, 2, counts[tokIndent])
		assert.Equal(t, 2, counts[tokDedent])
		assert.Equal(t, 3, counts[tokNewline])
	})

	t.Run("joins explicit continuation lines", func(t *testing.T) {
		toks, err := tokenize("x = 1 + \\\n    2\n")
		require.NoError(t, err)

		assert.Equal(t, []tokenKind{tokName, tokOp, tokNumber, tokOp, tokNumber, tokNewline, tokEOF}, kinds(toks))
	})

	t.Run("keeps string literals whole", func(t *testing.T) {
		toks, err := tokenize("s = rb'a\\'b' + \"\"\"multi\nline\"\"\"\n")
		require.NoError(t, err)

		require.Len(t, toks, 7)
		assert.Equal(t, `rb'a\'b'`, toks[2].text)
		assert.Equal(t, tokString, toks[4].kind)
		assert.Equal(t, "\"\"\"multi\nline\"\"\"", toks[4].text)
		assert.Equal(t, 1, toks[4].line)
	})

	t.Run("names that look like prefixes are names", func(t *testing.T) {
		toks, err := tokenize("rb = bar\n")
		require.NoError(t, err)

		assert.Equal(t, "rb", toks[0].text)
		assert.Equal(t, tokName, toks[0].kind)
	})

	t.Run("greedy operators", func(t *testing.T) {
		toks, err := tokenize("def f(**kw) -> None: ...\n")
		require.NoError(t, err)

		assert.Equal(t, "**", toks[3].text)
		assert.Equal(t, "->", toks[6].text)
		assert.Equal(t, "...", toks[9].text)
	})

	t.Run("unknown characters are invalid tokens", func(t *testing.T) {
		toks, err := tokenize("x = $\n")
		require.NoError(t, err)

		assert.Equal(t, tokInvalid, toks[2].kind)
	})

	t.Run("tracks line numbers", func(t *testing.T) {
		toks, err := tokenize("a\n\n\nb\n")
		require.NoError(t, err)

		assert.Equal(t, 1, toks[0].line)
		assert.Equal(t, 4, toks[2].line)
	})

	t.Run("closes open blocks at end of file", func(t *testing.T) {
		toks, err := tokenize("class A:\n    def f(self):\n        pass")
		require.NoError(t, err)

		tail := kinds(toks[len(toks)-4:])
		assert.Equal(t, []tokenKind{tokNewline, tokDedent, tokDedent, tokEOF}, tail)
	})
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"unterminated single quote", "x = 'abc\n", 1, "unterminated string literal"},
		{"unterminated triple quote", "x = 1\ny = '''abc\n\n", 2, "unterminated triple-quoted string literal"},
		{"unmatched closer", "x = ]\n", 1, "unmatched ']'"},
		{"never closed", "x = {\n'a': 1\n", 1, "'{' was never closed"},
		{"bad dedent", "if x:\n    a\n  b\n", 3, "unindent does not match any outer indentation level"},
		{"leading indent", "    x\n", 1, "unexpected indent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokenize(tt.src)
			require.Error(t, err)

			se, ok := err.(*syntaxError)
			require.True(t, ok)
			assert.Equal(t, tt.line, se.line)
			assert.Equal(t, tt.msg, se.msg)
		})
	}
}
