package python

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
)

const calculatorSource = `"""Basic arithmetic helpers."""


def add(a: float, b: float) -> float:
    """Add two numbers.

    Args:
        a (float): First number
        b (float): Second number

    Returns:
        float: The sum of a and b

    Example:
        >>> add(2, 3)
        5.0
    """
    return a + b


class Calculator:
    """Stateful calculator."""

    def __init__(self, precision: int = 2):
        self.precision = precision

    def calculate(self, op: str, *args: float, **kwargs) -> float:
        """Run an operation.

        Args:
            op: Operation name
            *args: Operands

        Raises:
            ValueError: If op is unknown
        """
        return 0.0

    @staticmethod
    def version() -> str:
        return "1.0"

    def _reset(self):
        pass


def _helper():
    pass
`

const utilsSource = `import os
from typing import Optional

VERSION = "1.0"

if os.name == "nt":
    def platform_only():
        pass


async def fetch(url: str, *, timeout: float = 1.5) -> Optional[bytes]:
    '''Fetch a URL.'''


def clamp(value, lo=0, hi=10): "Clamp value into range."


@cached
@register(name="slug")
def slugify(text: str, /, sep: str = "-") -> str:
    r"""Slugify C:\path like text."""
    return text
`

func scan(t *testing.T, src string, opts driven.ScanOptions) *domain.ModuleRecord {
	t.Helper()
	record, err := New().Scan("pkg/mod.py", "pkg.mod", []byte(src), opts)
	require.NoError(t, err)
	require.NotNil(t, record)
	return record
}

func function(t *testing.T, record *domain.ModuleRecord, name string) *domain.Declaration {
	t.Helper()
	d, ok := record.Function(name)
	require.True(t, ok, "function %s not found", name)
	return d
}

func class(t *testing.T, record *domain.ModuleRecord, name string) *domain.ClassDeclaration {
	t.Helper()
	c, ok := record.Class(name)
	require.True(t, ok, "class %s not found", name)
	return c
}

func TestNew(t *testing.T) {
	t.Run("implements SourceScanner interface", func(t *testing.T) {
		var _ driven.SourceScanner = New()
	})
}

func TestExtractor_Scan_Calculator(t *testing.T) {
	record := scan(t, calculatorSource, driven.ScanOptions{})

	t.Run("records module identity", func(t *testing.T) {
		assert.Equal(t, "pkg.mod", record.Name)
		assert.Equal(t, "pkg/mod.py", record.Path)
		require.NotNil(t, record.Documentation)
		assert.Equal(t, "Basic arithmetic helpers.", record.Documentation.Summary)
	})

	t.Run("extracts public top-level functions only", func(t *testing.T) {
		require.Len(t, record.Functions, 1)
		assert.Equal(t, "add", record.Functions[0].Name)
		_, ok := record.Function("_helper")
		assert.False(t, ok)
	})

	t.Run("extracts add signature", func(t *testing.T) {
		add := function(t, record, "add")
		require.NotNil(t, add)
		assert.Equal(t, domain.KindFunction, add.Kind)
		assert.Equal(t, "float", add.ReturnType)
		assert.Equal(t, 4, add.Line)
		assert.False(t, add.Partial)
		require.Len(t, add.Parameters, 2)
		assert.Equal(t, domain.Parameter{Name: "a", Type: "float", Kind: domain.ParamPositional}, add.Parameters[0])
		assert.Equal(t, domain.Parameter{Name: "b", Type: "float", Kind: domain.ParamPositional}, add.Parameters[1])
	})

	t.Run("parses add docstring", func(t *testing.T) {
		doc := function(t, record, "add").Documentation
		require.NotNil(t, doc)
		assert.Equal(t, "Add two numbers.", doc.Summary)
		assert.Equal(t, []domain.ArgumentDoc{
			{Name: "a", Type: "float", Description: "First number"},
			{Name: "b", Type: "float", Description: "Second number"},
		}, doc.Arguments)
		assert.Equal(t, &domain.ReturnDoc{Type: "float", Description: "The sum of a and b"}, doc.Returns)
		assert.Equal(t, []domain.ExampleDoc{{Input: "add(2, 3)", Output: "5.0"}}, doc.Examples)
	})

	t.Run("groups methods under their class", func(t *testing.T) {
		require.Len(t, record.Classes, 1)
		cls := class(t, record, "Calculator")
		require.NotNil(t, cls)
		assert.Equal(t, "Stateful calculator.", cls.Documentation.Summary)

		names := make([]string, 0, len(cls.Methods))
		for _, m := range cls.Methods {
			names = append(names, m.Name)
			assert.Equal(t, domain.KindMethod, m.Kind)
			assert.Equal(t, "Calculator", m.Class)
		}
		assert.Equal(t, []string{"calculate", "version"}, names)
	})

	t.Run("flags receiver of instance methods", func(t *testing.T) {
		calc := class(t, record, "Calculator").Methods[0]
		require.Len(t, calc.Parameters, 4)
		assert.True(t, calc.Parameters[0].Receiver)
		assert.Equal(t, "self", calc.Parameters[0].Name)
		assert.Equal(t, domain.ParamVarPositional, calc.Parameters[2].Kind)
		assert.Equal(t, "args", calc.Parameters[2].Name)
		assert.Equal(t, domain.ParamVarKeyword, calc.Parameters[3].Kind)
		assert.Equal(t, "Calculator.calculate", calc.QualifiedName())

		require.NotNil(t, calc.Documentation)
		assert.Equal(t, []domain.RaiseDoc{{Kind: "ValueError", Condition: "If op is unknown"}}, calc.Documentation.Raises)
	})

	t.Run("static methods have no receiver", func(t *testing.T) {
		version := class(t, record, "Calculator").Methods[1]
		assert.Equal(t, []string{"staticmethod"}, version.Decorators)
		assert.Empty(t, version.Parameters)
		assert.Nil(t, version.Documentation)
	})

	t.Run("raises no warnings for a well formed file", func(t *testing.T) {
		assert.Empty(t, record.Warnings)
	})
}

func TestExtractor_Scan_IncludePrivate(t *testing.T) {
	record := scan(t, calculatorSource, driven.ScanOptions{IncludePrivate: true})

	_, ok := record.Function("_helper")
	assert.True(t, ok)
	names := make([]string, 0)
	for _, m := range class(t, record, "Calculator").Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"__init__", "calculate", "version", "_reset"}, names)

	ctor := class(t, record, "Calculator").Methods[0]
	require.Len(t, ctor.Parameters, 2)
	assert.Equal(t, "2", ctor.Parameters[1].Default)
	assert.Equal(t, "int", ctor.Parameters[1].Type)
}

func TestExtractor_Scan_Utils(t *testing.T) {
	record := scan(t, utilsSource, driven.ScanOptions{})

	t.Run("skips nested and non-declaration statements", func(t *testing.T) {
		names := make([]string, 0)
		for _, f := range record.Functions {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"fetch", "clamp", "slugify"}, names)
		assert.Nil(t, record.Documentation)
	})

	t.Run("handles async and keyword-only marker", func(t *testing.T) {
		fetch := function(t, record, "fetch")
		require.NotNil(t, fetch)
		assert.True(t, fetch.Async)
		assert.Equal(t, "Optional[bytes]", fetch.ReturnType)
		require.Len(t, fetch.Parameters, 3)
		assert.Equal(t, domain.ParamKeywordOnlyMarker, fetch.Parameters[1].Kind)
		assert.Equal(t, "1.5", fetch.Parameters[2].Default)
		assert.Equal(t, "Fetch a URL.", fetch.Documentation.Summary)
	})

	t.Run("reads one-line body docstring", func(t *testing.T) {
		clamp := function(t, record, "clamp")
		require.NotNil(t, clamp)
		require.NotNil(t, clamp.Documentation)
		assert.Equal(t, "Clamp value into range.", clamp.Documentation.Summary)
		assert.Equal(t, "0", clamp.Parameters[1].Default)
		assert.Equal(t, "", clamp.Parameters[1].Type)
	})

	t.Run("keeps decorators and raw docstrings verbatim", func(t *testing.T) {
		slug := function(t, record, "slugify")
		require.NotNil(t, slug)
		assert.Equal(t, []string{"cached", `register(name="slug")`}, slug.Decorators)
		assert.Equal(t, domain.ParamPositionalOnlyMarker, slug.Parameters[1].Kind)
		assert.Equal(t, `"-"`, slug.Parameters[2].Default)
		assert.Equal(t, `Slugify C:\path like text.`, slug.Documentation.Summary)
		assert.Equal(t, 20, slug.Line)
	})
}

func TestExtractor_Scan_MalformedDeclaration(t *testing.T) {
	src := `def first(a):
    """First."""


def broken(a, , b):
    """Broken."""


def second(b):
    """Second."""
`
	record := scan(t, src, driven.ScanOptions{})

	require.Len(t, record.Functions, 3)
	assert.False(t, record.Functions[0].Partial)
	assert.True(t, record.Functions[1].Partial)
	assert.False(t, record.Functions[2].Partial)
	assert.Equal(t, "Broken.", record.Functions[1].Documentation.Summary)

	require.Len(t, record.Warnings, 1)
	assert.Equal(t, "broken", record.Warnings[0].Declaration)
	assert.Equal(t, 5, record.Warnings[0].Line)
	assert.Contains(t, record.Warnings[0].Message, "empty parameter slot")
}

func TestExtractor_Scan_MultiLineHeaders(t *testing.T) {
	t.Run("top-level parameter list", func(t *testing.T) {
		src := `def add(
    a: float,
    b: float = 1.0,
) -> float:
    """Add."""
    return a + b


def sub(a, b):
    """Subtract."""
`
		record := scan(t, src, driven.ScanOptions{})

		assert.Empty(t, record.Warnings)
		require.Len(t, record.Functions, 2)
		add := function(t, record, "add")
		assert.Equal(t, "float", add.ReturnType)
		require.Len(t, add.Parameters, 2)
		assert.Equal(t, "1.0", add.Parameters[1].Default)
		assert.False(t, add.Partial)
		sub := function(t, record, "sub")
		assert.Equal(t, 9, sub.Line)
	})

	t.Run("method parameter list", func(t *testing.T) {
		src := `class Shape:
    def area(
        self,
        scale: int = 1,
    ) -> int:
        """Area."""
        return 0

    def name(self) -> str:
        return ""


def after():
    pass
`
		record := scan(t, src, driven.ScanOptions{})

		assert.Empty(t, record.Warnings)
		shape := class(t, record, "Shape")
		require.Len(t, shape.Methods, 2)
		assert.Equal(t, "area", shape.Methods[0].Name)
		assert.Equal(t, "int", shape.Methods[0].ReturnType)
		assert.Equal(t, "Area.", shape.Methods[0].Documentation.Summary)
		assert.Equal(t, "name", shape.Methods[1].Name)
		function(t, record, "after")
	})

	t.Run("decorator arguments", func(t *testing.T) {
		src := `@register(
    name="x",
)
def f():
    """F."""


def g():
    pass
`
		record := scan(t, src, driven.ScanOptions{})

		assert.Empty(t, record.Warnings)
		require.Len(t, record.Functions, 2)
		f := function(t, record, "f")
		assert.Equal(t, []string{`register(name="x",)`}, f.Decorators)
		assert.Equal(t, 4, f.Line)
		assert.Equal(t, "F.", f.Documentation.Summary)
		function(t, record, "g")
	})
}

func TestExtractor_Scan_UnrecoverableName(t *testing.T) {
	src := `def ok():
    pass


def (a):
    pass
`
	record := scan(t, src, driven.ScanOptions{})

	require.Len(t, record.Functions, 1)
	assert.Equal(t, "ok", record.Functions[0].Name)
	require.Len(t, record.Warnings, 1)
	assert.Equal(t, "<unnamed>", record.Warnings[0].Declaration)
	assert.Contains(t, record.Warnings[0].Message, "missing function name")
}

func TestExtractor_Scan_DeclarationWarnings(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"invalid parameter", "def f(1a):\n    pass\n", "invalid parameter"},
		{"missing default", "def f(a=):\n    pass\n", `missing default value for parameter "a"`},
		{"missing annotation", "def f(a: ):\n    pass\n", `missing annotation for parameter "a"`},
		{"unparseable default", "def f(a=$$):\n    pass\n", "cannot interpret default value"},
		{"duplicate parameter", "def f(a, a):\n    pass\n", `duplicate parameter "a"`},
		{"non-default after default", "def f(a=1, b):\n    pass\n", `non-default parameter "b" follows default parameter`},
		{"missing colon", "def f(a)\n    pass\n", "missing ':' after function header"},
		{"empty return annotation", "def f(a) -> :\n    pass\n", "missing return annotation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := scan(t, tt.src, driven.ScanOptions{})

			require.Len(t, record.Functions, 1)
			assert.True(t, record.Functions[0].Partial)
			require.Len(t, record.Warnings, 1)
			assert.Equal(t, "f", record.Warnings[0].Declaration)
			assert.Contains(t, record.Warnings[0].Message, tt.message)
		})
	}
}

func TestExtractor_Scan_DocumentedArgumentNotInSignature(t *testing.T) {
	src := `class Greeter:
    """Greets people.

    Args:
        name: Who to greet
        loud: Shout
    """

    def __init__(self, name):
        self.name = name

    def greet(self, punctuation="!"):
        """Say hello.

        Args:
            self: The greeter
            punctuation: Trailing mark
            times: Repeat count
        """
`
	record := scan(t, src, driven.ScanOptions{})

	require.Len(t, record.Warnings, 3)
	assert.Equal(t, "Greeter", record.Warnings[0].Declaration)
	assert.Contains(t, record.Warnings[0].Message, `"loud"`)
	assert.Equal(t, "Greeter.greet", record.Warnings[1].Declaration)
	assert.Contains(t, record.Warnings[1].Message, `"self"`)
	assert.Equal(t, "Greeter.greet", record.Warnings[2].Declaration)
	assert.Contains(t, record.Warnings[2].Message, `"times"`)
}

func TestExtractor_Scan_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"unterminated string", "x = 1\ny = \"abc\n", 2, "unterminated string literal"},
		{"unterminated docstring", "def f():\n    \"\"\"never closed\n", 2, "unterminated triple-quoted string literal"},
		{"unclosed bracket", "x = (1,\n     2\n", 1, "'(' was never closed"},
		{"unmatched bracket", "x = 1)\n", 1, "unmatched ')'"},
		{"mismatched bracket", "x = [1, 2)\n", 1, "does not match opening parenthesis '['"},
		{"inconsistent dedent", "def f():\n        a = 1\n    b = 2\n", 3, "unindent does not match"},
		{"indented first statement", "  x = 1\n", 1, "unexpected indent"},
		{"unexpected indent", "x = 1\n    y = 2\n", 2, "unexpected indent"},
		{"missing block", "def f():\nreturn 1\n", 1, "expected an indented block"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := New().Scan("bad.py", "bad", []byte(tt.src), driven.ScanOptions{})

			require.Error(t, err)
			assert.Nil(t, record)
			assert.True(t, errors.Is(err, domain.ErrParse))

			var parseErr *domain.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "bad.py", parseErr.Path)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Contains(t, parseErr.Msg, tt.msg)
		})
	}
}

func TestExtractor_Scan_InvalidUTF8(t *testing.T) {
	_, err := New().Scan("bin.py", "bin", []byte{0xff, 0xfe, 0x00}, driven.ScanOptions{})

	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestExtractor_Scan_EmptyFile(t *testing.T) {
	record := scan(t, "", driven.ScanOptions{})

	assert.Empty(t, record.Functions)
	assert.Empty(t, record.Classes)
	assert.Nil(t, record.Documentation)
	assert.Empty(t, record.Warnings)
}

func TestExtractor_Scan_Deterministic(t *testing.T) {
	first := scan(t, calculatorSource, driven.ScanOptions{})
	second := scan(t, calculatorSource, driven.ScanOptions{})

	assert.Equal(t, first, second)
}

func TestExtractor_Scan_CRLF(t *testing.T) {
	src := "def f(a):\r\n    \"\"\"Doc.\r\n\r\n    Returns:\r\n        int: One\r\n    \"\"\"\r\n"
	record := scan(t, src, driven.ScanOptions{})

	require.Len(t, record.Functions, 1)
	doc := record.Functions[0].Documentation
	require.NotNil(t, doc)
	assert.Equal(t, "Doc.", doc.Summary)
	assert.Equal(t, &domain.ReturnDoc{Type: "int", Description: "One"}, doc.Returns)
}

func TestExtractor_Scan_ByteOrderMark(t *testing.T) {
	record := scan(t, "\uFEFF\"\"\"Module doc.\"\"\"\n\ndef f():\n    pass\n", driven.ScanOptions{})

	require.NotNil(t, record.Documentation)
	assert.Equal(t, "Module doc.", record.Documentation.Summary)
	require.Len(t, record.Functions, 1)
	assert.Equal(t, 3, record.Functions[0].Line)
	assert.Empty(t, record.Warnings)
}
