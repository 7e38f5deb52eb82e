package domain

import (
	"fmt"
	"path"
	"strings"
)

// ModuleRecord is everything extracted from one source file in one run.
// Records are produced fresh each run and never merged with earlier ones.
type ModuleRecord struct {
	// Name is the dotted module name, e.g. "pkg.utils".
	Name string

	// Path is the source path relative to the source root, slash separated.
	Path string

	// Documentation is the module docstring, nil when absent.
	Documentation *DocumentationBlock

	// Functions are the top-level functions in source order.
	Functions []*Declaration

	// Classes are the top-level classes in source order.
	Classes []*ClassDeclaration

	// Warnings raised while extracting this module.
	Warnings []DeclarationWarning
}

// DeclarationCount returns the number of functions plus methods.
func (m *ModuleRecord) DeclarationCount() int {
	n := len(m.Functions)
	for _, c := range m.Classes {
		n += len(c.Methods)
	}
	return n
}

// Function returns the top-level function with the given name.
func (m *ModuleRecord) Function(name string) (*Declaration, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Class returns the class with the given name.
func (m *ModuleRecord) Class(name string) (*ClassDeclaration, bool) {
	for _, c := range m.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// SourceExt is the extension of documented source files.
const SourceExt = ".py"

// ModuleName converts a slash-separated path relative to the source root
// into a dotted module name: "pkg/sub/mod.py" becomes "pkg.sub.mod".
func ModuleName(relPath string) string {
	relPath = strings.TrimPrefix(path.Clean(relPath), "./")
	return strings.ReplaceAll(strings.TrimSuffix(relPath, SourceExt), "/", ".")
}

// DocPath returns the output document path for a dotted module name,
// relative to the documentation root: "pkg.sub.mod" -> "pkg/sub/mod.md".
func DocPath(module string) string {
	return path.Join(strings.Split(module, ".")...) + ".md"
}

// DeclarationWarning records incomplete or suspicious metadata for a single
// declaration. Warnings never abort extraction.
type DeclarationWarning struct {
	// Declaration is the qualified name ("Class.method") or "<module>".
	Declaration string

	// Line is the 1-based source line, 0 when unknown.
	Line int

	// Message describes the problem.
	Message string
}

// String formats the warning for summaries.
func (w DeclarationWarning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", w.Line, w.Declaration, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Declaration, w.Message)
}
