// Package domain defines the core entities for docgen.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ModuleRecord: Everything extracted from one Python source file
//   - Declaration: A documented function or method signature
//   - ClassDeclaration: A class and its methods
//   - DocumentationBlock: The structured content of a docstring
//   - RunReport: The outcome of one generation run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
