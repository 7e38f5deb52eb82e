// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SourceTree: Discovers and reads Python source files
//   - SourceScanner: Extracts a ModuleRecord from source text
//   - DocRenderer: Renders module and index documents
//   - DocStore: Reads and writes generated documents
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocInspector: Reads links and front matter back from documents. Without it,
//     check skips orphan and broken-link detection.
//   - SecretScanner: Pattern scan of source text. Without it, secret scanning is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or renderer package
package driven
