// Package driving defines the interfaces the CLI and the MCP server use to
// run docgen. These are the "driving" ports in hexagonal architecture
// terminology.
//
// Implementations of these interfaces live in internal/core/services.
package driving
