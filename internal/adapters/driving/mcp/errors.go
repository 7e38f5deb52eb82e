// Package mcp provides an MCP (Model Context Protocol) server adapter for docgen.
// It lets AI assistants generate, preview and check API documentation and scan
// the source tree for hard-coded credentials.
package mcp

import "errors"

// ErrMissingGenerator is returned when the generator is not provided.
var ErrMissingGenerator = errors.New("mcp: generator is required")

// ErrNoSourcePath is returned when render_module is called without a path.
var ErrNoSourcePath = errors.New("mcp: path is required")
