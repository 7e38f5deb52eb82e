package mcp

import (
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Generator renders and writes documentation.
	Generator driving.Generator

	// Checker reports documentation drift. Optional.
	Checker driving.Checker

	// Secrets scans source files for credentials. Optional.
	Secrets driving.SecretScanService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Generator == nil {
		return ErrMissingGenerator
	}
	return nil
}
