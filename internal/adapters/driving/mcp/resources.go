package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme     = "docgen://"
	modulesURI    = uriScheme + "modules"
	modulesPrefix = modulesURI + "/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         modulesURI,
		Name:        "modules",
		Description: "Every Python module found under the source root with its document path",
		MIMEType:    "application/json",
	}, s.handleModulesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: modulesPrefix + "{module}",
		Name:        "module-document",
		Description: "Rendered Markdown document of a module, e.g. docgen://modules/pkg.utils",
		MIMEType:    "text/markdown",
	}, s.handleModuleDocumentResource)
}

// handleModulesResource lists the discovered modules.
func (s *Server) handleModulesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	modules, err := s.ports.Generator.Modules(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}

	type moduleInfo struct {
		Module   string `json:"module"`
		Source   string `json:"source"`
		Document string `json:"document"`
		URI      string `json:"uri"`
	}

	infos := make([]moduleInfo, len(modules))
	for i, m := range modules {
		infos[i] = moduleInfo{
			Module:   m.Module,
			Source:   m.SourcePath,
			Document: m.DocPath,
			URI:      modulesPrefix + m.Module,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling modules: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleModuleDocumentResource renders one module by dotted name.
func (s *Server) handleModuleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractModuleName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	modules, err := s.ports.Generator.Modules(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}

	for _, m := range modules {
		if m.Module != name {
			continue
		}
		content, _, err := s.ports.Generator.RenderFile(ctx, m.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", m.SourcePath, err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractModuleName returns the module of a URI like docgen://modules/{module}.
func extractModuleName(uri string) string {
	if !strings.HasPrefix(uri, modulesPrefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, modulesPrefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
