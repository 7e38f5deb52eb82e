package mcp

import (
	"context"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driving"
)

// mockGenerator is a mock implementation of driving.Generator.
type mockGenerator struct {
	report     *domain.RunReport
	err        error
	content    string
	record     *domain.ModuleRecord
	renderErr  error
	rendered   []string
	modules    []driving.ModuleInfo
	modulesErr error
}

func (m *mockGenerator) Generate(_ context.Context) (*domain.RunReport, error) {
	return m.report, m.err
}

func (m *mockGenerator) RenderFile(_ context.Context, path string) (string, *domain.ModuleRecord, error) {
	m.rendered = append(m.rendered, path)
	if m.renderErr != nil {
		return "", nil, m.renderErr
	}
	return m.content, m.record, nil
}

func (m *mockGenerator) Modules(_ context.Context) ([]driving.ModuleInfo, error) {
	return m.modules, m.modulesErr
}

// mockChecker is a mock implementation of driving.Checker.
type mockChecker struct {
	report *domain.CheckReport
	err    error
}

func (m *mockChecker) Check(_ context.Context) (*domain.CheckReport, error) {
	return m.report, m.err
}

// mockSecrets is a mock implementation of driving.SecretScanService.
type mockSecrets struct {
	tree    []domain.Finding
	treeErr error
	content []domain.Finding
	scanned string
}

func (m *mockSecrets) ScanTree(_ context.Context) ([]domain.Finding, error) {
	return m.tree, m.treeErr
}

func (m *mockSecrets) ScanContent(content []byte, _ string) []domain.Finding {
	m.scanned = string(content)
	return m.content
}
