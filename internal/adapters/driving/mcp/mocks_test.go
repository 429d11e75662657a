package mcp

import (
	"context"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// mockCheckService is a mock implementation of driving.CheckService.
type mockCheckService struct {
	docs     []domain.Document
	capacity int
	issues   []domain.Issue
	state    domain.CheckState
	runErr   error
	runs     int
	located  int
	cleared  bool

	// onRun, when set, replaces the default run behaviour.
	onRun func(m *mockCheckService)
}

func newMockCheckService(docs ...domain.Document) *mockCheckService {
	return &mockCheckService{docs: docs, capacity: 3, state: domain.IdleState()}
}

func (m *mockCheckService) AddDocument(doc domain.Document) bool {
	if len(m.docs) >= m.capacity {
		return false
	}
	m.docs = append(m.docs, doc)
	return true
}

func (m *mockCheckService) RemoveDocument(id string) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return
		}
	}
}

func (m *mockCheckService) Documents() []domain.Document {
	out := make([]domain.Document, len(m.docs))
	copy(out, m.docs)
	return out
}

func (m *mockCheckService) RemainingSlots() int {
	return m.capacity - len(m.docs)
}

func (m *mockCheckService) Run(_ context.Context) error {
	m.runs++
	if m.runErr != nil {
		return m.runErr
	}
	if m.onRun != nil {
		m.onRun(m)
		return nil
	}
	m.state = domain.CompletedState()
	return nil
}

func (m *mockCheckService) Issues() []domain.Issue { return m.issues }

func (m *mockCheckService) State() domain.CheckState { return m.state }

func (m *mockCheckService) Chunks() string { return "" }

func (m *mockCheckService) Locate(_, _ string) int { return m.located }

func (m *mockCheckService) Clear() {
	m.docs = nil
	m.issues = nil
	m.state = domain.IdleState()
	m.cleared = true
}

// mockImportService is a mock implementation of driving.ImportService.
type mockImportService struct {
	result *driving.ImportResult
	err    error
	paths  []string
}

func (m *mockImportService) ImportFiles(_ context.Context, paths []string) (*driving.ImportResult, error) {
	m.paths = paths
	return m.result, m.err
}

func (m *mockImportService) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	text   string
	path   string
	err    error
	format domain.ExportFormat
}

func (m *mockReportService) Format(format domain.ExportFormat) (string, error) {
	m.format = format
	return m.text, m.err
}

func (m *mockReportService) Export(_ context.Context, format domain.ExportFormat) (string, error) {
	m.format = format
	return m.path, m.err
}
