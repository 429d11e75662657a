package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockDetector implements driven.ContradictionDetector for testing.
type mockDetector struct {
	mu           sync.Mutex
	availability domain.Availability
	issues       []domain.Issue
	err          error
	prompts      []string
	block        chan struct{}
}

func newMockDetector(issues ...domain.Issue) *mockDetector {
	return &mockDetector{availability: domain.Available(), issues: issues}
}

func (m *mockDetector) Availability(_ context.Context) domain.Availability {
	return m.availability
}

func (m *mockDetector) Detect(ctx context.Context, prompt string) ([]domain.Issue, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.issues, nil
}

func (m *mockDetector) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockLoader implements driven.FileLoader over an in-memory file map.
type mockLoader struct {
	files map[string]string
}

func (m *mockLoader) Load(_ context.Context, path string) (*domain.RawDocument, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return &domain.RawDocument{URI: path, MIMEType: "text/plain", Content: []byte(content)}, nil
}

// mockNormalisers implements driven.NormaliserRegistry for plain text.
type mockNormalisers struct{}

func (mockNormalisers) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw.MIMEType != "text/plain" {
		return nil, domain.ErrUnsupportedType
	}
	return &driven.NormaliseResult{Document: domain.Document{
		ID:      "id-" + filepath.Base(raw.URI),
		Title:   filepath.Base(raw.URI),
		Content: string(raw.Content),
		URI:     raw.URI,
	}}, nil
}

func (mockNormalisers) Register(driven.Normaliser) {}

func (mockNormalisers) SupportedMIMETypes() []string { return []string{"text/plain"} }

// mockWriter implements driven.ReportWriter in memory.
type mockWriter struct {
	name string
	data []byte
	err  error
}

func (m *mockWriter) Write(_ context.Context, name string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.name = name
	m.data = data
	return "/reports/" + name, nil
}
