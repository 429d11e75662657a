package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contextguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/postprocessors"
	"github.com/custodia-labs/contextguard/internal/postprocessors/chunker"
	"github.com/custodia-labs/contextguard/internal/postprocessors/citation"
)

func newTestCheckService(detector *mockDetector, opts ...chunker.Option) (*CheckService, *memory.DocumentStore) {
	store := memory.NewDocumentStore(3)
	pipeline := postprocessors.NewPipeline(chunker.New(opts...))
	var d *CheckService
	if detector == nil {
		d = NewCheckService(store, pipeline, nil, citation.NewLocator(0))
	} else {
		d = NewCheckService(store, pipeline, detector, citation.NewLocator(0))
	}
	return d, store
}

func tripDocs() []domain.Document {
	return []domain.Document{
		{ID: "1", Title: "Trip.txt", Content: "Field trip\nWe will visit the Science Museum.\nLunch is provided."},
		{ID: "2", Title: "Update.txt", Content: "Update\nWe will visit the Natural History Museum."},
	}
}

func TestNewCheckService_StartsIdle(t *testing.T) {
	service, _ := newTestCheckService(newMockDetector())

	assert.Equal(t, domain.IdleState(), service.State())
	assert.Nil(t, service.Issues())
	assert.Equal(t, 3, service.RemainingSlots())
}

func TestCheckService_AddDocument_RespectsCapacity(t *testing.T) {
	service, _ := newTestCheckService(newMockDetector())

	for i := 0; i < 3; i++ {
		assert.True(t, service.AddDocument(domain.Document{ID: fmt.Sprint(i), Title: "T"}))
	}
	assert.False(t, service.AddDocument(domain.Document{ID: "x", Title: "T"}))
	assert.Len(t, service.Documents(), 3)
	assert.Equal(t, 0, service.RemainingSlots())
}

func TestCheckService_Run_NoDocumentsIsNoop(t *testing.T) {
	detector := newMockDetector()
	service, _ := newTestCheckService(detector)

	require.NoError(t, service.Run(context.Background()))
	assert.Equal(t, domain.IdleState(), service.State())
	assert.Empty(t, detector.prompts)
}

func TestCheckService_Run_ResolvesParagraphs(t *testing.T) {
	detector := newMockDetector(domain.Issue{
		Severity:       domain.SeverityHigh,
		Rationale:      "Different museums",
		SourceText:     "Science Museum",
		SourceDocument: "Trip.txt",
		TargetText:     "Natural History Museum",
		TargetDocument: "Update.txt",
		SuggestedFix:   "Confirm the destination",
	})
	service, _ := newTestCheckService(detector)
	for _, d := range tripDocs() {
		service.AddDocument(d)
	}

	require.NoError(t, service.Run(context.Background()))

	assert.Equal(t, domain.CompletedState(), service.State())
	issues := service.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].SourceParagraph)
	assert.Equal(t, 2, issues[0].TargetParagraph)

	expectedPrompt := "[Trip.txt §1] Field trip\n" +
		"[Trip.txt §2] We will visit the Science Museum.\n" +
		"[Trip.txt §3] Lunch is provided.\n" +
		"[Update.txt §1] Update\n" +
		"[Update.txt §2] We will visit the Natural History Museum."
	assert.Equal(t, expectedPrompt, detector.lastPrompt())
}

func TestCheckService_Run_KeepsPrefilledParagraphs(t *testing.T) {
	detector := newMockDetector(domain.Issue{
		SourceText: "Science Museum", SourceDocument: "Trip.txt", SourceParagraph: 9,
		TargetText: "Natural History", TargetDocument: "Update.txt",
	})
	service, _ := newTestCheckService(detector)
	for _, d := range tripDocs() {
		service.AddDocument(d)
	}

	require.NoError(t, service.Run(context.Background()))

	issues := service.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, 9, issues[0].SourceParagraph)
	assert.Equal(t, 2, issues[0].TargetParagraph)
}

func TestCheckService_Run_NoIssues(t *testing.T) {
	service, _ := newTestCheckService(newMockDetector())
	service.AddDocument(tripDocs()[0])

	require.NoError(t, service.Run(context.Background()))

	assert.Equal(t, domain.CheckCompleted, service.State().Status)
	assert.NotNil(t, service.Issues())
	assert.Empty(t, service.Issues())
}

func TestCheckService_Run_ReplacesPreviousIssues(t *testing.T) {
	detector := newMockDetector(domain.Issue{Rationale: "first"}, domain.Issue{Rationale: "second"})
	service, _ := newTestCheckService(detector)
	service.AddDocument(tripDocs()[0])

	require.NoError(t, service.Run(context.Background()))
	require.Len(t, service.Issues(), 2)

	detector.issues = []domain.Issue{{Rationale: "only"}}
	require.NoError(t, service.Run(context.Background()))

	issues := service.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, "only", issues[0].Rationale)
}

func TestCheckService_Run_Unavailable(t *testing.T) {
	tests := []struct {
		name     string
		reason   domain.UnavailableReason
		expected string
	}{
		{"feature disabled", domain.ReasonFeatureDisabled, domain.MsgFeatureDisabled},
		{"device ineligible", domain.ReasonDeviceIneligible, domain.MsgDeviceIneligible},
		{"model not ready", domain.ReasonModelNotReady, domain.MsgModelNotReady},
		{"unknown", domain.ReasonUnknown, domain.MsgModelUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := newMockDetector()
			detector.availability = domain.Unavailable(tt.reason, "")
			service, _ := newTestCheckService(detector)
			service.AddDocument(tripDocs()[0])

			require.NoError(t, service.Run(context.Background()))

			assert.Equal(t, domain.FailedState(tt.expected), service.State())
			assert.Empty(t, detector.prompts)
			assert.Nil(t, service.Issues())
		})
	}
}

func TestCheckService_Run_NilDetector(t *testing.T) {
	service, _ := newTestCheckService(nil)
	service.AddDocument(tripDocs()[0])

	require.NoError(t, service.Run(context.Background()))
	assert.Equal(t, domain.FailedState(domain.MsgModelUnavailable), service.State())
}

func TestCheckService_Run_DetectErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"context window", fmt.Errorf("openai: %w", domain.ErrContextWindowExceeded), domain.MsgContextWindowExceeded},
		{"guardrail", domain.ErrGuardrailViolation, domain.MsgGuardrailViolation},
		{"generation", domain.ErrGenerationFailed, "Analysis failed: generation failed"},
		{"unexpected", errors.New("socket closed"), "Unexpected error: socket closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := newMockDetector()
			detector.err = tt.err
			service, _ := newTestCheckService(detector)
			service.AddDocument(tripDocs()[0])

			require.NoError(t, service.Run(context.Background()))
			assert.Equal(t, domain.FailedState(tt.expected), service.State())
		})
	}
}

func TestCheckService_Run_Cancelled(t *testing.T) {
	detector := newMockDetector()
	detector.block = make(chan struct{})
	service, _ := newTestCheckService(detector)
	service.AddDocument(tripDocs()[0])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := service.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, service.State().IsFailed())
}

func TestCheckService_Run_RejectsConcurrentRun(t *testing.T) {
	detector := newMockDetector()
	detector.block = make(chan struct{})
	service, _ := newTestCheckService(detector)
	service.AddDocument(tripDocs()[0])

	done := make(chan error, 1)
	go func() { done <- service.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return service.State().Status == domain.CheckAnalyzing
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, service.Run(context.Background()), domain.ErrCheckInProgress)

	close(detector.block)
	require.NoError(t, <-done)
	assert.Equal(t, domain.CheckCompleted, service.State().Status)
}

func TestCheckService_Clear_DuringRunDiscardsResult(t *testing.T) {
	detector := newMockDetector(domain.Issue{Rationale: "late"})
	detector.block = make(chan struct{})
	service, _ := newTestCheckService(detector)
	service.AddDocument(tripDocs()[0])

	done := make(chan error, 1)
	go func() { done <- service.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return service.State().Status == domain.CheckAnalyzing
	}, time.Second, 5*time.Millisecond)

	service.Clear()
	close(detector.block)
	require.NoError(t, <-done)

	assert.Equal(t, domain.IdleState(), service.State())
	assert.Nil(t, service.Issues())
	assert.Empty(t, service.Documents())
}

func TestCheckService_Clear(t *testing.T) {
	service, store := newTestCheckService(newMockDetector(domain.Issue{Rationale: "x"}))
	service.AddDocument(tripDocs()[0])
	require.NoError(t, service.Run(context.Background()))

	service.Clear()

	assert.Equal(t, 0, store.Count())
	assert.Nil(t, service.Issues())
	assert.Equal(t, domain.IdleState(), service.State())
}

func TestCheckService_Chunks(t *testing.T) {
	service, _ := newTestCheckService(newMockDetector())
	service.AddDocument(domain.Document{ID: "1", Title: "A", Content: "x\ny"})

	assert.Equal(t, "[A §1] x\n[A §2] y", service.Chunks())
}

func TestCheckService_Chunks_ConfiguredSeparator(t *testing.T) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildPipeline(registry, domain.PipelineConfig{
		Processors:       []string{"paragraph"},
		ProcessorConfigs: map[string]map[string]any{"paragraph": {"separator": "\n\n"}},
	})
	require.NoError(t, err)

	store := memory.NewDocumentStore(3)
	service := NewCheckService(store, pipeline, newMockDetector(), citation.NewLocator(0))
	service.AddDocument(domain.Document{ID: "1", Title: "A", Content: "x\ny"})

	assert.Equal(t, "[A §1] x\n\n[A §2] y", service.Chunks())
}

func TestCheckService_Locate(t *testing.T) {
	service, _ := newTestCheckService(newMockDetector())
	for _, d := range tripDocs() {
		service.AddDocument(d)
	}

	assert.Equal(t, 3, service.Locate("lunch is", "Trip.txt"))
	assert.Equal(t, 0, service.Locate("lunch is", "Missing.txt"))
}

func TestCheckService_RemoveDocument(t *testing.T) {
	service, _ := newTestCheckService(newMockDetector())
	for _, d := range tripDocs() {
		service.AddDocument(d)
	}

	service.RemoveDocument("1")
	docs := service.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "Update.txt", docs[0].Title)
}
