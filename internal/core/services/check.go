package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
	"github.com/custodia-labs/contextguard/internal/logger"
)

// Ensure CheckService implements the interface.
var _ driving.CheckService = (*CheckService)(nil)

// CheckService runs consistency checks over the documents of one session.
//
// State moves Idle -> Analyzing -> Completed or Failed. Each run replaces
// the previous issue list entirely. Clear returns the session to Idle and
// causes any run still in flight to discard its result.
type CheckService struct {
	store     driven.DocumentStore
	pipeline  driven.PostProcessorPipeline
	detector  driven.ContradictionDetector
	locator   driven.ParagraphLocator

	mu         sync.RWMutex
	issues     []domain.Issue
	state      domain.CheckState
	generation uint64
}

// NewCheckService creates a check service.
// detector may be nil, in which case every run fails as not configured.
func NewCheckService(
	store driven.DocumentStore,
	pipeline driven.PostProcessorPipeline,
	detector driven.ContradictionDetector,
	locator driven.ParagraphLocator,
) *CheckService {
	return &CheckService{
		store:    store,
		pipeline: pipeline,
		detector: detector,
		locator:  locator,
		state:    domain.IdleState(),
	}
}

// AddDocument adds a document to the session. Returns false when full.
func (s *CheckService) AddDocument(doc domain.Document) bool {
	added := s.store.Add(doc)
	if !added {
		logger.Debug("session full, rejected %q", doc.Title)
	}
	return added
}

// RemoveDocument removes a document by ID.
func (s *CheckService) RemoveDocument(id string) {
	s.store.Remove(id)
}

// Documents returns the loaded documents in load order.
func (s *CheckService) Documents() []domain.Document {
	return s.store.List()
}

// RemainingSlots returns how many more documents can be added.
func (s *CheckService) RemainingSlots() int {
	return s.store.RemainingSlots()
}

// Run analyses the loaded documents.
func (s *CheckService) Run(ctx context.Context) error {
	docs := s.store.List()
	if len(docs) == 0 {
		logger.Debug("no documents loaded, nothing to check")
		return nil
	}

	gen, err := s.begin()
	if err != nil {
		return err
	}
	defer logger.Stage("Check")()
	logger.Debug("checking %d document(s)", len(docs))

	if s.detector == nil {
		s.fail(gen, &domain.UnavailableError{Reason: domain.ReasonNotConfigured})
		return nil
	}

	availability := s.detector.Availability(ctx)
	if !availability.Available {
		logger.Warn("detector unavailable: %s", availability.Reason)
		s.fail(gen, availability.Err())
		return ctx.Err()
	}

	prompt, err := s.render(ctx, docs)
	if err != nil {
		s.fail(gen, err)
		return ctx.Err()
	}
	logger.Debug("rendered prompt: %d characters", len(prompt))

	issues, err := s.detector.Detect(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.fail(gen, ctxErr)
			return ctxErr
		}
		logger.Warn("detect failed: %v", err)
		s.fail(gen, err)
		return nil
	}
	logger.Debug("detector returned %d issue(s)", len(issues))

	resolved := s.locator.ResolveIssues(docs, issues)
	if resolved == nil {
		resolved = []domain.Issue{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		logger.Debug("session cleared during check, discarding result")
		return nil
	}
	s.issues = resolved
	s.state = domain.CompletedState()
	return nil
}

// Issues returns a copy of the issues from the last completed run.
func (s *CheckService) Issues() []domain.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.issues == nil {
		return nil
	}
	result := make([]domain.Issue, len(s.issues))
	copy(result, s.issues)
	return result
}

// State returns the current check state.
func (s *CheckService) State() domain.CheckState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Chunks returns the prompt Run would send for the current documents.
func (s *CheckService) Chunks() string {
	prompt, err := s.render(context.Background(), s.store.List())
	if err != nil {
		logger.Warn("render chunks: %v", err)
		return ""
	}
	return prompt
}

// Locate finds the paragraph of quote within the document titled title.
func (s *CheckService) Locate(quote, title string) int {
	return s.locator.Locate(s.store.List(), quote, title)
}

// Clear removes all documents and issues and resets the state to idle.
func (s *CheckService) Clear() {
	s.store.Clear()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = nil
	s.state = domain.IdleState()
	s.generation++
}

// begin moves the session into Analyzing and returns the run's generation.
func (s *CheckService) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == domain.CheckAnalyzing {
		return 0, domain.ErrCheckInProgress
	}
	s.generation++
	s.issues = nil
	s.state = domain.AnalyzingState()
	return s.generation, nil
}

// fail records a failure for run gen unless the session has moved on.
func (s *CheckService) fail(gen uint64, err error) {
	message := domain.FailureMessage(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		message = "Analysis cancelled."
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	s.state = domain.FailedState(message)
}

// render runs each document through the pipeline and joins the tagged lines.
func (s *CheckService) render(ctx context.Context, docs []domain.Document) (string, error) {
	defer logger.Stage("Chunk")()

	var lines []string
	for i := range docs {
		chunks, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return "", fmt.Errorf("chunk %s: %w", docs[i].Title, err)
		}
		logger.Debug("%s: %d paragraph(s)", docs[i].Title, len(chunks))
		for _, c := range chunks {
			lines = append(lines, c.String())
		}
	}
	return strings.Join(lines, s.pipeline.Separator()), nil
}
