package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// mockLLM replays scripted replies and records the requests it saw.
type mockLLM struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	pingErr  error
	calls    int
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", errors.New("not used")
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.calls
	m.calls++
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)

	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.replies) {
		return m.replies[i], nil
	}
	return "[]", nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return m.pingErr }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore returns a fixed prompt.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.prompt, m.err }
func (m *mockPromptStore) Reload()                       {}

func newTestDetector(llm driven.LLMService, opts ...DetectorOption) *LLMDetector {
	base := []DetectorOption{
		WithRateLimit(RateLimitConfig{}),
		WithRetries(DefaultMaxRetries, 0),
	}
	return NewLLMDetector(llm, append(base, opts...)...)
}

func TestLLMDetector_NilService(t *testing.T) {
	d := NewLLMDetector(nil)

	availability := d.Availability(context.Background())
	assert.False(t, availability.Available)
	assert.Equal(t, domain.ReasonNotConfigured, availability.Reason)
	assert.Empty(t, d.ModelName())

	_, err := d.Detect(context.Background(), "[A.txt §1] x")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestLLMDetector_Availability(t *testing.T) {
	t.Run("ping ok", func(t *testing.T) {
		d := newTestDetector(&mockLLM{})
		assert.True(t, d.Availability(context.Background()).Available)
	})

	t.Run("typed unavailable error keeps its reason", func(t *testing.T) {
		d := newTestDetector(&mockLLM{pingErr: fmt.Errorf("ping: %w", &domain.UnavailableError{
			Reason: domain.ReasonModelNotReady,
			Detail: "pull it",
		})})

		availability := d.Availability(context.Background())
		assert.False(t, availability.Available)
		assert.Equal(t, domain.ReasonModelNotReady, availability.Reason)
		assert.Equal(t, "pull it", availability.Detail)
	})

	t.Run("other errors mean unreachable", func(t *testing.T) {
		d := newTestDetector(&mockLLM{pingErr: errors.New("status 502")})

		availability := d.Availability(context.Background())
		assert.Equal(t, domain.ReasonUnreachable, availability.Reason)
		assert.Contains(t, availability.Detail, "mock-model")
	})
}

func TestLLMDetector_Detect_SendsPromptAsUserMessage(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"issues":[{"severity":"HIGH","rationale":"r","sourceText":"a","targetText":"b"}]}`}}
	d := newTestDetector(llm)

	issues, err := d.Detect(context.Background(), "[A.txt §1] a\n[B.txt §1] b")

	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Len(t, llm.messages, 1)
	msgs := llm.messages[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "You find factual contradictions")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "[A.txt §1] a\n[B.txt §1] b", msgs[1].Content)
	assert.True(t, llm.opts[0].JSON)
	assert.Equal(t, DefaultMaxTokens, llm.opts[0].MaxTokens)
}

func TestLLMDetector_Detect_UsesPromptStore(t *testing.T) {
	llm := &mockLLM{}
	d := newTestDetector(llm, WithPromptStore(&mockPromptStore{prompt: "custom instructions"}))

	_, err := d.Detect(context.Background(), "[A.txt §1] a")

	require.NoError(t, err)
	assert.Equal(t, "custom instructions", llm.messages[0][0].Content)
}

func TestLLMDetector_Detect_PromptStoreFailureUsesDefault(t *testing.T) {
	llm := &mockLLM{}
	d := newTestDetector(llm)
	d.SetPromptStore(&mockPromptStore{err: errors.New("disk gone")})

	_, err := d.Detect(context.Background(), "[A.txt §1] a")

	require.NoError(t, err)
	assert.Contains(t, llm.messages[0][0].Content, "If no contradictions exist, return an empty array.")
}

func TestLLMDetector_Detect_RetriesTransientErrors(t *testing.T) {
	llm := &mockLLM{
		errs:    []error{errors.New("status 500"), fmt.Errorf("x: %w", domain.ErrRateLimited)},
		replies: []string{"", "", "[]"},
	}
	d := newTestDetector(llm, WithRateLimit(RateLimitConfig{Backoff: time.Millisecond}))

	issues, err := d.Detect(context.Background(), "p")

	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 3, llm.calls)
}

func TestLLMDetector_Detect_RetriesUnparseableReplies(t *testing.T) {
	llm := &mockLLM{replies: []string{"sorry, no JSON here", `[{"rationale":"r","sourceText":"a"}]`}}
	d := newTestDetector(llm)

	issues, err := d.Detect(context.Background(), "p")

	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, 2, llm.calls)
}

func TestLLMDetector_Detect_GivesUp(t *testing.T) {
	llm := &mockLLM{replies: []string{"nope", "nope", "nope"}}
	d := newTestDetector(llm)

	_, err := d.Detect(context.Background(), "p")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Equal(t, DefaultMaxRetries+1, llm.calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestLLMDetector_Detect_TransientFailuresBecomeGenerationFailed(t *testing.T) {
	boom := errors.New("status 500")
	llm := &mockLLM{errs: []error{boom, boom}}
	d := newTestDetector(llm, WithRetries(1, 0))

	_, err := d.Detect(context.Background(), "p")

	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, llm.calls)
}

func TestLLMDetector_Detect_DoesNotRetryPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"context window", fmt.Errorf("x: %w", domain.ErrContextWindowExceeded)},
		{"guardrail", fmt.Errorf("x: %w", domain.ErrGuardrailViolation)},
		{"unavailable", &domain.UnavailableError{Reason: domain.ReasonNotConfigured}},
		{"cancelled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{errs: []error{tt.err}}
			d := newTestDetector(llm)

			_, err := d.Detect(context.Background(), "p")

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, llm.calls)
		})
	}
}

func TestLLMDetector_Detect_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := &mockLLM{}
	d := newTestDetector(llm)

	_, err := d.Detect(ctx, "p")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, llm.calls)
}

func TestNewLLMDetector_Options(t *testing.T) {
	d := NewLLMDetector(&mockLLM{},
		WithMaxTokens(100),
		WithMaxTokens(-1),
		WithTemperature(0.5),
		WithRetries(-1, 0),
	)

	assert.Equal(t, 100, d.maxTokens)
	assert.InDelta(t, 0.5, d.temperature, 1e-9)
	assert.Equal(t, DefaultMaxRetries, d.maxRetries)
	assert.Equal(t, "mock-model", d.ModelName())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "§§...", truncate("§§§", 2))
}
