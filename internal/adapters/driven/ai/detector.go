package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/contextguard/internal/adapters/driven/config/file"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/logger"
)

// Ensure LLMDetector implements the interfaces.
var (
	_ driven.ContradictionDetector = (*LLMDetector)(nil)
	_ driven.PromptStoreAware      = (*LLMDetector)(nil)
)

// Detector defaults.
const (
	DefaultMaxRetries  = 2
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.1
)

// MsgNotConfigured is shown when no language model has been set up.
const MsgNotConfigured = "No AI provider is configured. Run: contextguard settings llm"

// LLMDetector finds contradictions by asking a language model.
// The instruction prompt goes in the system message and the tagged
// paragraphs in the user message.
type LLMDetector struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	limiter     *RateLimiter
	maxRetries  int
	retryDelay  time.Duration
	maxTokens   int
	temperature float64
}

// DetectorOption configures an LLMDetector.
type DetectorOption func(*LLMDetector)

// WithPromptStore loads the instruction prompt from store.
func WithPromptStore(store driven.PromptStore) DetectorOption {
	return func(d *LLMDetector) {
		d.prompts = store
	}
}

// WithRateLimit replaces the default request throttle.
func WithRateLimit(cfg RateLimitConfig) DetectorOption {
	return func(d *LLMDetector) {
		d.limiter = NewRateLimiter(cfg)
	}
}

// WithRetries sets how many times a failed request is retried and the base backoff delay.
func WithRetries(maxRetries int, baseDelay time.Duration) DetectorOption {
	return func(d *LLMDetector) {
		if maxRetries >= 0 {
			d.maxRetries = maxRetries
		}
		d.retryDelay = baseDelay
	}
}

// WithMaxTokens bounds the reply length.
func WithMaxTokens(n int) DetectorOption {
	return func(d *LLMDetector) {
		if n > 0 {
			d.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) DetectorOption {
	return func(d *LLMDetector) {
		d.temperature = t
	}
}

// NewLLMDetector creates a detector backed by llm. A nil llm yields a
// detector that always reports ReasonNotConfigured.
func NewLLMDetector(llm driven.LLMService, opts ...DetectorOption) *LLMDetector {
	d := &LLMDetector{
		llm:         llm,
		limiter:     NewRateLimiter(DefaultRateLimit),
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetPromptStore sets the prompt store for loading the instruction prompt.
func (d *LLMDetector) SetPromptStore(store driven.PromptStore) {
	d.prompts = store
}

// ModelName returns the underlying model name, or "" when none is configured.
func (d *LLMDetector) ModelName() string {
	if d.llm == nil {
		return ""
	}
	return d.llm.ModelName()
}

// Availability pings the provider.
func (d *LLMDetector) Availability(ctx context.Context) domain.Availability {
	if d.llm == nil {
		return domain.Unavailable(domain.ReasonNotConfigured, MsgNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.llm.Ping(ctx); err != nil {
		logger.Debug("availability check failed: %v", err)
		var unavailable *domain.UnavailableError
		if errors.As(err, &unavailable) {
			return domain.Unavailable(unavailable.Reason, unavailable.Detail)
		}
		return domain.Unavailable(domain.ReasonUnreachable,
			fmt.Sprintf("%s did not respond: %v", d.llm.ModelName(), err))
	}
	return domain.Available()
}

// Detect sends prompt to the model and parses the contradictions it reports.
// Transient failures and unparseable replies are retried with backoff.
func (d *LLMDetector) Detect(ctx context.Context, prompt string) ([]domain.Issue, error) {
	if d.llm == nil {
		return nil, &domain.UnavailableError{Reason: domain.ReasonNotConfigured, Detail: MsgNotConfigured}
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: d.instructions()},
		{Role: "user", Content: prompt},
	}
	opts := driven.ChatOptions{
		MaxTokens:   d.maxTokens,
		Temperature: d.temperature,
		JSON:        true,
	}

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			delay := CalculateBackoff(d.retryDelay, attempt)
			logger.Debug("retrying detection in %s (attempt %d): %v", delay, attempt+1, lastErr)
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		reply, err := d.llm.Chat(ctx, messages, opts)
		if err != nil {
			if !retryable(err) {
				return nil, err
			}
			if errors.Is(err, domain.ErrRateLimited) {
				d.limiter.RecordRateLimitError(0)
			}
			lastErr = err
			continue
		}

		issues, err := ParseIssues(reply)
		if err != nil {
			logger.Debug("unparseable reply: %q", truncate(reply, 200))
			lastErr = err
			continue
		}
		logger.Debug("model %s reported %d issue(s)", d.llm.ModelName(), len(issues))
		return issues, nil
	}

	if errors.Is(lastErr, domain.ErrGenerationFailed) {
		return nil, fmt.Errorf("after %d attempts: %w", d.maxRetries+1, lastErr)
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrGenerationFailed, d.maxRetries+1, lastErr)
}

// instructions returns the system prompt, preferring the user's copy.
func (d *LLMDetector) instructions() string {
	fallback, _ := file.DefaultPrompt(driven.PromptContradictionSystem)
	if d.prompts == nil {
		return fallback
	}
	prompt, err := d.prompts.Load(driven.PromptContradictionSystem)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, domain.ErrModelUnavailable),
		errors.Is(err, domain.ErrContextWindowExceeded),
		errors.Is(err, domain.ErrGuardrailViolation):
		return false
	default:
		return true
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
