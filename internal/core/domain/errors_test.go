package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrEmptyContent", ErrEmptyContent},
		{"ErrNoDocuments", ErrNoDocuments},
		{"ErrCapacityReached", ErrCapacityReached},
		{"ErrCheckInProgress", ErrCheckInProgress},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrModelUnavailable", ErrModelUnavailable},
		{"ErrContextWindowExceeded", ErrContextWindowExceeded},
		{"ErrGuardrailViolation", ErrGuardrailViolation},
		{"ErrGenerationFailed", ErrGenerationFailed},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Wrapping tests that wrapped errors can be unwrapped
func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("detect: %w", ErrContextWindowExceeded)
	assert.True(t, errors.Is(wrapped, ErrContextWindowExceeded))
	assert.False(t, errors.Is(wrapped, ErrGuardrailViolation))
}

func TestUnavailableError_Error(t *testing.T) {
	err := &UnavailableError{Reason: ReasonUnreachable}
	assert.Equal(t, "model unavailable (unreachable)", err.Error())

	err = &UnavailableError{Reason: ReasonNotConfigured, Detail: "no provider"}
	assert.Equal(t, "model unavailable (not_configured): no provider", err.Error())
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"feature disabled", &UnavailableError{Reason: ReasonFeatureDisabled}, MsgFeatureDisabled},
		{"device ineligible", &UnavailableError{Reason: ReasonDeviceIneligible}, MsgDeviceIneligible},
		{"model not ready", &UnavailableError{Reason: ReasonModelNotReady}, MsgModelNotReady},
		{"unknown reason", &UnavailableError{Reason: ReasonUnknown}, MsgModelUnavailable},
		{"unreachable with detail", &UnavailableError{Reason: ReasonUnreachable, Detail: "ollama is down"}, "ollama is down"},
		{"wrapped unavailable", fmt.Errorf("check: %w", &UnavailableError{Reason: ReasonModelNotReady}), MsgModelNotReady},
		{"bare unavailable", ErrModelUnavailable, MsgModelUnavailable},
		{"context window", fmt.Errorf("x: %w", ErrContextWindowExceeded), MsgContextWindowExceeded},
		{"guardrail", ErrGuardrailViolation, MsgGuardrailViolation},
		{"generation", ErrGenerationFailed, "Analysis failed: generation failed"},
		{"other", errors.New("disk on fire"), "Unexpected error: disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FailureMessage(tt.err))
		})
	}
}
