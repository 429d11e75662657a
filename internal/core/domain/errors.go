package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown normaliser or export format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyContent indicates a document produced no text after extraction.
	ErrEmptyContent = errors.New("document has no text content")

	// ErrNoDocuments indicates an operation needs at least one loaded document.
	ErrNoDocuments = errors.New("no documents loaded")

	// ErrCapacityReached indicates an import was skipped because the session is full.
	// The document store itself never returns it; it only appears in import results.
	ErrCapacityReached = errors.New("document limit reached")

	// ErrCheckInProgress indicates a check was started while another is running.
	ErrCheckInProgress = errors.New("check already in progress")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Detector Errors.

	// ErrModelUnavailable indicates the contradiction detector cannot run.
	// Usually wrapped in an *UnavailableError carrying the reason.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrContextWindowExceeded indicates the rendered chunks do not fit the model.
	ErrContextWindowExceeded = errors.New("context window exceeded")

	// ErrGuardrailViolation indicates the provider refused the content.
	ErrGuardrailViolation = errors.New("guardrail violation")

	// ErrGenerationFailed indicates the model answered but the answer was unusable.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrRateLimited indicates the provider asked the caller to slow down.
	// It is transient; callers may retry after a pause.
	ErrRateLimited = errors.New("rate limited")
)

// UnavailableError reports why the detector cannot run.
type UnavailableError struct {
	Reason UnavailableReason
	Detail string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("model unavailable (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("model unavailable (%s)", e.Reason)
}

// Is makes errors.Is(err, ErrModelUnavailable) hold for any UnavailableError.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// User-facing failure messages.
const (
	MsgFeatureDisabled       = "Please enable Apple Intelligence in Settings → Apple Intelligence & Siri."
	MsgDeviceIneligible      = "This device does not support Apple Intelligence."
	MsgModelNotReady         = "The AI model is still downloading. Please try again later."
	MsgModelUnavailable      = "Apple Intelligence is not available."
	MsgContextWindowExceeded = "Documents are too long. Try shorter documents or fewer files."
	MsgGuardrailViolation    = "Content triggered a safety filter. Try different documents."
)

// FailureMessage maps an analysis error to the message shown in CheckState.
// Unknown availability reasons and unreachable providers fall back to the
// generic unavailable message; an UnavailableError with a Detail for those
// reasons shows the detail instead.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}

	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		switch unavailable.Reason {
		case ReasonFeatureDisabled:
			return MsgFeatureDisabled
		case ReasonDeviceIneligible:
			return MsgDeviceIneligible
		case ReasonModelNotReady:
			return MsgModelNotReady
		default:
			if unavailable.Detail != "" {
				return unavailable.Detail
			}
			return MsgModelUnavailable
		}
	}

	switch {
	case errors.Is(err, ErrModelUnavailable):
		return MsgModelUnavailable
	case errors.Is(err, ErrContextWindowExceeded):
		return MsgContextWindowExceeded
	case errors.Is(err, ErrGuardrailViolation):
		return MsgGuardrailViolation
	case errors.Is(err, ErrGenerationFailed):
		return fmt.Sprintf("Analysis failed: %v", err)
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
