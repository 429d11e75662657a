package driven

import (
	"context"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// ContradictionDetector finds contradictions in a rendered chunk prompt.
//
// The prompt is the output of the chunker: one "[title §n] text" line per
// paragraph. Returned issues may carry paragraph numbers; zero values are
// resolved afterwards by the citation resolver.
//
// Detect returns errors wrapping domain.ErrModelUnavailable,
// domain.ErrContextWindowExceeded, domain.ErrGuardrailViolation or
// domain.ErrGenerationFailed so callers can map them to user messages.
type ContradictionDetector interface {
	// Availability reports whether Detect can run right now.
	Availability(ctx context.Context) domain.Availability

	// Detect returns the contradictions found in prompt.
	Detect(ctx context.Context, prompt string) ([]domain.Issue, error)
}
