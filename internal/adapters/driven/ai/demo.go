package ai

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/demo"
	"github.com/custodia-labs/contextguard/internal/postprocessors/chunker"
)

// Ensure DemoDetector implements the interface.
var _ driven.ContradictionDetector = (*DemoDetector)(nil)

// MsgDemoUnavailable is the failure shown when the demo detector is asked
// about documents it has no answer for.
const MsgDemoUnavailable = "No language model is available in this environment. " +
	"To run a real consistency check, configure a provider with \"contextguard settings llm\".\n\n" +
	"Run \"contextguard demo\" to see how the tool works."

// DemoDetector answers with the bundled demo results and never calls a model.
// It recognises the demo documents from the rendered prompt.
type DemoDetector struct {
	delay time.Duration
}

// DemoOption configures a DemoDetector.
type DemoOption func(*DemoDetector)

// WithDelay makes Detect pause before answering, like a real model would.
func WithDelay(d time.Duration) DemoOption {
	return func(dd *DemoDetector) {
		dd.delay = d
	}
}

// NewDemoDetector creates a demo detector.
func NewDemoDetector(opts ...DemoOption) *DemoDetector {
	d := &DemoDetector{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Availability always reports the demo detector as available.
func (d *DemoDetector) Availability(_ context.Context) domain.Availability {
	return domain.Available()
}

// Detect returns the demo issues matching the documents in prompt.
//
// The trip letter together with the teacher update yields the two-document
// issues. Any prompt mentioning both the sun hat rule and the hat ban yields
// the camp guide issues. The library guide on its own is reported clean.
// Everything else fails with an UnavailableError.
//
// The returned issues carry their paragraph numbers, so the citation
// resolver keeps them as given.
func (d *DemoDetector) Detect(ctx context.Context, prompt string) ([]domain.Issue, error) {
	if err := sleep(ctx, d.delay); err != nil {
		return nil, err
	}

	titles := promptTitles(prompt)

	switch {
	case (titles[demo.TripTitle] || titles[demo.LegacyTripTitle]) && titles[demo.TeacherTitle]:
		return demo.TwoDocIssues(), nil
	case strings.Contains(prompt, "sun hat") && strings.Contains(prompt, "Hats are not allowed"):
		return demo.SingleDocIssues(), nil
	case len(titles) == 1 && titles[demo.LibraryTitle]:
		return []domain.Issue{}, nil
	default:
		return nil, &domain.UnavailableError{
			Reason: domain.ReasonNotConfigured,
			Detail: MsgDemoUnavailable,
		}
	}
}

// promptTitles collects the document titles tagged in a rendered prompt.
func promptTitles(prompt string) map[string]bool {
	titles := make(map[string]bool)
	for _, line := range strings.Split(prompt, "\n") {
		if title, _, _, ok := chunker.ParseTag(line); ok {
			titles[title] = true
		}
	}
	return titles
}
