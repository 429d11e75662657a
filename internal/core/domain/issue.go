package domain

import "strings"

// Severity classifies how serious a contradiction is.
type Severity string

// Known severities. SeverityUnknown is assigned when the detector returns
// a value that does not match one of the others.
const (
	SeverityHigh    Severity = "HIGH"
	SeverityMedium  Severity = "MEDIUM"
	SeverityLow     Severity = "LOW"
	SeverityUnknown Severity = "UNKNOWN"
)

// ParseSeverity converts free-form detector output into a Severity.
// Matching ignores case and surrounding whitespace.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// IsValid returns true for HIGH, MEDIUM and LOW.
func (s Severity) IsValid() bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

// String returns the upper-case label.
func (s Severity) String() string {
	if s == "" {
		return string(SeverityUnknown)
	}
	return string(s)
}

// Rank orders severities from most to least serious (HIGH = 0).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// Issue is one detected contradiction between two quoted spans.
// A paragraph value of 0 means the location is unknown.
type Issue struct {
	Severity       Severity `json:"severity"`
	Rationale      string   `json:"rationale"`
	SourceText     string   `json:"sourceText"`
	SourceDocument string   `json:"sourceDocument"`
	TargetText     string   `json:"targetText"`
	TargetDocument string   `json:"targetDocument"`
	SuggestedFix   string   `json:"suggestedFix"`

	SourceParagraph int `json:"sourceParagraph"`
	TargetParagraph int `json:"targetParagraph"`
}

// IsInternal reports whether both spans come from the same document title.
func (i Issue) IsInternal() bool {
	return i.SourceDocument == i.TargetDocument
}

// NeedsResolution reports whether either paragraph location is still unknown.
func (i Issue) NeedsResolution() bool {
	return i.SourceParagraph == 0 || i.TargetParagraph == 0
}
