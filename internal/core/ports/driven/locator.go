package driven

import "github.com/custodia-labs/contextguard/internal/core/domain"

// ParagraphLocator maps quoted phrases back to the paragraph they came from.
type ParagraphLocator interface {
	// Locate returns the 1-based paragraph of the first document titled title
	// that contains quote, or 0 when nothing matches.
	Locate(docs []domain.Document, quote, title string) int

	// ResolveIssues returns a copy of issues with zero paragraph numbers filled in.
	// Non-zero paragraph numbers are never changed.
	ResolveIssues(docs []domain.Document, issues []domain.Issue) []domain.Issue
}
