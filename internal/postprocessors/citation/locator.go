package citation

import (
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// Ensure Locator implements the interface.
var _ driven.ParagraphLocator = (*Locator)(nil)

// Locator adapts Resolver to the ParagraphLocator port.
// It holds no document state and is safe for concurrent use.
type Locator struct {
	prefixLength int
}

// NewLocator creates a locator matching quotes by their first prefixLength characters.
// Values below 1 select DefaultPrefixLength.
func NewLocator(prefixLength int) *Locator {
	if prefixLength < 1 {
		prefixLength = DefaultPrefixLength
	}
	return &Locator{prefixLength: prefixLength}
}

// Locate returns the paragraph of title that contains quote, or 0.
func (l *Locator) Locate(docs []domain.Document, quote, title string) int {
	return New(docs, WithPrefixLength(l.prefixLength)).Locate(quote, title)
}

// ResolveIssues fills unknown paragraph numbers using docs.
func (l *Locator) ResolveIssues(docs []domain.Document, issues []domain.Issue) []domain.Issue {
	return New(docs, WithPrefixLength(l.prefixLength)).ResolveIssues(issues)
}
