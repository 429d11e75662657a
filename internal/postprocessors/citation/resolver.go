// Package citation maps a quoted phrase back to the paragraph it came from.
//
// Matching uses the first PrefixLength user-perceived characters of the
// quote, compared case-insensitively with Unicode case folding against each
// paragraph of the named document. The first matching paragraph wins.
package citation

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/postprocessors/chunker"
)

// DefaultPrefixLength is how many characters of a quote are matched.
const DefaultPrefixLength = domain.DefaultPrefixLength

// LocateParagraph returns the 1-based paragraph of the first document titled
// title that contains the quote prefix, or 0 when the document is missing,
// the quote is empty or nothing matches.
func LocateParagraph(quote, title string, docs []domain.Document) int {
	return New(docs).Locate(quote, title)
}

// Resolver locates quotes in a fixed set of documents.
// Paragraphs are split and folded once, on first use of each title.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	prefixLength int
	byTitle      map[string]*domain.Document
	folded       map[string][]string
}

// Option configures the resolver.
type Option func(*Resolver)

// WithPrefixLength sets how many characters of a quote are matched.
// Values below 1 are ignored.
func WithPrefixLength(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.prefixLength = n
		}
	}
}

// New builds a resolver over docs. When two documents share a title, the
// earlier one wins.
func New(docs []domain.Document, opts ...Option) *Resolver {
	r := &Resolver{
		prefixLength: DefaultPrefixLength,
		byTitle:      make(map[string]*domain.Document, len(docs)),
		folded:       make(map[string][]string, len(docs)),
	}
	for i := range docs {
		if _, exists := r.byTitle[docs[i].Title]; !exists {
			r.byTitle[docs[i].Title] = &docs[i]
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locate returns the paragraph of title that contains quote, or 0.
func (r *Resolver) Locate(quote, title string) int {
	if quote == "" {
		return 0
	}
	paragraphs, ok := r.paragraphs(title)
	if !ok {
		return 0
	}

	key := fold(Prefix(quote, r.prefixLength))
	for i, p := range paragraphs {
		if strings.Contains(p, key) {
			return i + 1
		}
	}
	return 0
}

// ResolveIssues returns a copy of issues with unknown paragraph numbers filled in.
// Non-zero paragraph numbers are kept as they are.
func (r *Resolver) ResolveIssues(issues []domain.Issue) []domain.Issue {
	if issues == nil {
		return nil
	}

	resolved := make([]domain.Issue, len(issues))
	for i, issue := range issues {
		if issue.SourceParagraph == 0 {
			issue.SourceParagraph = r.Locate(issue.SourceText, issue.SourceDocument)
		}
		if issue.TargetParagraph == 0 {
			issue.TargetParagraph = r.Locate(issue.TargetText, issue.TargetDocument)
		}
		resolved[i] = issue
	}
	return resolved
}

func (r *Resolver) paragraphs(title string) ([]string, bool) {
	if cached, ok := r.folded[title]; ok {
		return cached, true
	}
	doc, ok := r.byTitle[title]
	if !ok {
		return nil, false
	}

	split := chunker.SplitParagraphs(doc.Content)
	folded := make([]string, len(split))
	for i, p := range split {
		folded[i] = fold(p)
	}
	r.folded[title] = folded
	return folded, true
}

// Prefix returns the first n grapheme clusters of s.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	g := uniseg.NewGraphemes(s)
	end := 0
	for count := 0; count < n && g.Next(); count++ {
		_, end = g.Positions()
	}
	return s[:end]
}

// fold applies Unicode case folding. Casers keep state, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
