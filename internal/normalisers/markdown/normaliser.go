// Package markdown provides a Normaliser for Markdown documents.
// Formatting markers are removed so each paragraph reads as plain prose.
package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts a markdown document to plain text.
// The first H1 heading, if any, is kept in Metadata["heading"].
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     extractTitle(raw),
		Content:   stripMarkdown(rawContent),
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "markdown"
	if heading := firstHeading(rawContent); heading != "" {
		doc.Metadata["heading"] = heading
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// extractTitle prefers Metadata["title"] and falls back to the file name with extension.
func extractTitle(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return filepath.Base(raw.URI)
}

// firstHeading returns the text of the first "# " heading.
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

// Pre-compiled regular expressions for markdown stripping.
var (
	codeFence     = regexp.MustCompile("(?m)^[ \t]*```.*$")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	boldStars     = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	boldUnders    = regexp.MustCompile(`\b__([^_\n]+)__\b`)
	italicStar    = regexp.MustCompile(`\*([^*\s][^*\n]*)\*`)
	italicUnder   = regexp.MustCompile(`\b_([^_\s][^_\n]*)_\b`)
	strike        = regexp.MustCompile(`~~([^~\n]+)~~`)
	blockquote    = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	horizontal    = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	listMarkers   = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+(\[[ xX]\][ \t]+)?`)
	numberedList  = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	tableRule     = regexp.MustCompile(`(?m)^[ \t]*\|?([ \t]*:?-{3,}:?[ \t]*\|)+([ \t]*:?-{3,}:?)?[ \t]*$`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting and keeps the text.
// Code blocks keep their contents since they may carry facts worth checking.
func stripMarkdown(content string) string {
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = tableRule.ReplaceAllString(content, "")
	content = boldStars.ReplaceAllString(content, "$1")
	content = boldUnders.ReplaceAllString(content, "$1")
	content = italicStar.ReplaceAllString(content, "$1")
	content = italicUnder.ReplaceAllString(content, "$1")
	content = strike.ReplaceAllString(content, "$1")
	content = blockquote.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
