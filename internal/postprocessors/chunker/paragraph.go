// Package chunker splits documents into numbered paragraphs and renders them
// as tagged lines for the contradiction detector.
//
// A paragraph is a newline-delimited, whitespace-trimmed, non-empty segment.
// Paragraphs are numbered from 1 in the order they survive. Each rendered
// line has the form "[<title> §<n>] <text>".
package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// SplitParagraphs splits text on "\n", trims each segment and drops empty ones.
// A "\r\n" line ending behaves like "\n" because the carriage return is trimmed.
func SplitParagraphs(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// Tag returns the citation tag for paragraph n of the document titled title.
func Tag(title string, n int) string {
	return domain.Chunk{DocumentTitle: title, Paragraph: n}.Tag()
}

// Chunks returns one chunk per paragraph of doc.
func Chunks(doc *domain.Document) []domain.Chunk {
	paragraphs := SplitParagraphs(doc.Content)
	if len(paragraphs) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, len(paragraphs))
	for i, text := range paragraphs {
		chunks[i] = domain.Chunk{
			DocumentID:    doc.ID,
			DocumentTitle: doc.Title,
			Paragraph:     i + 1,
			Text:          text,
		}
	}
	return chunks
}

// Render joins the tagged lines of chunks with sep.
func Render(chunks []domain.Chunk, sep string) string {
	lines := make([]string, len(chunks))
	for i, c := range chunks {
		lines[i] = c.String()
	}
	return strings.Join(lines, sep)
}

// RenderChunks renders every paragraph of every document, in document order,
// one tagged line each, joined by a single newline. Nothing is truncated.
func RenderChunks(docs []domain.Document) string {
	var chunks []domain.Chunk
	for i := range docs {
		chunks = append(chunks, Chunks(&docs[i])...)
	}
	return Render(chunks, DefaultSeparator)
}

var tagPattern = regexp.MustCompile(`(?s)^\[(.+?) §(\d+)\] ?(.*)$`)

// ParseTag splits a rendered line back into title, paragraph number and text.
// It reports false when line does not start with a tag.
func ParseTag(line string) (title string, n int, rest string, ok bool) {
	m := tagPattern.FindStringSubmatch(line)
	if m == nil {
		return "", 0, "", false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return "", 0, "", false
	}
	return m[1], n, m[3], true
}
