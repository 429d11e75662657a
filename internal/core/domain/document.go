package domain

import (
	"fmt"
	"time"
)

// Document is a single text source loaded into an analysis session.
// Documents are immutable once created; identity is by ID, never by Title.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the file name (with extension) or a generated label.
	// The contradiction detector refers to documents by this value.
	Title string

	// Content is the full extracted text.
	Content string

	// URI is the original location, empty for generated documents.
	URI string

	// Metadata contains arbitrary key-value pairs set during import.
	Metadata map[string]any

	// CreatedAt is when the document was imported.
	CreatedAt time.Time
}

// Chunk is one paragraph of a document rendered for the model prompt.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// DocumentTitle is the title used in the chunk tag.
	DocumentTitle string

	// Paragraph is the 1-based paragraph index within the document.
	Paragraph int

	// Text is the trimmed paragraph text.
	Text string
}

// Tag returns the citation tag "[<title> §<n>]".
func (c Chunk) Tag() string {
	return fmt.Sprintf("[%s §%d]", c.DocumentTitle, c.Paragraph)
}

// String renders the chunk as the tagged line sent to the model.
func (c Chunk) String() string {
	return c.Tag() + " " + c.Text
}
