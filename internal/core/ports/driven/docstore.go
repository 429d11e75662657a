package driven

import "github.com/custodia-labs/contextguard/internal/core/domain"

// DocumentStore holds the documents of one analysis session.
// It is bounded: once Capacity documents are held, Add rejects new ones
// without error. Order of insertion is preserved.
type DocumentStore interface {
	// Add appends a document if there is room. Returns false when full.
	Add(doc domain.Document) bool

	// Remove deletes the document with the given ID. Missing IDs are ignored.
	Remove(id string)

	// Clear removes every document.
	Clear()

	// Get returns the document with the given ID.
	Get(id string) (domain.Document, bool)

	// FindByTitle returns the first document whose title equals title.
	FindByTitle(title string) (domain.Document, bool)

	// List returns a copy of all documents in load order.
	List() []domain.Document

	// Count returns the number of documents held.
	Count() int

	// Capacity returns the maximum number of documents.
	Capacity() int

	// RemainingSlots returns Capacity minus Count, never negative.
	RemainingSlots() int

	// CanAddMore reports whether RemainingSlots is positive.
	CanAddMore() bool
}
