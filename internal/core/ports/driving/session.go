package driving

import (
	"context"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// CheckService owns one analysis session: the loaded documents, the last
// issue list and the check state.
type CheckService interface {
	// AddDocument adds a document to the session. Returns false when the
	// session is full; that is not an error.
	AddDocument(doc domain.Document) bool

	// RemoveDocument removes a document by ID.
	RemoveDocument(id string)

	// Documents returns the loaded documents in load order.
	Documents() []domain.Document

	// RemainingSlots returns how many more documents can be added.
	RemainingSlots() int

	// Run analyses the loaded documents. It is a no-op without documents.
	// Analysis failures are reported through State, not the returned error.
	// The error is only non-nil when ctx is cancelled or another run is in
	// progress (domain.ErrCheckInProgress).
	Run(ctx context.Context) error

	// Issues returns the issues of the last completed run.
	Issues() []domain.Issue

	// State returns the current check state.
	State() domain.CheckState

	// Chunks returns the prompt that Run would send for the current documents.
	Chunks() string

	// Locate finds the paragraph of quote within the document titled title.
	Locate(quote, title string) int

	// Clear removes all documents and issues and resets the state to idle.
	Clear()
}
