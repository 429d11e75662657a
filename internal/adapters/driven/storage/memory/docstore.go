package memory

import (
	"sync"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a bounded, insertion-ordered, in-memory session store.
// A single RWMutex guards the slice so the capacity check in Add and the
// append are one atomic step.
type DocumentStore struct {
	mu        sync.RWMutex
	capacity  int
	documents []domain.Document
}

// NewDocumentStore creates a store holding at most capacity documents.
// A capacity below 1 selects domain.DefaultMaxDocuments.
func NewDocumentStore(capacity int) *DocumentStore {
	if capacity < 1 {
		capacity = domain.DefaultMaxDocuments
	}
	return &DocumentStore{
		capacity:  capacity,
		documents: make([]domain.Document, 0, capacity),
	}
}

// Add appends doc if there is room. Returns false, without error, when full.
func (s *DocumentStore) Add(doc domain.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.documents) >= s.capacity {
		return false
	}
	s.documents = append(s.documents, doc)
	return true
}

// Remove deletes the document with the given ID. Missing IDs are ignored.
func (s *DocumentStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.documents {
		if s.documents[i].ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			return
		}
	}
}

// Clear removes every document.
func (s *DocumentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = s.documents[:0]
}

// Get returns the document with the given ID.
func (s *DocumentStore) Get(id string) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return domain.Document{}, false
}

// FindByTitle returns the first document with the given title.
func (s *DocumentStore) FindByTitle(title string) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.Title == title {
			return doc, true
		}
	}
	return domain.Document{}, false
}

// List returns a copy of all documents in load order.
func (s *DocumentStore) List() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, len(s.documents))
	copy(result, s.documents)
	return result
}

// Count returns the number of documents held.
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Capacity returns the maximum number of documents.
func (s *DocumentStore) Capacity() int {
	return s.capacity
}

// RemainingSlots returns how many more documents fit.
func (s *DocumentStore) RemainingSlots() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return max(s.capacity-len(s.documents), 0)
}

// CanAddMore reports whether another document fits.
func (s *DocumentStore) CanAddMore() bool {
	return s.RemainingSlots() > 0
}
