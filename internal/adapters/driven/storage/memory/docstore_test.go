package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

func doc(id, title string) domain.Document {
	return domain.Document{ID: id, Title: title, Content: "content of " + title}
}

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore(3)
	require.NotNil(t, store)
	assert.Equal(t, 3, store.Capacity())
	assert.Equal(t, 0, store.Count())
	assert.Equal(t, 3, store.RemainingSlots())
	assert.True(t, store.CanAddMore())
}

func TestNewDocumentStore_InvalidCapacity(t *testing.T) {
	assert.Equal(t, domain.DefaultMaxDocuments, NewDocumentStore(0).Capacity())
	assert.Equal(t, domain.DefaultMaxDocuments, NewDocumentStore(-5).Capacity())
}

func TestDocumentStore_Add_RejectsWhenFull(t *testing.T) {
	store := NewDocumentStore(3)

	assert.True(t, store.Add(doc("1", "A")))
	assert.True(t, store.Add(doc("2", "B")))
	assert.True(t, store.Add(doc("3", "C")))
	assert.False(t, store.CanAddMore())

	assert.False(t, store.Add(doc("4", "D")))
	assert.Equal(t, 3, store.Count())
	assert.Equal(t, 0, store.RemainingSlots())

	_, ok := store.Get("4")
	assert.False(t, ok)
}

func TestDocumentStore_List_PreservesOrder(t *testing.T) {
	store := NewDocumentStore(3)
	store.Add(doc("b", "Second"))
	store.Add(doc("a", "First"))

	docs := store.List()
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
}

func TestDocumentStore_List_ReturnsCopy(t *testing.T) {
	store := NewDocumentStore(3)
	store.Add(doc("1", "A"))

	docs := store.List()
	docs[0].Title = "changed"

	got, ok := store.Get("1")
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)
}

func TestDocumentStore_Remove(t *testing.T) {
	store := NewDocumentStore(3)
	store.Add(doc("1", "A"))
	store.Add(doc("2", "B"))
	store.Add(doc("3", "C"))

	store.Remove("2")
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, 1, store.RemainingSlots())

	docs := store.List()
	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "3", docs[1].ID)

	// Freed slot can be used again.
	assert.True(t, store.Add(doc("4", "D")))
}

func TestDocumentStore_Remove_Missing(t *testing.T) {
	store := NewDocumentStore(3)
	store.Add(doc("1", "A"))

	store.Remove("nope")
	assert.Equal(t, 1, store.Count())
}

func TestDocumentStore_Clear(t *testing.T) {
	store := NewDocumentStore(2)
	store.Add(doc("1", "A"))
	store.Add(doc("2", "B"))

	store.Clear()
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, store.List())
	assert.Equal(t, 2, store.RemainingSlots())
}

func TestDocumentStore_FindByTitle_FirstWins(t *testing.T) {
	store := NewDocumentStore(3)
	store.Add(doc("1", "Same.txt"))
	store.Add(doc("2", "Same.txt"))

	got, ok := store.FindByTitle("Same.txt")
	require.True(t, ok)
	assert.Equal(t, "1", got.ID)

	_, ok = store.FindByTitle("Other.txt")
	assert.False(t, ok)
}

func TestDocumentStore_ConcurrentAdd(t *testing.T) {
	store := NewDocumentStore(3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if store.Add(doc(fmt.Sprintf("doc-%d", n), "T")) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, accepted)
	assert.Equal(t, 3, store.Count())
}
