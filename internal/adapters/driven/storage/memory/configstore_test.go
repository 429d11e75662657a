package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Empty(t *testing.T) {
	s := NewConfigStore()

	_, ok := s.Get("check.max_documents")
	assert.False(t, ok)
	assert.Empty(t, s.GetString("llm.provider"))
	assert.Zero(t, s.GetInt("check.max_documents"))
	assert.False(t, s.GetBool("export.open"))
	assert.Nil(t, s.GetStringSlice("pipeline.processors"))
	assert.Equal(t, ":memory:", s.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	s := NewConfigStoreWith(map[string]any{
		"llm.provider":         "ollama",
		"check.max_documents":  int64(3),
		"check.prefix_length":  float64(30),
		"export.dir":           42,
		"export.open":          true,
		"pipeline.processors":  []any{"paragraph", 7},
		"pipeline.extra":       []string{"a", "b"},
		"check.prefix_as_text": "30",
	})

	assert.Equal(t, "ollama", s.GetString("llm.provider"))
	assert.Empty(t, s.GetString("export.dir"), "non-string value")
	assert.Equal(t, 3, s.GetInt("check.max_documents"))
	assert.Equal(t, 30, s.GetInt("check.prefix_length"))
	assert.Zero(t, s.GetInt("check.prefix_as_text"), "numeric strings are not converted")
	assert.True(t, s.GetBool("export.open"))
	assert.False(t, s.GetBool("llm.provider"))
	assert.Equal(t, []string{"paragraph"}, s.GetStringSlice("pipeline.processors"))
	assert.Equal(t, []string{"a", "b"}, s.GetStringSlice("pipeline.extra"))
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	s := NewConfigStore()

	require.NoError(t, s.Set("llm.model", "gpt-4o"))
	require.NoError(t, s.Set("llm.model", "gpt-4o-mini"))

	assert.Equal(t, "gpt-4o-mini", s.GetString("llm.model"))
	assert.NoError(t, s.Save())
	assert.NoError(t, s.Load())
	assert.Equal(t, "gpt-4o-mini", s.GetString("llm.model"), "save and load keep values")
}

func TestNewConfigStoreWith_CopiesSeed(t *testing.T) {
	seed := map[string]any{"check.max_documents": 3}
	s := NewConfigStoreWith(seed)

	seed["check.max_documents"] = 9
	require.NoError(t, s.Set("llm.provider", "openai"))

	assert.Equal(t, 3, s.GetInt("check.max_documents"))
	_, leaked := seed["llm.provider"]
	assert.False(t, leaked)
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	s := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = s.Set(fmt.Sprintf("key.%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = s.GetInt(fmt.Sprintf("key.%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		assert.Equal(t, i, s.GetInt(fmt.Sprintf("key.%d", i)))
	}
}
