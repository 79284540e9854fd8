package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Empty(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("chunking.size")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("llm.model"))
	assert.Zero(t, store.GetInt("chunking.size"))
	assert.Zero(t, store.GetFloat("llm.temperature"))
	assert.False(t, store.GetBool("chunking.merge_pages"))
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
	assert.NoError(t, store.Save())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("chunking.merge_pages", true))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", val)
	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
	assert.True(t, store.GetBool("chunking.merge_pages"))
}

func TestConfigStore_NumericConversion(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantInt   int
		wantFloat float64
	}{
		{name: "int", value: 500, wantInt: 500, wantFloat: 500},
		{name: "toml integer", value: int64(100), wantInt: 100, wantFloat: 100},
		{name: "toml float", value: 0.7, wantInt: 0, wantFloat: 0.7},
		{name: "hand written whole float", value: 5.0, wantInt: 5, wantFloat: 5},
		{name: "float32", value: float32(0.5), wantInt: 0, wantFloat: 0.5},
		{name: "string", value: "500", wantInt: 0, wantFloat: 0},
		{name: "bool", value: true, wantInt: 0, wantFloat: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStoreFrom(map[string]any{"key": tt.value})
			assert.Equal(t, tt.wantInt, store.GetInt("key"))
			assert.InDelta(t, tt.wantFloat, store.GetFloat("key"), 1e-6)
		})
	}
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"llm.model":            42,
		"chunking.merge_pages": "yes",
	})

	assert.Empty(t, store.GetString("llm.model"))
	assert.False(t, store.GetBool("chunking.merge_pages"))
}

func TestNewConfigStoreFrom_Copies(t *testing.T) {
	seed := map[string]any{"retrieval.top_k": int64(4)}
	store := NewConfigStoreFrom(seed)

	seed["retrieval.top_k"] = int64(9)
	require.NoError(t, store.Set("retrieval.top_k", 6))

	assert.Equal(t, 6, store.GetInt("retrieval.top_k"))
	assert.Equal(t, int64(9), seed["retrieval.top_k"])
}

func TestConfigStore_ValuesIsACopy(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{"llm.model": "llama3.2"})

	values := store.Values()
	values["llm.model"] = "mistral"

	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
}

func TestConfigStore_Replace(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{"llm.model": "llama3.2"})

	store.Replace(map[string]any{"chunking.size": int64(800)})
	_, ok := store.Get("llm.model")
	assert.False(t, ok)
	assert.Equal(t, 800, store.GetInt("chunking.size"))

	store.Replace(nil)
	assert.Empty(t, store.Values())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("indexing.key%d", i)
			_ = store.Set(key, i)
			_ = store.GetInt(key)
		}()
	}
	wg.Wait()

	for i := range 20 {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("indexing.key%d", i)))
	}
}
