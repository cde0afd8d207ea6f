package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("resolver.query_namespace", "location_based_series.utils"))

	val, ok := store.Get("resolver.query_namespace")
	assert.True(t, ok)
	assert.Equal(t, "location_based_series.utils", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("server.addr", ":8420")
	_ = store.Set("remote.rate_limit", 2.5)
	_ = store.Set("limit.int", 7)
	_ = store.Set("limit.int64", int64(9))
	_ = store.Set("validation.require_dimension", true)
	_ = store.Set("resolver.precedence", []any{"dispatch", 3, "main"})

	assert.Equal(t, ":8420", store.GetString("server.addr"))
	assert.Equal(t, "", store.GetString("remote.rate_limit"), "wrong type reads empty")
	assert.InDelta(t, 2.5, store.GetFloat("remote.rate_limit"), 0.0001)
	assert.InDelta(t, 7.0, store.GetFloat("limit.int"), 0.0001)
	assert.Equal(t, 7, store.GetInt("limit.int"))
	assert.Equal(t, 9, store.GetInt("limit.int64"))
	assert.Equal(t, 2, store.GetInt("remote.rate_limit"))
	assert.True(t, store.GetBool("validation.require_dimension"))
	assert.False(t, store.GetBool("server.addr"))
	assert.Equal(t, []string{"dispatch", "main"}, store.GetStringSlice("resolver.precedence"))
	assert.Nil(t, store.GetStringSlice("server.addr"))
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("storage.backend", "memory")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "memory", store.GetString("storage.backend"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key.%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key.%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key.%d", i)))
	}
}
