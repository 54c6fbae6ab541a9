package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

func TestSchemaCache_LRU(t *testing.T) {
	c, err := NewSchemaCache(2, 0)
	require.NoError(t, err)

	c.Put("a", map[string]any{"title": "a"})
	c.Put("b", map[string]any{"title": "b"})
	c.Put("c", map[string]any{"title": "c"})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")

	doc, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", doc.(map[string]any)["title"])

	c.Invalidate("c")
	_, ok = c.Get("c")
	assert.False(t, ok)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestSchemaCache_InvalidSize(t *testing.T) {
	_, err := NewSchemaCache(0, 0)
	assert.Error(t, err)
}

func TestSchemaCache_TTL(t *testing.T) {
	c, err := NewSchemaCache(4, 20*time.Millisecond)
	require.NoError(t, err)

	c.Put("schema", true)
	_, ok := c.Get("schema")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("schema")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCachingFetcher_FetchesOnce(t *testing.T) {
	var calls atomic.Int32
	next := jsongraph.SchemaFetcherFunc(func(context.Context) (any, error) {
		calls.Add(1)
		return map[string]any{"type": "object"}, nil
	})

	c, err := NewSchemaCache(4, 0)
	require.NoError(t, err)
	f := NewCachingFetcher("default", next, c, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := f.FetchSchema(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, doc)
		}()
	}
	wg.Wait()

	_, err = f.FetchSchema(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.Equal(t, 1, c.Len())

	before := calls.Load()
	_, err = f.FetchSchema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, calls.Load(), "cached schema must not be refetched")
}

func TestCachingFetcher_DoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	next := jsongraph.SchemaFetcherFunc(func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("temporary")
		}
		return map[string]any{}, nil
	})

	c, err := NewSchemaCache(4, 0)
	require.NoError(t, err)
	f := NewCachingFetcher("default", next, c, nil)

	_, err = f.FetchSchema(context.Background())
	require.Error(t, err)

	_, err = f.FetchSchema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachingFetcher_Refresh(t *testing.T) {
	var calls atomic.Int32
	next := jsongraph.SchemaFetcherFunc(func(context.Context) (any, error) {
		calls.Add(1)
		return map[string]any{}, nil
	})

	c, err := NewSchemaCache(4, 0)
	require.NoError(t, err)
	f := NewCachingFetcher("default", next, c, nil)
	assert.Equal(t, "default", f.Key())

	_, _ = f.FetchSchema(context.Background())
	f.Refresh()
	_, _ = f.FetchSchema(context.Background())

	assert.Equal(t, int32(2), calls.Load())
}
