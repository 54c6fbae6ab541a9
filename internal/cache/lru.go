// Package cache provides caching utilities for the MCP server.
package cache

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// store is the subset shared by the plain and expirable LRU caches.
type store interface {
	Get(key string) (any, bool)
	Add(key string, value any) bool
	Remove(key string) bool
	Purge()
	Len() int
}

// SchemaCache provides thread-safe LRU caching for parsed schema documents,
// keyed by the location they were fetched from.
//
// Cached documents are shared between callers and must be treated as
// read-only.
type SchemaCache struct {
	cache store
}

// NewSchemaCache creates a new LRU cache with the specified maximum number of
// items. A positive ttl expires entries after that long.
func NewSchemaCache(maxItems int, ttl time.Duration) (*SchemaCache, error) {
	if ttl > 0 {
		return &SchemaCache{cache: expirable.NewLRU[string, any](maxItems, nil, ttl)}, nil
	}
	c, err := lru.New[string, any](maxItems)
	if err != nil {
		return nil, err
	}
	return &SchemaCache{cache: c}, nil
}

// Get retrieves a schema document by key.
func (c *SchemaCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a schema document.
func (c *SchemaCache) Put(key string, doc any) {
	c.cache.Add(key, doc)
}

// Invalidate drops a single key.
func (c *SchemaCache) Invalidate(key string) {
	c.cache.Remove(key)
}

// Purge drops every cached schema.
func (c *SchemaCache) Purge() {
	c.cache.Purge()
}

// Len returns the current number of items in the cache.
func (c *SchemaCache) Len() int {
	return c.cache.Len()
}

// CachingFetcher wraps a SchemaFetcher so the default schema is fetched once
// and reused. Concurrent misses share a single fetch. Failures are not cached.
type CachingFetcher struct {
	key    string
	next   jsongraph.SchemaFetcher
	cache  *SchemaCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachingFetcher caches the documents next returns under key.
func NewCachingFetcher(key string, next jsongraph.SchemaFetcher, cache *SchemaCache, logger *slog.Logger) *CachingFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingFetcher{key: key, next: next, cache: cache, logger: logger}
}

// Key returns the cache key used for the wrapped fetcher.
func (f *CachingFetcher) Key() string {
	return f.key
}

// FetchSchema implements jsongraph.SchemaFetcher.
func (f *CachingFetcher) FetchSchema(ctx context.Context) (any, error) {
	if doc, ok := f.cache.Get(f.key); ok {
		f.logger.Debug("schema cache hit", slog.String("key", f.key))
		return doc, nil
	}

	doc, err, shared := f.group.Do(f.key, func() (any, error) {
		doc, err := f.next.FetchSchema(ctx)
		if err != nil {
			return nil, err
		}
		f.cache.Put(f.key, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.Debug("schema cache miss",
		slog.String("key", f.key),
		slog.Bool("shared", shared),
	)
	return doc, nil
}

// Refresh drops the cached document so the next call fetches again.
func (f *CachingFetcher) Refresh() {
	f.cache.Invalidate(f.key)
}
