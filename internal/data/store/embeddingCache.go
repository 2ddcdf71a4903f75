package store

import (
	"context"
	"sync"
)

// EmbeddingCache maps a cache key to a vector. Misses are simply absent from the result.
type EmbeddingCache interface {
	GetMany(ctx context.Context, keys []string) (map[string][]float32, error)
	SetMany(ctx context.Context, items map[string][]float32) error
}

const defaultMaxInMemoryEntries = 100_000

type InMemoryEmbeddingCache struct {
	mu         sync.RWMutex
	vectors    map[string][]float32
	maxEntries int
}

func InitInMemoryEmbeddingCache(maxEntries int) *InMemoryEmbeddingCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxInMemoryEntries
	}
	return &InMemoryEmbeddingCache{
		vectors:    make(map[string][]float32),
		maxEntries: maxEntries,
	}
}

func (c *InMemoryEmbeddingCache) GetMany(ctx context.Context, keys []string) (map[string][]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	found := make(map[string][]float32, len(keys))
	for _, k := range keys {
		if v, ok := c.vectors[k]; ok {
			found[k] = v
		}
	}
	return found, nil
}

// SetMany stops accepting new keys once the cache is full; existing keys are still overwritten.
func (c *InMemoryEmbeddingCache) SetMany(ctx context.Context, items map[string][]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range items {
		if _, ok := c.vectors[k]; !ok && len(c.vectors) >= c.maxEntries {
			continue
		}
		c.vectors[k] = v
	}
	return nil
}

func (c *InMemoryEmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
