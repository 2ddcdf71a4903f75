package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/data/store"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

const (
	documentKeyPrefix = "emb:"
	queryKeyPrefix    = "embq:"
)

// cachedEmbedder memoises vectors by model and text. Rebuilds re-embed every
// chunk of the batch, so unchanged files come straight from the cache.
// Query vectors live under their own prefix; providers may embed queries differently.
type cachedEmbedder struct {
	inner  Embedder
	cache  store.EmbeddingCache
	logger *logger_i.Logger
}

func NewCachedEmbedder(inner Embedder, cache store.EmbeddingCache) Embedder {
	if cache == nil {
		return inner
	}
	return &cachedEmbedder{
		inner:  inner,
		cache:  cache,
		logger: logger_i.NewLogger("Embedding Cache"),
	}
}

func (c *cachedEmbedder) ModelName() string {
	return c.inner.ModelName()
}

func (c *cachedEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := c.key(queryKeyPrefix, text)
	hits, err := c.cache.GetMany(ctx, []string{key})
	if err != nil {
		c.logger.Warn("Embedding cache lookup failed", "error", err)
	} else if v, ok := hits[key]; ok && len(v) > 0 {
		return v, nil
	}

	v, err := c.inner.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", ragError.ErrEmbeddingFailure)
	}
	if err := c.cache.SetMany(ctx, map[string][]float32{key: v}); err != nil {
		c.logger.Warn("Embedding cache write failed", "error", err)
	}
	return v, nil
}

func (c *cachedEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.key(documentKeyPrefix, t)
	}

	hits, err := c.cache.GetMany(ctx, keys)
	if err != nil {
		// a broken cache only costs us the shortcut
		c.logger.Warn("Embedding cache lookup failed", "error", err)
		hits = nil
	}

	result := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, k := range keys {
		if v, ok := hits[k]; ok && len(v) > 0 {
			result[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, texts[i])
	}
	c.logger.Debug("Embedding cache", "hits", len(texts)-len(missIdx), "misses", len(missIdx))
	if len(missTexts) == 0 {
		return result, nil
	}

	fresh, err := c.inner.BatchEmbedding(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ragError.ErrEmbeddingFailure, len(fresh), len(missTexts))
	}

	toStore := make(map[string][]float32, len(fresh))
	for j, i := range missIdx {
		result[i] = fresh[j]
		if len(fresh[j]) > 0 {
			toStore[keys[i]] = fresh[j]
		}
	}
	if err := c.cache.SetMany(ctx, toStore); err != nil {
		c.logger.Warn("Embedding cache write failed", "error", err)
	}
	return result, nil
}

func (c *cachedEmbedder) key(prefix string, text string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + c.inner.ModelName() + ":" + hex.EncodeToString(sum[:])
}
