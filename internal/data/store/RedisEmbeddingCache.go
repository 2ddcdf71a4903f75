package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/data/redisStore"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

type RedisEmbeddingCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisEmbeddingCache(ctx context.Context, addr string, password string) (*RedisEmbeddingCache, error) {
	s, err := redisStore.GetRedisStore(ctx, addr, password, config.RedisEmbeddingCacheDB)
	if err != nil {
		return nil, err
	}
	return TestEmbeddingCache(s), nil
}

// TestEmbeddingCache builds the cache on top of an existing store.
func TestEmbeddingCache(s *redisStore.Store) *RedisEmbeddingCache {
	return &RedisEmbeddingCache{
		store:  s,
		logger: logger_i.NewLogger("EmbeddingCache"),
	}
}

func (c *RedisEmbeddingCache) GetMany(ctx context.Context, keys []string) (map[string][]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	raw, err := c.store.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	found := make(map[string][]float32, len(raw))
	for k, v := range raw {
		var vector []float32
		if err := json.Unmarshal([]byte(v), &vector); err != nil {
			log.Warn("Dropping unreadable cached embedding", "key", k, "error", err)
			continue
		}
		found[k] = vector
	}
	return found, nil
}

func (c *RedisEmbeddingCache) SetMany(ctx context.Context, items map[string][]float32) error {
	encoded := make(map[string][]byte, len(items))
	for k, v := range items {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded[k] = data
	}
	return c.store.SetMany(ctx, encoded, config.RedisEmbeddingCacheTTL)
}
