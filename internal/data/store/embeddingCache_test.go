package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/data/redisStore"
	"github.com/akolanti/GoDocQA/internal/data/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisEmbeddingCache_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := store.TestEmbeddingCache(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	t.Run("Set and Get Roundtrip", func(t *testing.T) {
		err := cache.SetMany(ctx, map[string][]float32{"k1": {0.25, -1}, "k2": {3}})
		if err != nil {
			t.Fatalf("SetMany failed: %v", err)
		}
		got, err := cache.GetMany(ctx, []string{"k1", "k2", "k3"})
		if err != nil {
			t.Fatalf("GetMany failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 hits, got %d", len(got))
		}
		if got["k1"][0] != 0.25 || got["k1"][1] != -1 {
			t.Errorf("Data mismatch for k1: %v", got["k1"])
		}
	})

	t.Run("Entries expire", func(t *testing.T) {
		if ttl := mr.TTL("k1"); ttl != config.RedisEmbeddingCacheTTL {
			t.Errorf("Expected ttl %v, got %v", config.RedisEmbeddingCacheTTL, ttl)
		}
	})

	t.Run("Corrupt entry is a miss", func(t *testing.T) {
		if err := mr.Set("bad", "not json"); err != nil {
			t.Fatal(err)
		}
		got, err := cache.GetMany(ctx, []string{"bad"})
		if err != nil {
			t.Fatalf("GetMany failed: %v", err)
		}
		if _, ok := got["bad"]; ok {
			t.Error("Expected the corrupt entry to be skipped")
		}
	})

	t.Run("Redis down", func(t *testing.T) {
		mr.Close()
		if _, err := cache.GetMany(ctx, []string{"k1"}); err == nil {
			t.Error("Expected an error with redis down")
		}
	})
}

func TestInMemoryEmbeddingCache(t *testing.T) {
	ctx := context.Background()
	cache := store.InitInMemoryEmbeddingCache(2)

	_ = cache.SetMany(ctx, map[string][]float32{"a": {1}, "b": {2}})
	_ = cache.SetMany(ctx, map[string][]float32{"c": {3}})
	if cache.Len() != 2 {
		t.Errorf("Expected the cache to stay at 2 entries, got %d", cache.Len())
	}

	_ = cache.SetMany(ctx, map[string][]float32{"a": {9}})
	got, _ := cache.GetMany(ctx, []string{"a", "c"})
	if len(got) != 1 || got["a"][0] != 9 {
		t.Errorf("Unexpected hits %v", got)
	}
}
