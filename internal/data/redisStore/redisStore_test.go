package redisStore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStore_MGetAndSetMany(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewTestStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	err := s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, time.Hour)
	if err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}

	got, err := s.MGet(ctx, "a", "missing", "b")
	if err != nil {
		t.Fatalf("MGet failed: %v", err)
	}
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Errorf("unexpected values %v", got)
	}
	if ttl := mr.TTL("a"); ttl != time.Hour {
		t.Errorf("expected a one hour ttl, got %v", ttl)
	}

	if _, err := s.Get(ctx, "missing"); !s.IsNil(err) {
		t.Errorf("expected redis.Nil for a missing key, got %v", err)
	}
}

func TestGetRedisStore_Offline(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := GetRedisStore(context.Background(), addr, "", 9); err == nil {
		t.Error("expected an error when redis is down")
	}
}

func TestGetRedisStore_Shared(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := GetRedisStore(ctx, mr.Addr(), "", 5)
	if err != nil {
		t.Fatalf("GetRedisStore failed: %v", err)
	}
	second, err := GetRedisStore(ctx, mr.Addr(), "", 5)
	if err != nil {
		t.Fatalf("GetRedisStore failed: %v", err)
	}
	if first != second {
		t.Error("expected the same store for the same database")
	}
}
