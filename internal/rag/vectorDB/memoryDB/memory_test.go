package memoryDB

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
)

func entry(content string, v ...float32) commonModels.Entry {
	return commonModels.Entry{Chunk: commonModels.DocChunk{ChunkId: content, Content: content}, Vector: v}
}

func TestBuild_Errors(t *testing.T) {
	b := NewBuilder()
	tests := []struct {
		name    string
		entries []commonModels.Entry
		wantErr error
	}{
		{"no entries", nil, ragError.ErrEmptyIndex},
		{"empty vector", []commonModels.Entry{entry("a")}, ragError.ErrEmbeddingFailure},
		{"mixed dimensions", []commonModels.Entry{entry("a", 1, 0), entry("b", 1, 0, 0)}, ragError.ErrEmbeddingFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.Build(context.Background(), tt.entries); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearch_RanksByCosine(t *testing.T) {
	ix, err := NewBuilder().Build(context.Background(), []commonModels.Entry{
		entry("sky", 1, 0, 0),
		entry("grass", 0, 1, 0),
		entry("mixed", 10, 10, 0),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if ix.Len() != 3 || ix.Dimension() != 3 {
		t.Fatalf("unexpected index shape len=%d dim=%d", ix.Len(), ix.Dimension())
	}

	hits, err := ix.Search(context.Background(), []float32{0.9, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].Chunk.Content != "sky" || hits[1].Chunk.Content != "mixed" {
		t.Errorf("unexpected order %s, %s", hits[0].Chunk.Content, hits[1].Chunk.Content)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits are not sorted by score")
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	ix, _ := NewBuilder().Build(context.Background(), []commonModels.Entry{
		entry("first", 1, 1),
		entry("second", 1, 1),
		entry("third", 1, 1),
	})
	hits, _ := ix.Search(context.Background(), []float32{1, 1}, 3)
	for i, want := range []string{"first", "second", "third"} {
		if hits[i].Chunk.Content != want {
			t.Errorf("hit %d = %s, want %s", i, hits[i].Chunk.Content, want)
		}
	}
}

func TestSearch_Bounds(t *testing.T) {
	ix, _ := NewBuilder().Build(context.Background(), []commonModels.Entry{entry("a", 1, 0), entry("b", 0, 1)})

	hits, err := ix.Search(context.Background(), []float32{1, 0}, 10)
	if err != nil || len(hits) != 2 {
		t.Errorf("k above size: got %d hits, err %v", len(hits), err)
	}
	hits, err = ix.Search(context.Background(), []float32{1, 0}, 0)
	if err != nil || len(hits) != 0 {
		t.Errorf("k=0: got %d hits, err %v", len(hits), err)
	}
	if _, err := ix.Search(context.Background(), []float32{1, 0, 0}, 1); !errors.Is(err, ragError.ErrEmbeddingFailure) {
		t.Errorf("dimension mismatch: got %v", err)
	}
}

func TestSearch_DoesNotMutateQuery(t *testing.T) {
	ix, _ := NewBuilder().Build(context.Background(), []commonModels.Entry{entry("a", 3, 4)})
	q := []float32{3, 4}
	hits, _ := ix.Search(context.Background(), q, 1)
	if q[0] != 3 || q[1] != 4 {
		t.Errorf("query was modified: %v", q)
	}
	if math.Abs(float64(hits[0].Score)-1) > 1e-6 {
		t.Errorf("identical direction should score 1, got %f", hits[0].Score)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	got := normalize([]float32{0, 0})
	if got[0] != 0 || got[1] != 0 {
		t.Errorf("zero vector should stay zero, got %v", got)
	}
}
