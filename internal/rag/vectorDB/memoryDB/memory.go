package memoryDB

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
)

type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Name() string {
	return "memory"
}

func (b *Builder) Build(ctx context.Context, entries []commonModels.Entry) (vectorDB.Index, error) {
	if len(entries) == 0 {
		return nil, ragError.ErrEmptyIndex
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dimension := len(entries[0].Vector)
	if dimension == 0 {
		return nil, fmt.Errorf("%w: entry 0 has no vector", ragError.ErrEmbeddingFailure)
	}

	stored := make([]storedEntry, len(entries))
	for i, e := range entries {
		if len(e.Vector) != dimension {
			return nil, fmt.Errorf("%w: entry %d has dimension %d, expected %d", ragError.ErrEmbeddingFailure, i, len(e.Vector), dimension)
		}
		stored[i] = storedEntry{chunk: e.Chunk, vector: normalize(e.Vector)}
	}
	return &index{entries: stored, dimension: dimension}, nil
}

type storedEntry struct {
	chunk  commonModels.DocChunk
	vector []float32
}

// index keeps unit vectors, so a dot product is the cosine similarity.
type index struct {
	entries   []storedEntry
	dimension int
}

func (ix *index) Len() int {
	return len(ix.entries)
}

func (ix *index) Dimension() int {
	return ix.dimension
}

func (ix *index) Release(ctx context.Context) error {
	return nil
}

func (ix *index) Search(ctx context.Context, query []float32, k int) ([]commonModels.Hit, error) {
	if k <= 0 || len(ix.entries) == 0 {
		return []commonModels.Hit{}, nil
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d", ragError.ErrEmbeddingFailure, len(query), ix.dimension)
	}

	q := normalize(query)
	hits := make([]commonModels.Hit, len(ix.entries))
	for i, e := range ix.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = commonModels.Hit{Chunk: e.chunk, Score: dot(q, e.vector)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func dot(a []float32, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize returns a unit length copy. A zero vector stays zero and scores 0 against everything.
func normalize(v []float32) []float32 {
	var sq float64
	for _, x := range v {
		sq += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sq == 0 {
		return out
	}
	norm := float32(math.Sqrt(sq))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
