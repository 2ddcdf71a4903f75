package vectorDB

import (
	"context"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
)

// Index is an immutable, searchable set of embedded chunks. It is safe for concurrent Search calls.
type Index interface {
	// Search returns at most k hits, best first. Ties keep insertion order.
	Search(ctx context.Context, query []float32, k int) ([]commonModels.Hit, error)
	Len() int
	Dimension() int
	// Release frees whatever backs the index. The index must not be searched afterwards.
	Release(ctx context.Context) error
}

// Builder turns embedded chunks into a new Index. It never mutates an existing one.
type Builder interface {
	Build(ctx context.Context, entries []commonModels.Entry) (Index, error)
	Name() string
}
