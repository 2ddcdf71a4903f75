package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/akolanti/GoDocQA/internal/adapter/utils"
	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

const upsertBatchSize = 256

const (
	payloadContent  = "content"
	payloadChunkId  = "chunk_id"
	payloadOrder    = "chunk_order"
	payloadMetadata = "metadata"
	payloadPosition = "position"
)

// Builder writes every build into a fresh collection, so a live index is never modified.
type Builder struct {
	client *qdrant.Client
	prefix string
	logger *logger_i.Logger
}

func NewBuilder(ctx context.Context, host string, port int) (*Builder, error) {
	logger := logger_i.NewLogger("Qdrant")
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, fmt.Errorf("%w: qdrant client: %w", ragError.ErrStorageFailure, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if _, err := client.HealthCheck(pingCtx); err != nil {
		_ = client.Close()
		logger.Error("Qdrant is offline", "host", host, "port", port, "error", err)
		return nil, fmt.Errorf("%w: qdrant at %s:%d: %w", ragError.ErrStorageFailure, host, port, err)
	}

	b := &Builder{client: client, prefix: config.QdrantCollectionPrefix, logger: logger}
	go b.closeOnDone(ctx)
	return b, nil
}

func (b *Builder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	b.logger.Info("Shutting down Qdrant")
	if err := b.client.Close(); err != nil {
		b.logger.Error("could not close Qdrant", "error", err)
	}
	b.logger.Info("Closed Qdrant")
}

func (b *Builder) Name() string {
	return "qdrant"
}

// PruneStale drops collections left behind by earlier processes. Indexes are not persisted across restarts.
func (b *Builder) PruneStale(ctx context.Context) error {
	names, err := b.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("%w: listing collections: %w", ragError.ErrStorageFailure, err)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, b.prefix) {
			continue
		}
		if err := b.client.DeleteCollection(ctx, name); err != nil {
			b.logger.Warn("could not drop stale collection", "collectionName", name, "error", err)
			continue
		}
		b.logger.Info("Dropped stale collection", "collectionName", name)
	}
	return nil
}

func (b *Builder) Build(ctx context.Context, entries []commonModels.Entry) (vectorDB.Index, error) {
	if len(entries) == 0 {
		return nil, ragError.ErrEmptyIndex
	}
	dimension := len(entries[0].Vector)
	for i, e := range entries {
		if len(e.Vector) != dimension || dimension == 0 {
			return nil, fmt.Errorf("%w: entry %d has dimension %d, expected %d", ragError.ErrEmbeddingFailure, i, len(e.Vector), dimension)
		}
	}

	name := b.prefix + utils.GetNewUUID()
	log := b.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "collectionName", name)

	if err := createCollection(ctx, b.client, name, uint64(dimension)); err != nil {
		log.Error("could not create collection", "error", err)
		return nil, fmt.Errorf("%w: create collection: %w", ragError.ErrStorageFailure, err)
	}

	for start := 0; start < len(entries); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(entries))
		if err := b.upsertBatch(ctx, name, entries[start:end], start); err != nil {
			log.Error("upsert failed, dropping collection", "error", err)
			if dropErr := b.client.DeleteCollection(context.WithoutCancel(ctx), name); dropErr != nil {
				log.Error("could not drop half built collection", "error", dropErr)
			}
			return nil, fmt.Errorf("%w: %w", ragError.ErrStorageFailure, err)
		}
	}

	log.Info("Collection built", "points", len(entries), "dimension", dimension)
	return &index{client: b.client, collection: name, size: len(entries), dimension: dimension, logger: b.logger}, nil
}

func (b *Builder) upsertBatch(ctx context.Context, collectionName string, entries []commonModels.Entry, offset int) error {
	qdrantPoints := make([]*qdrant.PointStruct, len(entries))

	for i, e := range entries {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(e.Chunk.ChunkId),
			Vectors: qdrant.NewVectors(e.Vector...),
			Payload: qdrant.NewValueMap(toPayload(e.Chunk, offset+i)),
		}
	}

	_, err := b.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

type index struct {
	client     *qdrant.Client
	collection string
	size       int
	dimension  int
	logger     *logger_i.Logger
}

func (ix *index) Len() int {
	return ix.size
}

func (ix *index) Dimension() int {
	return ix.dimension
}

func (ix *index) Search(ctx context.Context, query []float32, k int) ([]commonModels.Hit, error) {
	if k <= 0 || ix.size == 0 {
		return []commonModels.Hit{}, nil
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d", ragError.ErrEmbeddingFailure, len(query), ix.dimension)
	}
	log := ix.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	limit := k + tieSlack
	hits, err := ix.query(ctx, query, limit, nil)
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, err
	}
	if tieAtCut(hits, k, limit) {
		threshold := hits[k-1].Score
		log.Debug("Tie at the cut, fetching every tied point", "score", threshold)
		if hits, err = ix.query(ctx, query, ix.size, &threshold); err != nil {
			log.Error("Error querying Qdrant", "error", err)
			return nil, err
		}
	}

	hits = topK(hits, k)
	log.Debug("Found matches", "count", len(hits))
	return hits, nil
}

func (ix *index) query(ctx context.Context, query []float32, limit int, threshold *float32) ([]commonModels.Hit, error) {
	result, err := ix.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ix.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		ScoreThreshold: threshold,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant query: %w", ragError.ErrStorageFailure, err)
	}

	hits := make([]commonModels.Hit, 0, len(result))
	for _, point := range result {
		hits = append(hits, commonModels.Hit{
			Chunk: fromPayload(point.GetPayload()),
			Score: point.GetScore(),
		})
	}
	return hits, nil
}

func (ix *index) Release(ctx context.Context) error {
	if err := ix.client.DeleteCollection(ctx, ix.collection); err != nil {
		return fmt.Errorf("%w: drop collection %s: %w", ragError.ErrStorageFailure, ix.collection, err)
	}
	ix.logger.Info("Released collection", "collectionName", ix.collection)
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func toPayload(chunk commonModels.DocChunk, position int) map[string]any {
	meta := make(map[string]any, len(chunk.Metadata))
	for k, v := range chunk.Metadata {
		meta[k] = v
	}
	return map[string]any{
		payloadContent:  chunk.Content,
		payloadChunkId:  chunk.ChunkId,
		payloadOrder:    int64(chunk.Order),
		payloadPosition: int64(position),
		payloadMetadata: meta,
	}
}

func fromPayload(payload map[string]*qdrant.Value) commonModels.DocChunk {
	chunk := commonModels.DocChunk{
		ChunkId:  payload[payloadChunkId].GetStringValue(),
		Content:  payload[payloadContent].GetStringValue(),
		Order:    int(payload[payloadOrder].GetIntegerValue()),
		Metadata: map[string]string{},
	}
	for k, v := range payload[payloadMetadata].GetStructValue().GetFields() {
		chunk.Metadata[k] = v.GetStringValue()
	}
	chunk.Metadata[payloadPosition] = strconv.FormatInt(payload[payloadPosition].GetIntegerValue(), 10)
	return chunk
}
