package bootstrap

import (
	"context"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/data/store"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/rag"
	"github.com/akolanti/GoDocQA/internal/rag/embedding"
	"github.com/akolanti/GoDocQA/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/GoDocQA/internal/rag/embedding/hfEmbedding"
	"github.com/akolanti/GoDocQA/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/GoDocQA/internal/rag/indexManager"
	"github.com/akolanti/GoDocQA/internal/rag/ingest"
	"github.com/akolanti/GoDocQA/internal/rag/llm"
	"github.com/akolanti/GoDocQA/internal/rag/llm/gemini"
	"github.com/akolanti/GoDocQA/internal/rag/llm/huggingface"
	"github.com/akolanti/GoDocQA/internal/rag/llm/openaiLLM"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/GoDocQA/internal/storage"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

var logger = logger_i.NewLogger("bootstrap")

// App is everything the entry points share.
type App struct {
	Files    *storage.FileStore
	Index    *indexManager.Manager
	Answerer rag.Service
}

// Build wires the providers, cache, backend and managers selected by cfg.
// Background clients (redis, qdrant) are closed when ctx ends.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	embedder, err := NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	embedder = embedding.NewCachedEmbedder(embedder, NewEmbeddingCache(ctx, cfg))

	provider, err := NewLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	builder, err := NewBuilder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	embeddings := embedding.NewManager(embedder, embedding.Options{
		BatchSize:     cfg.EmbeddingBatchSize,
		MaxInputRunes: cfg.EmbeddingMaxInputRunes,
		Timeout:       cfg.EmbeddingTimeout,
	})

	manager := indexManager.NewManager(
		ingest.NewLoader(),
		ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embeddings,
		builder,
		files,
		indexManager.Options{Scope: cfg.RebuildScope, ReleaseGrace: config.QdrantReleaseGrace},
	)

	answerer := rag.NewService(embeddings, provider, rag.Options{K: cfg.RetrievalK, LLMTimeout: cfg.LLMTimeout})

	logger.Info("Services ready",
		"embedding", cfg.EmbeddingProvider, "embedModel", cfg.EmbedModel,
		"llm", cfg.LLMProvider, "llmModel", cfg.LLMModel,
		"backend", builder.Name(), "cache", cfg.EmbeddingCache)

	return &App{Files: files, Index: manager, Answerer: answerer}, nil
}

func NewEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderHuggingFace:
		return hfEmbedding.NewHFEmbedder(cfg.HFBaseURL, cfg.HuggingFaceToken, cfg.EmbedModel), nil
	case config.ProviderGemini:
		return googleEmbedding.NewGoogleEmbedder(ctx, cfg.EmbedModel, cfg.GoogleAPIKey, cfg.EmbeddingDimension)
	case config.ProviderOpenAI:
		return openaiEmbedding.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbedModel), nil
	default:
		return nil, fmt.Errorf("%w: unknown EMBEDDING_PROVIDER %q", ragError.ErrConfiguration, cfg.EmbeddingProvider)
	}
}

func NewLLM(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	settings := llm.Settings{
		Model:        cfg.LLMModel,
		Temperature:  cfg.LLMTemperature,
		MaxNewTokens: cfg.LLMMaxNewTokens,
	}
	switch cfg.LLMProvider {
	case config.ProviderHuggingFace:
		return huggingface.NewHuggingFaceClient(cfg.HFBaseURL, cfg.HuggingFaceToken, settings), nil
	case config.ProviderGemini:
		return gemini.NewGeminiClient(ctx, cfg.GoogleAPIKey, settings)
	case config.ProviderOpenAI:
		return openaiLLM.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, settings), nil
	default:
		return nil, fmt.Errorf("%w: unknown LLM_PROVIDER %q", ragError.ErrConfiguration, cfg.LLMProvider)
	}
}

// NewEmbeddingCache falls back to the in-memory cache when redis is unreachable; nil means no caching.
func NewEmbeddingCache(ctx context.Context, cfg *config.Config) store.EmbeddingCache {
	switch cfg.EmbeddingCache {
	case config.CacheOff:
		return nil
	case config.CacheRedis:
		cache, err := store.GetRedisEmbeddingCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err == nil {
			return cache
		}
		logger.Error("Redis is offline, caching embeddings in memory", "addr", cfg.RedisAddr, "error", err)
	}
	return store.InitInMemoryEmbeddingCache(0)
}

// NewBuilder connects to qdrant when it is the configured backend and drops collections left by earlier runs.
func NewBuilder(ctx context.Context, cfg *config.Config) (vectorDB.Builder, error) {
	switch cfg.VectorBackend {
	case config.BackendMemory:
		return memoryDB.NewBuilder(), nil
	case config.BackendQdrant:
		b, err := qdrantDB.NewBuilder(ctx, cfg.QdrantHost, cfg.QdrantPort)
		if err != nil {
			return nil, err
		}
		if err := b.PruneStale(ctx); err != nil {
			logger.Warn("Could not prune stale collections", "error", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown VECTOR_BACKEND %q", ragError.ErrConfiguration, cfg.VectorBackend)
	}
}
