package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/metrics"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// Embedder is the narrow contract every embedding provider implements.
// Implementations must be deterministic for a given model and text.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

type Options struct {
	BatchSize     int
	MaxInputRunes int
	Timeout       time.Duration
	Concurrency   int
}

// Manager runs chunks through an Embedder in batches and enforces the failure policy.
type Manager struct {
	embedder Embedder
	opts     Options
	logger   *logger_i.Logger
}

func NewManager(e Embedder, opts Options) *Manager {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 64
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = config.EmbeddingBatchConcurrency
	}
	return &Manager{
		embedder: e,
		opts:     opts,
		logger:   logger_i.NewLogger("Embedding Manager"),
	}
}

func (m *Manager) ModelName() string {
	return m.embedder.ModelName()
}

// EmbedChunks returns one Entry per chunk, in chunk order.
func (m *Manager) EmbedChunks(ctx context.Context, chunks []commonModels.DocChunk) ([]commonModels.Entry, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding_batch", time.Since(start)) }()

	vectors := make([][]float32, len(chunks))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(m.opts.Concurrency)

	for i := 0; i < len(chunks); i += m.opts.BatchSize {
		end := min(i+m.opts.BatchSize, len(chunks))
		offset := i
		texts := make([]string, 0, end-i)
		for _, c := range chunks[i:end] {
			texts = append(texts, Truncate(c.Content, m.opts.MaxInputRunes))
		}

		group.Go(func() error {
			callCtx, cancel := m.withTimeout(groupCtx)
			defer cancel()

			m.logger.Debug("Starting embedding call", "offset", offset, "batch length", len(texts))
			batch, err := m.embedder.BatchEmbedding(callCtx, texts)
			if err != nil {
				return embeddingErr(err)
			}
			if len(batch) != len(texts) {
				return fmt.Errorf("%w: got %d vectors for %d chunks", ragError.ErrEmbeddingFailure, len(batch), len(texts))
			}
			copy(vectors[offset:], batch)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	entries := make([]commonModels.Entry, len(chunks))
	dimension := 0
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty vector for chunk %d", ragError.ErrEmbeddingFailure, i)
		}
		if dimension == 0 {
			dimension = len(v)
		} else if len(v) != dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d", ragError.ErrEmbeddingFailure, i, len(v), dimension)
		}
		entries[i] = commonModels.Entry{Chunk: chunks[i], Vector: v}
	}
	m.logger.Debug("Embedded chunks", "chunks", len(entries), "dimension", dimension, "model", m.ModelName())
	return entries, nil
}

func (m *Manager) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	callCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	v, err := m.embedder.GetEmbedding(callCtx, Truncate(query, m.opts.MaxInputRunes))
	if err != nil {
		return nil, embeddingErr(err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", ragError.ErrEmbeddingFailure)
	}
	return v, nil
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.opts.Timeout)
}

func embeddingErr(err error) error {
	if errors.Is(err, ragError.ErrEmbeddingFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", ragError.ErrEmbeddingFailure, err)
}

// Truncate cuts text to maxRunes. Models have an input limit; the tail of an oversized chunk is dropped
// instead of failing the whole rebuild.
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	return string([]rune(text)[:maxRunes])
}
