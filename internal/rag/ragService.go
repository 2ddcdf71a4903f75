package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/metrics"
	"github.com/akolanti/GoDocQA/internal/rag/llm"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

// Service answers one question against whatever index the caller passes in.
type Service interface {
	Answer(ctx context.Context, question string, index vectorDB.Index) (commonModels.Answer, error)
}

// QueryEmbedder is the slice of the embedding manager the answerer needs.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

type Options struct {
	K          int
	LLMTimeout time.Duration
}

type service struct {
	embedder    QueryEmbedder
	llmProvider llm.Provider
	opts        Options
	logger      *logger_i.Logger
}

func NewService(em QueryEmbedder, provider llm.Provider, opts Options) Service {
	if opts.K <= 0 {
		opts.K = 3
	}
	return &service{
		embedder:    em,
		llmProvider: provider,
		opts:        opts,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Answer(ctx context.Context, question string, index vectorDB.Index) (commonModels.Answer, error) {
	start := time.Now()
	status := "ok"
	defer func() { metrics.CaptureRequestMetrics(status, time.Since(start)) }()

	if strings.TrimSpace(question) == "" {
		status = "invalid"
		return commonModels.Answer{}, ragError.ErrEmptyQuestion
	}
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if index == nil || index.Len() == 0 {
		inMethodLogger.Debug("No index installed, answering without context")
		text, err := s.executeLLMStep(ctx, inMethodLogger, question)
		if err != nil {
			status = "failed"
			return commonModels.Answer{}, err
		}
		return commonModels.Answer{Result: text, Sources: []string{}}, nil
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		status = "failed"
		inMethodLogger.Error("Embedding step failed", "error", err)
		return commonModels.Answer{}, err
	}

	hits, err := s.executeVectorSearchStep(ctx, inMethodLogger, index, queryVector)
	if err != nil {
		status = "failed"
		return commonModels.Answer{}, err
	}

	sources := make([]string, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, h.Chunk.Content)
	}

	text, err := s.executeLLMStep(ctx, inMethodLogger, BuildGroundedPrompt(question, sources))
	if err != nil {
		status = "failed"
		return commonModels.Answer{}, err
	}
	return commonModels.Answer{Result: text, Sources: sources}, nil
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, index vectorDB.Index, queryVector []float32) ([]commonModels.Hit, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	hits, err := index.Search(ctx, queryVector, s.opts.K)
	if err != nil {
		log.Error("Vector search failed", "error", err)
		return nil, err
	}
	log.Debug("Retrieved context", "hits", len(hits), "k", s.opts.K)
	return hits, nil
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, prompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm", time.Since(start)) }()

	callCtx := ctx
	if s.opts.LLMTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.opts.LLMTimeout)
		defer cancel()
	}

	text, err := s.llmProvider.Generate(callCtx, prompt)
	if err != nil {
		log.Error("LLM step failed", "error", err, "model", s.llmProvider.ModelName())
		if errors.Is(err, ragError.ErrGenerationFailure) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ragError.ErrGenerationFailure, err)
	}
	return text, nil
}

// BuildGroundedPrompt stuffs every retrieved chunk into one prompt ahead of the question.
func BuildGroundedPrompt(question string, contexts []string) string {
	var b strings.Builder
	b.WriteString(config.ModelContext)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(contexts, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nHelpful Answer:")
	return b.String()
}
