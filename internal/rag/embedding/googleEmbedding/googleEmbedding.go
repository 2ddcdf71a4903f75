package googleEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/akolanti/GoDocQA/internal/rag/embedding"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"google.golang.org/genai"
)

const (
	defaultDimension int32 = 768

	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

func NewGoogleEmbedder(ctx context.Context, modelName string, apikey string, dimension int32) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil, fmt.Errorf("%w: google embedding client: %w", ragError.ErrConfiguration, err)
	}
	if dimension <= 0 {
		dimension = defaultDimension
	}
	logger.Info("Google Embedding client created", "model", modelName, "dimension", dimension)
	return &client{genAi: c, model: modelName, dimension: dimension, logger: logger}, nil
}

func (c *client) ModelName() string {
	return c.model
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.doCall(ctx, genai.Text(query), taskQuery)
	if err != nil {
		log.Error("Error getting query Embedding from Google", "error", err, "rateLimited", isRateLimited(err))
		return nil, err
	}
	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, errors.New("google returned no embedding")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	results := make([][]float32, 0, len(chunks))
	for _, part := range splitRequests(chunks, maxRequestsPerCall) {
		res, err := c.doCall(ctx, getContent(part), taskDocument)
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err, "rateLimited", isRateLimited(err), "batch length", len(part))
			return nil, err
		}
		if len(res.Embeddings) != len(part) {
			return nil, fmt.Errorf("google returned %d embeddings for %d texts", len(res.Embeddings), len(part))
		}
		for _, r := range res.Embeddings {
			if r == nil {
				results = append(results, nil)
				continue
			}
			results = append(results, r.Values)
		}
	}
	return results, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, task string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             task,
	})
}
