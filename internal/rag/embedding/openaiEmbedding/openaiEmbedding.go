package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/rag/embedding"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api    openai.Client
	model  string
	logger *logger_i.Logger
}

// NewOpenAIEmbedder works against OpenAI or any server speaking its embeddings API when baseURL is set.
func NewOpenAIEmbedder(apiKey string, baseURL string, model string) embedding.Embedder {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &client{
		api:    openai.NewClient(opts...),
		model:  model,
		logger: logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) ModelName() string {
	return c.model
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err, "batch length", len(texts))
		return nil, err
	}
	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(res.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range res.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("openai returned out of range index %d", d.Index)
		}
		out[d.Index] = toFloat32(d.Embedding)
	}
	return out, nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
