package hfEmbedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/customHttpClient"
	"github.com/akolanti/GoDocQA/internal/rag/embedding"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

type client struct {
	baseURL string
	token   string
	model   string
	logger  *logger_i.Logger
}

type featureRequest struct {
	Inputs  []string        `json:"inputs"`
	Options *featureOptions `json:"options,omitempty"`
}

type featureOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHFEmbedder talks to the HuggingFace feature-extraction pipeline.
func NewHFEmbedder(baseURL string, token string, model string) embedding.Embedder {
	return &client{
		baseURL: baseURL,
		token:   token,
		model:   model,
		logger:  logger_i.NewLogger("hf_embedding"),
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
	if len(texts) == 0 {
		return nil, nil
	}
	url := fmt.Sprintf("%s/%s/pipeline/feature-extraction", c.baseURL, c.model)
	body, err := customHttpClient.PostJSON(ctx, url, c.token, featureRequest{
		Inputs:  texts,
		Options: &featureOptions{WaitForModel: true},
	})
	if err != nil {
		c.logger.Error("Error getting Embeddings from HuggingFace", "error", err, "batch length", len(texts))
		return nil, err
	}
	return decodeFeatures(body)
}

// decodeFeatures accepts pooled sentence vectors or token level vectors, which it mean-pools.
func decodeFeatures(body []byte) ([][]float32, error) {
	var pooled [][]float32
	if err := json.Unmarshal(body, &pooled); err == nil {
		return pooled, nil
	}

	var tokens [][][]float32
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("unexpected feature-extraction response: %w", err)
	}
	out := make([][]float32, len(tokens))
	for i, tok := range tokens {
		if len(tok) == 0 {
			continue
		}
		sum := make([]float32, len(tok[0]))
		for _, t := range tok {
			for j := 0; j < len(sum) && j < len(t); j++ {
				sum[j] += t[j]
			}
		}
		for j := range sum {
			sum[j] /= float32(len(tok))
		}
		out[i] = sum
	}
	return out, nil
}
