package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/rag/llm"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client   *genai.Client
	settings llm.Settings
	logger   *logger_i.Logger
}

func NewGeminiClient(ctx context.Context, apikey string, settings llm.Settings) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	logger.Info("Gemini client created", "model", settings.Model)
	return &llmClient{client: c, settings: settings, logger: logger}, nil
}

func (c *llmClient) ModelName() string {
	return c.settings.Model
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	contentConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.settings.Temperature)),
		MaxOutputTokens: int32(c.settings.MaxNewTokens),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.settings.Model, genai.Text(prompt), contentConfig)
	if err != nil {
		log.Error("Error generating content with Gemini", "error", err)
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return result.Text(), nil
}
