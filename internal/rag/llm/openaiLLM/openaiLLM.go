package openaiLLM

import (
	"context"
	"errors"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/rag/llm"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	api      openai.Client
	settings llm.Settings
	logger   *logger_i.Logger
}

// NewOpenAIClient also serves OpenAI compatible servers when baseURL is set.
func NewOpenAIClient(apiKey string, baseURL string, settings llm.Settings) llm.Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &llmClient{
		api:      openai.NewClient(opts...),
		settings: settings,
		logger:   logger_i.NewLogger("llm_openai"),
	}
}

func (c *llmClient) ModelName() string {
	return c.settings.Model
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(c.settings.Model),
		Temperature: openai.Float(c.settings.Temperature),
	}
	if c.settings.MaxNewTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(c.settings.MaxNewTokens))
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Error("Error generating completion with OpenAI", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
