package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/customHttpClient"
	"github.com/akolanti/GoDocQA/internal/rag/llm"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
)

type llmClient struct {
	baseURL  string
	token    string
	settings llm.Settings
	logger   *logger_i.Logger
}

type generationRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters generationParams `json:"parameters"`
	Options    generationOpts   `json:"options"`
}

type generationParams struct {
	Temperature    float64 `json:"temperature"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generationOpts struct {
	WaitForModel bool `json:"wait_for_model"`
}

type generationResponse struct {
	GeneratedText string `json:"generated_text"`
}

// NewHuggingFaceClient uses the hosted text-generation task of the HuggingFace inference API.
func NewHuggingFaceClient(baseURL string, token string, settings llm.Settings) llm.Provider {
	return &llmClient{
		baseURL:  baseURL,
		token:    token,
		settings: settings,
		logger:   logger_i.NewLogger("llm_huggingface"),
	}
}

func (c *llmClient) ModelName() string {
	return c.settings.Model
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	body, err := customHttpClient.PostJSON(ctx, fmt.Sprintf("%s/%s", c.baseURL, c.settings.Model), c.token, generationRequest{
		Inputs: prompt,
		Parameters: generationParams{
			Temperature:    c.settings.Temperature,
			MaxNewTokens:   c.settings.MaxNewTokens,
			ReturnFullText: false,
		},
		Options: generationOpts{WaitForModel: true},
	})
	if err != nil {
		log.Error("Error generating text with HuggingFace", "error", err)
		return "", err
	}
	return decodeGeneration(body)
}

// decodeGeneration accepts the list form and the single object form of the response.
func decodeGeneration(body []byte) (string, error) {
	var list []generationResponse
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return "", errors.New("huggingface returned no generations")
		}
		return list[0].GeneratedText, nil
	}
	var single generationResponse
	if err := json.Unmarshal(body, &single); err != nil {
		return "", fmt.Errorf("unexpected text-generation response: %w", err)
	}
	return single.GeneratedText, nil
}
