package llm

import "context"

// Provider turns a finished prompt into text. Prompt assembly belongs to the caller.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// Settings shared by every provider.
type Settings struct {
	Model        string
	Temperature  float64
	MaxNewTokens int
}
