package assist

import (
	"context"
	"errors"
)

// errEmptyResponse is returned by generators when the provider answers with no text.
var errEmptyResponse = errors.New("empty model response")

// errNullSuggestion is returned when the model answers with a JSON null.
var errNullSuggestion = errors.New("model returned null suggestion")

// Generator sends single-shot prompts to a generative-AI provider.
// Implementations must be safe for concurrent use.
type Generator interface {
	// GenerateJSON asks for a JSON object matching schema and returns the raw text.
	GenerateJSON(ctx context.Context, prompt string, schema Schema) (string, error)

	// GenerateText asks for free-form text.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name, e.g. "gemini".
	Name() string

	// Model returns the model identifier sent with every request.
	Model() string
}

// closer is implemented by generators that hold releasable resources.
type closer interface {
	Close() error
}

// Ensure provider adapters implement Generator.
var (
	_ Generator = (*GeminiGenerator)(nil)
	_ Generator = (*OpenAIGenerator)(nil)
)
