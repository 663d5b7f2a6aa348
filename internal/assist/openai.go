package assist

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ProviderOpenAI is the Generator name of the OpenAI adapter.
const ProviderOpenAI = "openai"

// OpenAIConfig configures the OpenAI adapter.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIGenerator calls the OpenAI chat completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates an OpenAI adapter for the given key and model.
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	return NewOpenAIGeneratorWithConfig(OpenAIConfig{APIKey: apiKey, Model: model})
}

// NewOpenAIGeneratorWithConfig creates an OpenAI adapter from cfg.
func NewOpenAIGeneratorWithConfig(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// GenerateJSON requests a json_schema response format built from schema.
func (g *OpenAIGenerator) GenerateJSON(ctx context.Context, prompt string, schema Schema) (string, error) {
	required := schema.RequiredNames()
	format := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   schema.Name,
		Schema: openAISchema(schema),
		// Strict mode rejects schemas with optional properties.
		Strict: openai.Bool(len(required) == len(schema.Fields)),
	}
	if schema.Description != "" {
		format.Description = openai.String(schema.Description)
	}

	return g.complete(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: format},
		},
	})
}

// GenerateText requests free-form text.
func (g *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
	})
}

func (g *OpenAIGenerator) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", errEmptyResponse)
	}

	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("openai: %w", errEmptyResponse)
	}
	return text, nil
}

// Name returns "openai".
func (g *OpenAIGenerator) Name() string { return ProviderOpenAI }

// Model returns the configured model identifier.
func (g *OpenAIGenerator) Model() string { return g.model }

func openAISchema(s Schema) map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Type {
		case FieldStringArray:
			props[f.Name] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			}
		default:
			props[f.Name] = map[string]any{"type": "string"}
		}
	}

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             s.RequiredNames(),
		"additionalProperties": false,
	}
}
