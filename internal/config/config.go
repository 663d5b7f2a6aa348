// Package config provides application configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/codingconcepts/env"
	"github.com/samber/lo"
)

// Supported generative-AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models used when AI_MODEL is unset.
const (
	DefaultGeminiModel = "gemini-3-flash-preview"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Config holds all application configuration.
type Config struct {
	Port           string        `env:"PORT" default:"8080"`
	FrontendURL    string        `env:"FRONTEND_URL"`
	DBPath         string        `env:"DB_PATH" default:"./data/widgets.db"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" default:"*"`
	GRPCHealthPort string        `env:"GRPC_HEALTH_PORT"`
	SubmissionTTL  time.Duration `env:"SUBMISSION_TTL" default:"0s"` // 0 disables retention
	AI             AIConfig
}

// AIConfig selects and authenticates the generative-AI backend. An empty
// credential is not an error: it switches the assistance client to fallback mode.
type AIConfig struct {
	Provider     string `env:"AI_PROVIDER" default:"gemini"`
	Model        string `env:"AI_MODEL"`
	APIKey       string `env:"API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Set(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := env.Set(&cfg.AI); err != nil {
		return nil, fmt.Errorf("read AI environment: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.AI.Model = strings.TrimSpace(cfg.AI.Model)
	if cfg.AI.Model == "" {
		cfg.AI.Model = DefaultModel(cfg.AI.Provider)
	}
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SubmissionTTL < 0 {
		return fmt.Errorf("SUBMISSION_TTL cannot be negative")
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("AI_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.AI.Provider)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("AI_MODEL cannot be empty")
	}
	return nil
}

// DefaultModel returns the model used for provider when AI_MODEL is unset.
func DefaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// normalizeOrigins trims comma-separated entries and drops empty ones.
func normalizeOrigins(origins []string) []string {
	return lo.Compact(lo.Map(origins, func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// Credential returns the API key for the configured provider. API_KEY wins,
// then the provider-specific variable.
func (a AIConfig) Credential() string {
	if a.APIKey != "" {
		return a.APIKey
	}
	if a.Provider == ProviderOpenAI {
		return a.OpenAIAPIKey
	}
	return a.GeminiAPIKey
}

// Enabled reports whether a non-empty credential is configured.
func (a AIConfig) Enabled() bool {
	return len(a.Credential()) > 0
}
