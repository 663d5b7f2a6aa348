package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ashureev/widget-assist/internal/config"
)

// GeneratorFactory builds a provider client from AI configuration.
type GeneratorFactory func(ctx context.Context, cfg config.AIConfig) (Generator, error)

// Service produces widget copy and submission notifications, preferring the
// generative model when one is configured. Its methods never return errors:
// every failure resolves to a value the caller can show.
//
// A Service is immutable after construction and safe for concurrent use.
type Service struct {
	mode   Mode
	gen    Generator
	logger *slog.Logger
}

// NewService creates a service in active mode around gen. A nil gen yields a
// disabled service.
func NewService(gen Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if gen == nil {
		return &Service{mode: ModeDisabled, logger: logger}
	}
	return &Service{mode: ModeActive, gen: gen, logger: logger}
}

// NewDisabledService creates a service that only serves fallbacks.
func NewDisabledService(logger *slog.Logger) *Service {
	return NewService(nil, logger)
}

// Open builds the service from configuration using the provider named in cfg.
func Open(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) *Service {
	return OpenWithFactory(ctx, cfg, NewGenerator, logger)
}

// OpenWithFactory builds the service from configuration. A missing credential
// or a factory failure leaves the service disabled; neither is reported as an
// error.
func OpenWithFactory(ctx context.Context, cfg config.AIConfig, factory GeneratorFactory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled() {
		logger.Info("AI assistance disabled: no API key configured", "provider", cfg.Provider)
		return NewDisabledService(logger)
	}

	gen, err := factory(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize AI client, AI assistance will be disabled",
			"provider", cfg.Provider,
			"error", err,
		)
		return NewDisabledService(logger)
	}

	logger.Info("AI assistance enabled", "provider", gen.Name(), "model", gen.Model())
	return NewService(gen, logger)
}

// NewGenerator constructs the Generator for cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiGenerator(ctx, cfg.Credential(), cfg.Model)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.Credential(), cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}

// Mode returns the service mode.
func (s *Service) Mode() Mode {
	return s.mode
}

// Enabled reports whether calls go to the provider.
func (s *Service) Enabled() bool {
	return s.mode == ModeActive
}

// Provider returns the provider name, or "" when disabled.
func (s *Service) Provider() string {
	if s.gen == nil {
		return ""
	}
	return s.gen.Name()
}

// Model returns the model identifier, or "" when disabled.
func (s *Service) Model() string {
	if s.gen == nil {
		return ""
	}
	return s.gen.Model()
}

// SuggestWidgetCopy proposes three call-to-action titles and a supporting
// sentence for a widget described by description.
//
// Disabled services return FallbackSuggestion. Active services return the
// model's answer, or nil when the request or its decoding fails.
func (s *Service) SuggestWidgetCopy(ctx context.Context, description string) *Suggestion {
	if s.mode != ModeActive {
		s.logger.Info("AI assistance disabled: no API key configured")
		return FallbackSuggestion()
	}

	suggestion, err := s.suggest(ctx, description)
	if err != nil {
		s.logger.Error("AI assistance failed",
			"provider", s.gen.Name(),
			"model", s.gen.Model(),
			"error", err,
		)
		return nil
	}
	return suggestion
}

func (s *Service) suggest(ctx context.Context, description string) (*Suggestion, error) {
	raw, err := s.gen.GenerateJSON(ctx, suggestionPrompt(description), suggestionSchema)
	if err != nil {
		return nil, fmt.Errorf("generate suggestion: %w", err)
	}

	var suggestion *Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	if suggestion == nil {
		return nil, errNullSuggestion
	}
	return suggestion, nil
}

// SimulateTelegramSubmission writes the Telegram message announcing a widget
// submission. It falls back to FormatSubmission when disabled or when the
// provider fails.
func (s *Service) SimulateTelegramSubmission(ctx context.Context, widgetName, channel, value string) string {
	if s.mode != ModeActive {
		return FormatSubmission(widgetName, channel, value)
	}

	text, err := s.gen.GenerateText(ctx, submissionPrompt(widgetName, channel, value))
	if err != nil {
		s.logger.Debug("Submission message generation failed, using plain format",
			"widget", widgetName,
			"error", err,
		)
		return FormatSubmission(widgetName, channel, value)
	}
	return text
}

// Close releases the generator, if it holds resources.
func (s *Service) Close() {
	c, ok := s.gen.(closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		s.logger.Warn("failed to close AI client", "error", err)
	}
}
