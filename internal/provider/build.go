package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/career-roadmap/ai-gateway/internal/config"
)

// Build creates one client per engine that has credentials. Engines without a key
// are skipped; asking for them later fails at dispatch time.
func Build(ctx context.Context, cfg config.ProvidersConfig, log zerolog.Logger) (*Registry, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	var providers []Provider

	if cfg.GeminiAPIKey != "" {
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		providers = append(providers, g)
	}
	if cfg.GroqAPIKey != "" {
		providers = append(providers, NewChatCompletions(ChatCompletionsConfig{
			Name:       Groq,
			BaseURL:    cfg.GroqBaseURL,
			APIKey:     cfg.GroqAPIKey,
			Model:      cfg.GroqModel,
			HTTPClient: httpClient,
		}))
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, NewChatCompletions(ChatCompletionsConfig{
			Name:       OpenAI,
			BaseURL:    cfg.OpenAIBaseURL,
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			HTTPClient: httpClient,
		}))
	}
	if cfg.HFAPIKey != "" {
		providers = append(providers, NewHuggingFace(HuggingFaceConfig{
			BaseURL:    cfg.HFBaseURL,
			APIKey:     cfg.HFAPIKey,
			Model:      cfg.HFModel,
			HTTPClient: httpClient,
		}))
	}

	reg := NewRegistry(providers...)
	if len(providers) == 0 {
		log.Warn().Msg("no provider credentials found; only the fallback engine is available")
	} else {
		log.Info().Strs("engines", reg.Names()).Msg("provider registry built")
	}
	return reg, nil
}
