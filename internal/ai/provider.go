package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/freedom_case_2/replydraft/internal/config"
)

// FromConfig builds the configured provider wrapped in Resilient. The returned
// closer releases provider resources.
func FromConfig(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Capability, func() error, error) {
	var (
		base   Capability
		closer = func() error { return nil }
	)
	switch cfg.GenerativeProvider {
	case "openai":
		base = &OpenAICompatCapability{
			BaseURL:  cfg.GenerativeBaseURL,
			Model:    cfg.GenerativeModel,
			APIKey:   cfg.GenerativeAPIKey,
			CacheTTL: cfg.GenerativeCacheTTL,
			Client:   &http.Client{},
		}
	case "gemini":
		g, err := NewGeminiCapability(ctx, cfg.GenerativeAPIKey, cfg.GenerativeModel)
		if err != nil {
			return nil, nil, err
		}
		base = g
		closer = g.Close
	case "mock", "":
		base = MockCapability{ModelVersion: "mock-v1"}
	default:
		return nil, nil, fmt.Errorf("unknown generative provider %q", cfg.GenerativeProvider)
	}

	provider := cfg.GenerativeProvider
	if provider == "" {
		provider = "mock"
	}
	return Resilient{
		Capability: base,
		Provider:   provider,
		Timeout:    cfg.GenerativeTimeout,
		Retries:    cfg.GenerativeRetries,
		Logger:     logger,
	}, closer, nil
}
