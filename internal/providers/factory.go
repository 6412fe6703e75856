package providers

import (
	"context"
	"fmt"

	"github.com/emandor/econoguide_service/internal/config"
)

// New builds the configured model client wrapped as
// caller -> retry -> pacing -> provider.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	var (
		base Client
		err  error
	)
	switch cfg.ModelProvider {
	case config.ProviderGemini:
		base, err = NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel, "")
	case config.ProviderOpenAI:
		base, err = NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, "")
	case config.ProviderAnthropic:
		base, err = NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel, "")
	case config.ProviderOffline:
		return &Offline{}, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
	if err != nil {
		return nil, err
	}

	rc := DefaultRetryConfig()
	rc.MaxRetries = cfg.ModelMaxRetries
	rc.AttemptTimeout = cfg.ModelTimeout

	return WithRetry(WithPacing(base, cfg.ModelRPS, cfg.ModelBurst), rc), nil
}

// SamplingFrom extracts the fixed sampling parameters from cfg.
func SamplingFrom(cfg *config.Config) Sampling {
	return Sampling{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
		MaxTokens:   cfg.MaxTokens,
	}
}
