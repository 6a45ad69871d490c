package llm

import (
	"fmt"
	"net/http"

	"github.com/sozercan/chart-mole/internal/config"
)

// New returns the Provider selected by cfg.Provider.
func New(cfg *config.LLMConfig) (Provider, error) {
	if cfg.Credential() == "" {
		return nil, config.ErrMissingAPIKey
	}

	switch cfg.Provider {
	case config.ProviderHuggingFace, "":
		return NewHuggingFace(cfg, http.DefaultClient), nil
	case config.ProviderOpenAI, config.ProviderAzure:
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func defaultOptions(cfg *config.LLMConfig) *Options {
	return &Options{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	}
}
