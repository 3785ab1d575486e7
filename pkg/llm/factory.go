package llm

import (
	"errors"
	"fmt"

	"github.com/Aashka19/CodeEcho/internal/logging"
)

// ErrNoCredentials is returned when neither backend has a key configured
var ErrNoCredentials = errors.New("no AI backend credentials configured")

// Factory creates LLM providers based on configuration
type Factory struct {
	config Config
}

// NewFactory creates a new provider factory
func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// CreateProvider picks the backend once: Azure OpenAI when its key is set,
// OpenAI otherwise. There is no per-call fallback between them.
func (f *Factory) CreateProvider() (Provider, error) {
	cfg := f.config
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}

	switch {
	case cfg.AzureKey != "":
		if cfg.AzureEndpoint == "" {
			return nil, fmt.Errorf("azure OpenAI endpoint not configured")
		}
		if cfg.AzureDeployment == "" {
			cfg.AzureDeployment = "gpt-4" // Default deployment
		}
		if cfg.AzureAPIVersion == "" {
			cfg.AzureAPIVersion = "2023-05-15"
		}
		logging.Info("using Azure OpenAI provider", "deployment", cfg.AzureDeployment, "endpoint", cfg.AzureEndpoint)
		return NewAzureProvider(cfg.AzureEndpoint, cfg.AzureKey, cfg.AzureDeployment,
			WithAPIVersion(cfg.AzureAPIVersion),
			WithMaxTokens(cfg.MaxTokens),
			WithTemperature(cfg.Temperature),
		), nil

	case cfg.OpenAIAPIKey != "":
		if cfg.OpenAIModel == "" {
			cfg.OpenAIModel = "gpt-4" // Default model
		}
		logging.Info("using OpenAI provider", "model", cfg.OpenAIModel)
		opts := []Option{WithMaxTokens(cfg.MaxTokens), WithTemperature(cfg.Temperature)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.OpenAIBaseURL))
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, opts...), nil

	default:
		return nil, ErrNoCredentials
	}
}
