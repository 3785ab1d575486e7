package llm

import (
	"context"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

// Provider defines the interface for the AI backends (Azure OpenAI, OpenAI)
type Provider interface {
	// Complete sends one rendered prompt and returns the raw model text
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)

	// Kind reports which backend produced the completion
	Kind() types.ModelUsed

	// Name returns the provider name (for logging)
	Name() string
}

// Prompt is a rendered system+user message pair
type Prompt struct {
	System string
	User   string
}

// Completion is the backend's raw answer plus usage when reported
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Sampling parameters shared by both backends
const (
	DefaultMaxTokens        = 800
	DefaultTemperature      = 0.3
	DefaultTopP             = 0.95
	DefaultFrequencyPenalty = 0.5
	DefaultPresencePenalty  = 0.5
)

// Config holds common configuration for LLM providers
type Config struct {
	// Azure OpenAI-specific
	AzureKey        string
	AzureEndpoint   string
	AzureDeployment string // e.g., "gpt-4"
	AzureAPIVersion string // e.g., "2023-05-15"

	// OpenAI-specific
	OpenAIAPIKey  string
	OpenAIModel   string // e.g., "gpt-4", "gpt-4-turbo"
	OpenAIBaseURL string

	MaxTokens   int
	Temperature float64
}
