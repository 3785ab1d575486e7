package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

// AzureProvider talks to an Azure OpenAI deployment through the completions
// API. The deployment receives a single prompt; the system message is
// prepended to it.
type AzureProvider struct {
	endpoint   string
	apiKey     string
	deployment string
	opts       options
}

// NewAzureProvider creates a new Azure OpenAI provider
func NewAzureProvider(endpoint, apiKey, deployment string, opts ...Option) *AzureProvider {
	o := defaultOptions()
	o.apiVersion = "2023-05-15"
	for _, opt := range opts {
		opt(&o)
	}
	return &AzureProvider{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		deployment: deployment,
		opts:       o,
	}
}

// Name returns the provider name
func (p *AzureProvider) Name() string {
	return fmt.Sprintf("Azure OpenAI (%s)", p.deployment)
}

// Kind reports the backend
func (p *AzureProvider) Kind() types.ModelUsed {
	return types.ModelAzure
}

type azureRequest struct {
	Prompt           []string `json:"prompt"`
	MaxTokens        int      `json:"max_tokens"`
	Temperature      float64  `json:"temperature"`
	TopP             float64  `json:"top_p"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty"`
	Stop             []string `json:"stop"`
}

type azureResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Usage *openAIUsage `json:"usage"`
}

// Complete posts to {endpoint}/openai/deployments/{deployment}/completions.
// Usage is read when the deployment reports it, otherwise tokens stay 0.
func (p *AzureProvider) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	text := prompt.User
	if prompt.System != "" {
		text = prompt.System + "\n\n" + prompt.User
	}

	reqBody := azureRequest{
		Prompt:           []string{text},
		MaxTokens:        p.opts.maxTokens,
		Temperature:      p.opts.temperature,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
		Stop:             []string{"```"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/completions?api-version=%s",
		p.endpoint, url.PathEscape(p.deployment), url.QueryEscape(p.opts.apiVersion))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.opts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Azure OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Provider: "Azure OpenAI", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var azureResp azureResponse
	if err := json.NewDecoder(resp.Body).Decode(&azureResp); err != nil {
		return nil, fmt.Errorf("failed to decode Azure OpenAI response: %w", err)
	}

	if len(azureResp.Choices) == 0 {
		return nil, fmt.Errorf("Azure OpenAI returned no choices")
	}

	out := &Completion{Text: azureResp.Choices[0].Text}
	if azureResp.Usage != nil {
		out.PromptTokens = azureResp.Usage.PromptTokens
		out.CompletionTokens = azureResp.Usage.CompletionTokens
	}
	return out, nil
}
