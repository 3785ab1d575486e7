package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements the Provider interface for OpenAI's chat API
type OpenAIProvider struct {
	apiKey string
	model  string
	opts   options
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey, model string, opts ...Option) *OpenAIProvider {
	if model == "" {
		model = "gpt-4"
	}
	o := defaultOptions()
	o.baseURL = defaultOpenAIBaseURL
	for _, opt := range opts {
		opt(&o)
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		model:  model,
		opts:   o,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return fmt.Sprintf("OpenAI (%s)", p.model)
}

// Kind reports the backend
func (p *OpenAIProvider) Kind() types.ModelUsed {
	return types.ModelOpenAI
}

// OpenAI API structures
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model            string          `json:"model"`
	Messages         []openAIMessage `json:"messages"`
	Temperature      float64         `json:"temperature"`
	MaxTokens        int             `json:"max_tokens"`
	TopP             float64         `json:"top_p"`
	FrequencyPenalty float64         `json:"frequency_penalty"`
	PresencePenalty  float64         `json:"presence_penalty"`
}

type openAIChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
	Usage   *openAIUsage   `json:"usage"`
}

// Complete calls the chat completions endpoint with a system and user message
func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	messages := make([]openAIMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: prompt.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: prompt.User})

	reqBody := openAIRequest{
		Model:            p.model,
		Messages:         messages,
		Temperature:      p.opts.temperature,
		MaxTokens:        p.opts.maxTokens,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(p.opts.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.opts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Provider: "OpenAI", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var openAIResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return nil, fmt.Errorf("failed to decode OpenAI response: %w", err)
	}

	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	out := &Completion{Text: openAIResp.Choices[0].Message.Content}
	if openAIResp.Usage != nil {
		out.PromptTokens = openAIResp.Usage.PromptTokens
		out.CompletionTokens = openAIResp.Usage.CompletionTokens
	}
	return out, nil
}
