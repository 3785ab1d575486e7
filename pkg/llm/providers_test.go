package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

func TestOpenAIProviderComplete(t *testing.T) {
	var got openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"mainPoints\":[]}"}}],"usage":{"prompt_tokens":50,"completion_tokens":20}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-test", "gpt-4", WithBaseURL(server.URL))
	out, err := p.Complete(context.Background(), Prompt{System: "sys", User: "hello"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if out.Text != `{"mainPoints":[]}` || out.PromptTokens != 50 || out.CompletionTokens != 20 {
		t.Errorf("unexpected completion: %+v", out)
	}
	if got.Model != "gpt-4" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("unexpected request: %+v", got)
	}
	if got.Temperature != 0.3 || got.MaxTokens != 800 || got.TopP != 0.95 || got.FrequencyPenalty != 0.5 || got.PresencePenalty != 0.5 {
		t.Errorf("unexpected sampling parameters: %+v", got)
	}
	if p.Kind() != types.ModelOpenAI {
		t.Errorf("unexpected kind %q", p.Kind())
	}
}

func TestOpenAIProviderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-test", "", WithBaseURL(server.URL))
	_, err := p.Complete(context.Background(), Prompt{User: "hello"})

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status error, got %v", err)
	}
	if !retryable(err) {
		t.Errorf("availability errors should be retryable")
	}
}

func TestAzureProviderComplete(t *testing.T) {
	var got azureRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/gpt-4/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api-version") != "2023-05-15" {
			t.Errorf("unexpected api-version %q", r.URL.Query().Get("api-version"))
		}
		if r.Header.Get("api-key") != "az-key" {
			t.Errorf("missing api-key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"text":"{\"severity\":\"low\"}"}]}`))
	}))
	defer server.Close()

	p := NewAzureProvider(server.URL+"/", "az-key", "gpt-4")
	out, err := p.Complete(context.Background(), Prompt{System: "sys", User: "hello"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if out.Text != `{"severity":"low"}` {
		t.Errorf("unexpected text %q", out.Text)
	}
	if out.PromptTokens != 0 || out.CompletionTokens != 0 {
		t.Errorf("tokens should default to 0 without usage, got %+v", out)
	}
	if len(got.Prompt) != 1 || got.Prompt[0] != "sys\n\nhello" {
		t.Errorf("unexpected prompt %v", got.Prompt)
	}
	if len(got.Stop) != 1 || got.Stop[0] != "```" {
		t.Errorf("unexpected stop sequences %v", got.Stop)
	}
	if p.Kind() != types.ModelAzure {
		t.Errorf("unexpected kind %q", p.Kind())
	}
}

func TestFactorySelectsBackendOnce(t *testing.T) {
	p, err := NewFactory(Config{AzureKey: "k", AzureEndpoint: "https://x.openai.azure.com", OpenAIAPIKey: "sk"}).CreateProvider()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Kind() != types.ModelAzure {
		t.Errorf("azure credential should win, got %q", p.Kind())
	}

	p, err = NewFactory(Config{OpenAIAPIKey: "sk"}).CreateProvider()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Kind() != types.ModelOpenAI {
		t.Errorf("expected openai, got %q", p.Kind())
	}

	if _, err := NewFactory(Config{AzureKey: "k"}).CreateProvider(); err == nil {
		t.Errorf("azure key without endpoint should fail")
	}
	if _, err := NewFactory(Config{}).CreateProvider(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}
