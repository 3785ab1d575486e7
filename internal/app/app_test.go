package app

import (
	"testing"
	"time"

	"github.com/Aashka19/CodeEcho/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:          "error",
		AnalyzerMode:      config.ModeAuto,
		OpenAIModel:       "gpt-4",
		RetryAttempts:     3,
		RetryBaseDelay:    time.Second,
		GitHubOwner:       "MicrosoftDocs",
		GitHubRepo:        "msteams-docs",
		StackOverflowTags: []string{"microsoft-teams"},
		ResultStoreSize:   20,
		DefaultBatchLimit: 5,
	}
}

func TestNewFallsBackToHeuristic(t *testing.T) {
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Aggregator.AnalyzerName() != "heuristic" {
		t.Errorf("expected heuristic analyzer, got %s", a.Aggregator.AnalyzerName())
	}
	if a.Results.Capacity() != 20 || len(a.Registry.Sources()) != 2 {
		t.Errorf("unexpected wiring: capacity %d sources %v", a.Results.Capacity(), a.Registry.Sources())
	}
}

func TestNewUsesOpenAIWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = "sk-test"

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Aggregator.AnalyzerName() == "heuristic" {
		t.Errorf("expected AI analyzer")
	}
}

func TestNewHeuristicModeIgnoresCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = "sk-test"
	cfg.AnalyzerMode = config.ModeHeuristic

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Aggregator.AnalyzerName() != "heuristic" {
		t.Errorf("expected heuristic analyzer, got %s", a.Aggregator.AnalyzerName())
	}
}

func TestNewRejectsAzureWithoutEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.AzureOpenAIKey = "key"

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error")
	}
}
