package app

import (
	"fmt"
	"os"

	"github.com/Aashka19/CodeEcho/internal/config"
	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/internal/processor"
	"github.com/Aashka19/CodeEcho/pkg/adapters"
	"github.com/Aashka19/CodeEcho/pkg/adapters/github"
	"github.com/Aashka19/CodeEcho/pkg/adapters/stackoverflow"
	"github.com/Aashka19/CodeEcho/pkg/llm"
	"github.com/Aashka19/CodeEcho/pkg/store"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Registry   *adapters.Registry
	Results    *store.Results
	Aggregator *processor.Aggregator
}

// New initializes a new application with all dependencies
func New(cfg *config.Config) (*App, error) {
	if err := logging.Init(cfg.LogLevel, os.Stderr); err != nil {
		return nil, err
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize source adapters
	registry := adapters.NewRegistry(cfg.EnabledSources,
		github.NewClient(cfg.GitHubOwner, cfg.GitHubRepo, github.WithToken(cfg.GitHubToken)),
		stackoverflow.NewClient(cfg.StackOverflowTags, stackoverflow.WithKey(cfg.StackOverflowKey)),
	)

	results := store.New(cfg.ResultStoreSize)

	agg := processor.NewAggregator(registry, analyzer,
		processor.WithStore(results),
		processor.WithDefaultLimit(cfg.DefaultBatchLimit),
	)

	return &App{
		Config:     cfg,
		Registry:   registry,
		Results:    results,
		Aggregator: agg,
	}, nil
}

// newAnalyzer returns the AI analyzer, or nil when the heuristic one should
// serve every request
func newAnalyzer(cfg *config.Config) (processor.Analyzer, error) {
	if cfg.AnalyzerMode == config.ModeHeuristic {
		logging.Info("analyzer mode forced to heuristic")
		return nil, nil
	}
	if !cfg.HasAICredentials() {
		logging.Warn("no AI credentials configured, using heuristic analyzer")
		return nil, nil
	}

	provider, err := llm.NewFactory(llm.Config{
		AzureKey:        cfg.AzureOpenAIKey,
		AzureEndpoint:   cfg.AzureOpenAIEndpoint,
		AzureDeployment: cfg.AzureOpenAIDeployment,
		AzureAPIVersion: cfg.AzureOpenAIAPIVersion,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		MaxTokens:       cfg.LLMMaxTokens,
		Temperature:     cfg.LLMTemperature,
	}).CreateProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	return llm.NewAnalyzer(provider,
		llm.WithRetrier(llm.NewRetrier(cfg.RetryAttempts, cfg.RetryBaseDelay)),
		llm.WithRateLimit(cfg.LLMRequestsPerSecond),
	), nil
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo() {
	logging.Info("starting CodeEcho feedback service", "port", a.Config.Port)
	logging.Info("analyzer", "name", a.Aggregator.AnalyzerName())
	logging.Info("sources", "enabled", a.Registry.Sources())
	logging.Info("result store", "capacity", a.Results.Capacity())
}
