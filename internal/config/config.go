package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Analyzer modes
const (
	ModeAuto      = "auto"
	ModeHeuristic = "heuristic"
)

// Config holds all application configuration
type Config struct {
	Port         string
	LogLevel     string
	AnalyzerMode string // "auto" or "heuristic"

	// Azure OpenAI (takes precedence when the key is set)
	AzureOpenAIKey        string
	AzureOpenAIEndpoint   string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	LLMMaxTokens         int
	LLMTemperature       float64
	LLMRequestsPerSecond float64 // 0 = unlimited
	RetryAttempts        int
	RetryBaseDelay       time.Duration

	// Sources
	GitHubToken       string
	GitHubOwner       string
	GitHubRepo        string
	StackOverflowKey  string
	StackOverflowTags []string
	EnabledSources    []string

	ResultStoreSize   int
	AnalysesViewLimit int
	DefaultBatchLimit int
	HTTPWriteTimeout  time.Duration
}

// LoadConfig reads an optional .env file, then the environment.
// Malformed values are reported together as one error.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		Port:         l.getEnv("PORT", "3000"),
		LogLevel:     l.getEnv("LOG_LEVEL", "info"),
		AnalyzerMode: strings.ToLower(l.getEnv("ANALYZER_MODE", ModeAuto)),

		AzureOpenAIKey:        l.getEnv("AZURE_OPENAI_KEY", ""),
		AzureOpenAIEndpoint:   l.getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIDeployment: l.getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4"),
		AzureOpenAIAPIVersion: l.getEnv("AZURE_OPENAI_API_VERSION", "2023-05-15"),

		OpenAIAPIKey:  l.getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   l.getEnv("OPENAI_MODEL", "gpt-4"),
		OpenAIBaseURL: l.getEnv("OPENAI_BASE_URL", ""),

		LLMMaxTokens:         l.getEnvInt("LLM_MAX_TOKENS", 800),
		LLMTemperature:       l.getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMRequestsPerSecond: l.getEnvFloat("LLM_REQUESTS_PER_SECOND", 0),
		RetryAttempts:        l.getEnvInt("RETRY_ATTEMPTS", 3),
		RetryBaseDelay:       l.getEnvDuration("RETRY_BASE_DELAY", time.Second),

		GitHubToken:       l.getEnv("GITHUB_TOKEN", ""),
		GitHubOwner:       l.getEnv("GITHUB_OWNER", "MicrosoftDocs"),
		GitHubRepo:        l.getEnv("GITHUB_REPO", "msteams-docs"),
		StackOverflowKey:  l.getEnv("STACKOVERFLOW_KEY", ""),
		StackOverflowTags: l.getEnvList("STACKOVERFLOW_TAGS", []string{"microsoft-teams", "teams-apps", "teams-development"}),
		EnabledSources:    l.getEnvList("ENABLED_SOURCES", []string{"github", "stackoverflow"}),

		ResultStoreSize:   l.getEnvInt("RESULT_STORE_SIZE", 100),
		AnalysesViewLimit: l.getEnvInt("ANALYSES_VIEW_LIMIT", 10),
		DefaultBatchLimit: l.getEnvInt("DEFAULT_BATCH_LIMIT", 5),
		HTTPWriteTimeout:  l.getEnvDuration("HTTP_WRITE_TIMEOUT", 2*time.Minute),
	}

	if err := errors.Join(l.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.AzureOpenAIKey != "" && c.AzureOpenAIEndpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_KEY is set but AZURE_OPENAI_ENDPOINT is not")
	}
	if c.AnalyzerMode != ModeAuto && c.AnalyzerMode != ModeHeuristic {
		return fmt.Errorf("ANALYZER_MODE must be %q or %q, got %q", ModeAuto, ModeHeuristic, c.AnalyzerMode)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	if c.ResultStoreSize < 1 || c.AnalysesViewLimit < 1 || c.DefaultBatchLimit < 1 {
		return fmt.Errorf("RESULT_STORE_SIZE, ANALYSES_VIEW_LIMIT and DEFAULT_BATCH_LIMIT must be positive")
	}
	return nil
}

// HasAICredentials reports whether either AI backend is configured
func (c *Config) HasAICredentials() bool {
	return c.AzureOpenAIKey != "" || c.OpenAIAPIKey != ""
}

// loader collects parse errors so every bad key is reported at once
type loader struct {
	errs []error
}

// getEnv gets an environment variable with a default value
func (l *loader) getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func (l *loader) getEnvFloat(key string, defaultValue float64) float64 {
	value := l.getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s: invalid number %q", key, value))
		return defaultValue
	}
	return f
}

// getEnvInt gets an int environment variable with a default value
func (l *loader) getEnvInt(key string, defaultValue int) int {
	value := l.getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return defaultValue
	}
	return i
}

// getEnvDuration accepts Go durations ("1s", "500ms") or plain milliseconds
func (l *loader) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := l.getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return defaultValue
	}
	return d
}

// getEnvList splits a comma-separated variable, dropping blanks
func (l *loader) getEnvList(key string, defaultValue []string) []string {
	value := l.getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
