package llm

import (
	"net/http"
	"time"
)

type options struct {
	baseURL     string
	apiVersion  string
	maxTokens   int
	temperature float64
	client      *http.Client
}

func defaultOptions() options {
	return options{
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Option configures a provider
type Option func(*options)

// WithBaseURL overrides the API base URL (used by tests and proxies)
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithAPIVersion sets the Azure api-version query parameter
func WithAPIVersion(v string) Option {
	return func(o *options) { o.apiVersion = v }
}

// WithMaxTokens caps the completion length
func WithMaxTokens(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float64) Option {
	return func(o *options) {
		if t > 0 {
			o.temperature = t
		}
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}
