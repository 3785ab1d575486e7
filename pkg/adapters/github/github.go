// Package github fetches repository issues as feedback items.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultLimit   = 30
	maxPerPage     = 100
	noDescription  = "No description"
	userAgent      = "CodeEcho/1.0"
)

// HTTPClient interface for making HTTP requests (allows injection for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing)
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithToken authenticates requests, raising the rate limit
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// Client reads issues from one repository
type Client struct {
	owner      string
	repo       string
	token      string
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a client for owner/repo
func NewClient(owner, repo string, opts ...ClientOption) *Client {
	c := &Client{
		owner:      owner,
		repo:       repo,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the source name
func (c *Client) Source() types.Source {
	return types.SourceGitHub
}

type issue struct {
	Title     string  `json:"title"`
	Body      *string `json:"body"`
	Number    int     `json:"number"`
	State     string  `json:"state"`
	HTMLURL   string  `json:"html_url"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	Comments  int     `json:"comments"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Reactions struct {
		TotalCount int `json:"total_count"`
	} `json:"reactions"`
	PullRequest *struct{} `json:"pull_request"`
}

// FetchItems lists the most recently updated issues (open and closed).
// limit <= 0 means 30.
func (c *Client) FetchItems(ctx context.Context, limit int) ([]types.FeedbackItem, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}

	params := url.Values{}
	params.Set("state", "all")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("sort", "updated")
	params.Set("direction", "desc")
	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues?%s", c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), params.Encode())

	logging.Debug("fetching GitHub issues", "owner", c.owner, "repo", c.repo, "limit", limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GitHub API: %w", err)
	}
	defer resp.Body.Close()

	logRateLimit(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, handleAPIError(resp.StatusCode, resp.Header, body)
	}

	var issues []issue
	if err := json.Unmarshal(body, &issues); err != nil {
		return nil, fmt.Errorf("failed to parse issues response: %w", err)
	}

	items := make([]types.FeedbackItem, 0, len(issues))
	for _, is := range issues {
		items = append(items, toFeedbackItem(is))
	}
	return items, nil
}

func toFeedbackItem(is issue) types.FeedbackItem {
	body := noDescription
	if is.Body != nil && *is.Body != "" {
		body = *is.Body
	}

	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.Name)
	}

	created, _ := time.Parse(time.RFC3339, is.CreatedAt)

	return types.FeedbackItem{
		Title:     is.Title,
		Body:      body,
		Source:    types.SourceGitHub,
		URL:       is.HTMLURL,
		CreatedAt: created,
		SourceFields: map[string]any{
			"number":       is.Number,
			"state":        is.State,
			"labels":       labels,
			"comments":     is.Comments,
			"reactions":    is.Reactions.TotalCount,
			"updated_at":   is.UpdatedAt,
			"pull_request": is.PullRequest != nil,
		},
	}
}

// logRateLimit reports the X-RateLimit headers; nothing is enforced here
func logRateLimit(h http.Header) {
	remaining := h.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return
	}
	reset := h.Get("X-RateLimit-Reset")
	if secs, err := strconv.ParseInt(reset, 10, 64); err == nil {
		reset = time.Unix(secs, 0).UTC().Format(time.RFC3339)
	}
	logging.Info("GitHub API rate limit status", "remaining", remaining, "limit", h.Get("X-RateLimit-Limit"), "reset", reset)
}

func handleAPIError(statusCode int, h http.Header, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("GitHub authentication failed: check GITHUB_TOKEN")
	case http.StatusForbidden, http.StatusTooManyRequests:
		if h.Get("X-RateLimit-Remaining") == "0" {
			return fmt.Errorf("GitHub rate limit exceeded (resets at %s)", h.Get("X-RateLimit-Reset"))
		}
		return fmt.Errorf("GitHub API access forbidden: %s", truncate(body))
	case http.StatusNotFound:
		return fmt.Errorf("GitHub repository not found")
	default:
		return fmt.Errorf("GitHub API returned status %d: %s", statusCode, truncate(body))
	}
}

func truncate(body []byte) string {
	if len(body) > 200 {
		return string(body[:200]) + "..."
	}
	return string(body)
}
