// Package stackoverflow fetches tagged questions from the Stack Exchange API.
package stackoverflow

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

const (
	defaultBaseURL = "https://api.stackexchange.com/2.3"
	defaultLimit   = 30
	maxPageSize    = 100
	noTitle        = "No Title"
)

// DefaultTags are used when no tags are configured
var DefaultTags = []string{"microsoft-teams", "teams-apps", "teams-development"}

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

// WithKey sets the Stack Exchange app key for a larger quota
func WithKey(key string) ClientOption {
	return func(c *Client) {
		c.key = key
	}
}

// Client reads questions for a tag set. Only the first tag is used as the
// tagged filter.
type Client struct {
	tags       []string
	key        string
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a client; empty tags fall back to DefaultTags
func NewClient(tags []string, opts ...ClientOption) *Client {
	if len(tags) == 0 {
		tags = DefaultTags
	}
	c := &Client{
		tags:       tags,
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
	return types.SourceStackOverflow
}

type question struct {
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Tags         []string `json:"tags"`
	Link         string   `json:"link"`
	Score        int      `json:"score"`
	ViewCount    int      `json:"view_count"`
	AnswerCount  int      `json:"answer_count"`
	CreationDate int64    `json:"creation_date"`
	QuestionID   int64    `json:"question_id"`
	IsAnswered   bool     `json:"is_answered"`
}

type questionsResponse struct {
	Items          []question `json:"items"`
	HasMore        bool       `json:"has_more"`
	QuotaRemaining int        `json:"quota_remaining"`
	ErrorID        int        `json:"error_id"`
	ErrorName      string     `json:"error_name"`
	ErrorMessage   string     `json:"error_message"`
}

// FetchItems lists questions by recent activity. limit <= 0 means 30.
func (c *Client) FetchItems(ctx context.Context, limit int) ([]types.FeedbackItem, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	params := url.Values{}
	params.Set("site", "stackoverflow")
	params.Set("tagged", c.tags[0])
	params.Set("sort", "activity")
	params.Set("order", "desc")
	params.Set("pagesize", strconv.Itoa(limit))
	params.Set("filter", "withbody")
	if c.key != "" {
		params.Set("key", c.key)
	}
	endpoint := c.baseURL + "/questions?" + params.Encode()

	logging.Debug("fetching Stack Overflow questions", "tag", c.tags[0], "limit", limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Stack Exchange API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response questionsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("Stack Exchange API returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to parse questions response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || response.ErrorID != 0 {
		return nil, fmt.Errorf("Stack Exchange API returned status %d: %s (%s)", resp.StatusCode, response.ErrorMessage, response.ErrorName)
	}

	logging.Info("Stack Overflow API response", "items", len(response.Items), "quota_remaining", response.QuotaRemaining, "has_more", response.HasMore)

	items := make([]types.FeedbackItem, 0, len(response.Items))
	for _, q := range response.Items {
		items = append(items, toFeedbackItem(q))
	}
	return items, nil
}

func toFeedbackItem(q question) types.FeedbackItem {
	title := html.UnescapeString(q.Title)
	if title == "" {
		title = noTitle
	}
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}

	var created time.Time
	if q.CreationDate > 0 {
		created = time.Unix(q.CreationDate, 0).UTC()
	}

	return types.FeedbackItem{
		Title:     title,
		Body:      q.Body,
		Source:    types.SourceStackOverflow,
		URL:       q.Link,
		CreatedAt: created,
		SourceFields: map[string]any{
			"tags":         tags,
			"score":        q.Score,
			"view_count":   q.ViewCount,
			"answer_count": q.AnswerCount,
			"question_id":  q.QuestionID,
			"is_answered":  q.IsAnswered,
		},
	}
}
