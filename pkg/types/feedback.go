package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// Source identifies where a feedback item came from
type Source string

const (
	SourceGitHub        Source = "github"
	SourceStackOverflow Source = "stackoverflow"
	SourceUser          Source = "user"
	SourceTeams         Source = "teams"
)

// FeedbackItem is the canonical shape every source adapter produces.
// SourceFields carries source-specific attributes (issue number, labels,
// tags, score, view_count...) used for engagement scoring and display only.
type FeedbackItem struct {
	Title        string         `json:"title"`
	Body         string         `json:"body"`
	Source       Source         `json:"source"`
	URL          string         `json:"url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	SourceFields map[string]any `json:"source_fields,omitempty"`
}

// FieldRawText marks an item built from a plain string; its Body is the
// caller's text and is rendered verbatim.
const FieldRawText = "raw_text"

// Has reports whether the source-specific field is present
func (f FeedbackItem) Has(key string) bool {
	_, ok := f.SourceFields[key]
	return ok
}

// Float returns a numeric source field, or 0 when it is absent or not numeric
func (f FeedbackItem) Float(key string) float64 {
	switch v := f.SourceFields[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Strings returns a list-valued source field such as labels or tags
func (f FeedbackItem) Strings(key string) []string {
	switch v := f.SourceFields[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Sentiment is the heuristic tone of a feedback item
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// FeedbackAnalysis is the lightweight, keyword-derived view of an item.
// It never requires a network call.
type FeedbackAnalysis struct {
	Source          Source    `json:"source"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Sentiment       Sentiment `json:"sentiment"`
	Topics          []string  `json:"topics"`
	Summary         string    `json:"summary"`
	EngagementScore float64   `json:"engagement_score"`
	CreatedAt       time.Time `json:"created_at"`
}
