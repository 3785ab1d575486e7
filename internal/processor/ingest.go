package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

// IngestResult is the processing envelope returned by Ingest
type IngestResult struct {
	Processed bool                 `json:"processed"`
	Timestamp time.Time            `json:"timestamp"`
	Data      []types.FeedbackItem `json:"data"`
	Message   string               `json:"message"`
}

// RecentResult is the heuristic-only summary of recent activity
type RecentResult struct {
	Total              int                      `json:"total_items"`
	GitHubItems        int                      `json:"github_items"`
	StackOverflowItems int                      `json:"stackoverflow_items"`
	Analysis           []types.FeedbackAnalysis `json:"analysis"`
}

// InvalidSourceMessage is the message returned for any source other than
// github or stackoverflow
const InvalidSourceMessage = `Invalid source specified. Use "github" or "stackoverflow"`

// Ingest fetches raw items from one source without analysing them
func (a *Aggregator) Ingest(ctx context.Context, source string) (*IngestResult, error) {
	src := types.Source(strings.ToLower(strings.TrimSpace(source)))
	if src != types.SourceGitHub && src != types.SourceStackOverflow {
		return nil, types.InvalidInputf("%s", InvalidSourceMessage)
	}

	fetched := a.registry.Fetch(ctx, src, 0)
	out := &IngestResult{
		Processed: true,
		Timestamp: a.now().UTC(),
		Data:      fetched.Items,
	}
	if len(fetched.Items) == 0 {
		out.Data = []types.FeedbackItem{}
		out.Message = "No feedback data available to process"
		return out, nil
	}
	out.Message = fmt.Sprintf("Processed %d feedback items", len(fetched.Items))
	return out, nil
}

// Recent runs the heuristic analyzer over the newest items from GitHub and
// Stack Overflow. It never calls an AI backend and never stores results.
func (a *Aggregator) Recent(ctx context.Context, limit int) *RecentResult {
	if limit <= 0 {
		limit = a.defaultLimit
	}

	var sources []types.Source
	for _, s := range []types.Source{types.SourceGitHub, types.SourceStackOverflow} {
		if a.registry.IsEnabled(s) {
			sources = append(sources, s)
		}
	}

	out := &RecentResult{Analysis: []types.FeedbackAnalysis{}}
	for _, f := range a.fetchAll(ctx, sources, limit) {
		switch f.Source {
		case types.SourceGitHub:
			out.GitHubItems = len(f.Items)
		case types.SourceStackOverflow:
			out.StackOverflowItems = len(f.Items)
		}
		for _, item := range f.Items {
			out.Analysis = append(out.Analysis, a.heuristic.Analyze(item))
		}
	}

	sort.SliceStable(out.Analysis, func(i, j int) bool {
		return out.Analysis[i].CreatedAt.After(out.Analysis[j].CreatedAt)
	})
	if len(out.Analysis) > limit {
		out.Analysis = out.Analysis[:limit]
	}
	out.Total = len(out.Analysis)

	logging.Info("analyzed recent feedback", "total", out.Total, "github", out.GitHubItems, "stackoverflow", out.StackOverflowItems)
	return out
}

// ParseFeedback turns a request's feedback value into an item. A JSON
// string becomes a raw-text item rendered verbatim; an object supplies
// title, body and source with every other key kept as a source field.
func ParseFeedback(raw json.RawMessage) (types.FeedbackItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return types.FeedbackItem{}, types.InvalidInputf("Feedback content is required")
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return types.FeedbackItem{}, types.InvalidInputf("invalid feedback: %v", err)
		}
		if strings.TrimSpace(text) == "" {
			return types.FeedbackItem{}, types.InvalidInputf("Feedback content is required")
		}
		return types.FeedbackItem{
			Body:         text,
			Source:       types.SourceUser,
			CreatedAt:    time.Now().UTC(),
			SourceFields: map[string]any{types.FieldRawText: true},
		}, nil

	case '{':
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return types.FeedbackItem{}, types.InvalidInputf("invalid feedback: %v", err)
		}
		if len(fields) == 0 {
			return types.FeedbackItem{}, types.InvalidInputf("Feedback content is required")
		}

		item := types.FeedbackItem{Source: types.SourceUser, SourceFields: map[string]any{}}
		for k, v := range fields {
			s, _ := v.(string)
			switch k {
			case "title":
				item.Title = s
			case "body":
				item.Body = s
			case "source":
				if s != "" {
					item.Source = types.Source(s)
				}
			case "url", "link":
				item.URL = s
			case "created_at":
				item.CreatedAt, _ = time.Parse(time.RFC3339, s)
			default:
				item.SourceFields[k] = v
			}
		}
		if item.Title == "" && item.Body == "" {
			if content, ok := fields["content"].(string); ok && content != "" {
				item.Body = content
				item.SourceFields[types.FieldRawText] = true
			}
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		return item, nil

	default:
		return types.FeedbackItem{}, types.InvalidInputf("Feedback must be a string or an object")
	}
}
