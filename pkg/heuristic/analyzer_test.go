package heuristic

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

func TestAnalyzeEmptyItemIsNeutral(t *testing.T) {
	got := New().Analyze(types.FeedbackItem{Source: types.SourceGitHub})

	if got.Sentiment != types.SentimentNeutral {
		t.Errorf("expected neutral, got %q", got.Sentiment)
	}
	if got.Topics == nil || len(got.Topics) != 0 {
		t.Errorf("expected empty topics, got %v", got.Topics)
	}
	if got.Summary != "No content available" {
		t.Errorf("unexpected summary %q", got.Summary)
	}
	if got.Title != "Untitled" {
		t.Errorf("unexpected title %q", got.Title)
	}
}

func TestSentimentIsCaseInsensitive(t *testing.T) {
	if Sentiment("BUG in the CRASH handler") != Sentiment("bug in the crash handler") {
		t.Errorf("case should not matter")
	}
	if got := Sentiment("BUG: app crashes"); got != types.SentimentNegative {
		t.Errorf("expected negative, got %q", got)
	}
	if got := Sentiment("Thanks, this works great"); got != types.SentimentPositive {
		t.Errorf("expected positive, got %q", got)
	}
	if got := Sentiment("fixed the bug"); got != types.SentimentNeutral {
		t.Errorf("tie should be neutral, got %q", got)
	}
	if got := Sentiment("hello world"); got != types.SentimentNeutral {
		t.Errorf("no keywords should be neutral, got %q", got)
	}
}

func TestTopicsMergeTagsAndTitleWords(t *testing.T) {
	item := types.FeedbackItem{
		Title: "Meeting-extension manifest validation fails on upload",
		SourceFields: map[string]any{
			"tags": []string{"microsoft-teams", "manifest"},
		},
	}

	got := Topics(item)
	want := []string{"microsoft-teams", "manifest", "meeting", "extension"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTopicsCappedAtFive(t *testing.T) {
	item := types.FeedbackItem{
		Title:        "alpha bravo charlie delta",
		SourceFields: map[string]any{"labels": []any{"a1", "b2", "c3", "d4"}},
	}
	if got := Topics(item); len(got) != 5 {
		t.Errorf("expected 5 topics, got %v", got)
	}
}

func TestSummarizeTakesTwoLines(t *testing.T) {
	got := Summarize("first line\n\n   \nsecond line\nthird line")
	if got != "first line second line" {
		t.Errorf("unexpected summary %q", got)
	}

	long := strings.Repeat("x", 500)
	if got := Summarize(long); len(got) != 200 {
		t.Errorf("expected 200 chars, got %d", len(got))
	}
}

func TestEngagementScore(t *testing.T) {
	qa := types.FeedbackItem{SourceFields: map[string]any{"score": 10, "view_count": 200, "answer_count": 2}}
	if got := EngagementScore(qa); got != 28 {
		t.Errorf("expected 28, got %v", got)
	}

	tracker := types.FeedbackItem{SourceFields: map[string]any{"comments": 3, "reactions": 4}}
	if got := EngagementScore(tracker); got != 10 {
		t.Errorf("expected 10, got %v", got)
	}

	if got := EngagementScore(types.FeedbackItem{}); got != 0 {
		t.Errorf("missing fields should score 0, got %v", got)
	}

	downvoted := types.FeedbackItem{SourceFields: map[string]any{"score": -5, "view_count": 10}}
	if got := EngagementScore(downvoted); got < 0 {
		t.Errorf("engagement must not be negative, got %v", got)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	item := types.FeedbackItem{
		Title:     "Tab fails to load",
		Body:      "Error 500 when opening\nPlease help",
		Source:    types.SourceStackOverflow,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		SourceFields: map[string]any{
			"tags": []string{"teams-apps"}, "score": 1, "view_count": 50, "answer_count": 0,
		},
	}
	a := New()
	first, _ := json.Marshal(a.Analyze(item))
	second, _ := json.Marshal(a.Analyze(item))
	if string(first) != string(second) {
		t.Errorf("expected identical output:\n%s\n%s", first, second)
	}
}

func TestResultAnalyzerProducesAnalysisResult(t *testing.T) {
	r := NewResultAnalyzer(nil)
	item := types.FeedbackItem{Title: "Crash on login", Body: "the app is broken", Source: types.SourceGitHub}

	res, err := r.Analyze(context.Background(), item, types.AnalysisBug)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Metadata.ModelUsed != types.ModelHeuristic || res.Confidence != Confidence {
		t.Errorf("unexpected metadata %+v confidence %v", res.Metadata, res.Confidence)
	}
	if res.Analysis.Severity != types.SeverityHigh {
		t.Errorf("negative sentiment should map to high severity, got %q", res.Analysis.Severity)
	}
	if res.Analysis.Extra["sentiment"] != types.SentimentNegative {
		t.Errorf("sentiment should be kept in extras, got %v", res.Analysis.Extra)
	}
	if res.CreatedAt.IsZero() {
		t.Errorf("created_at should default to now")
	}

	batch, err := r.BatchAnalyze(context.Background(), []types.FeedbackItem{item, {Title: "Works great"}}, types.AnalysisGeneral)
	if err != nil || len(batch) != 2 || batch[1].Analysis.Severity != types.SeverityLow {
		t.Errorf("unexpected batch %+v err %v", batch, err)
	}
}
