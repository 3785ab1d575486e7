// Package heuristic analyzes feedback with keyword rules and no network calls.
package heuristic

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

const (
	maxTopics      = 5
	maxTitleTopics = 3
	maxSummaryLen  = 200

	noContentSummary = "No content available"
	errorSummary     = "Error analyzing content"
	untitled         = "Untitled"

	// Confidence reported when the heuristic produces an AnalysisResult
	Confidence = 0.5
)

var (
	positiveKeywords = []string{"great", "awesome", "good", "thanks", "helpful", "works", "solved", "fixed"}
	negativeKeywords = []string{"bug", "issue", "error", "problem", "fail", "crash", "broken", "not working"}

	titleSplit = regexp.MustCompile(`[\s-]+`)
)

// Analyzer derives sentiment, topics, summary and engagement from item text.
// It holds no state, so repeated calls on the same item are identical.
type Analyzer struct{}

// New creates a heuristic analyzer
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze never fails: any panic while analysing is mapped to a neutral result
func (a *Analyzer) Analyze(item types.FeedbackItem) (out types.FeedbackAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("heuristic analysis failed", "source", item.Source, "title", item.Title, "panic", r)
			out = types.FeedbackAnalysis{
				Source:    item.Source,
				Title:     titleOrDefault(item.Title),
				URL:       item.URL,
				Sentiment: types.SentimentNeutral,
				Topics:    []string{},
				Summary:   errorSummary,
				CreatedAt: item.CreatedAt,
			}
		}
	}()

	out = types.FeedbackAnalysis{
		Source:          item.Source,
		Title:           titleOrDefault(item.Title),
		URL:             item.URL,
		Sentiment:       types.SentimentNeutral,
		Topics:          []string{},
		Summary:         noContentSummary,
		EngagementScore: EngagementScore(item),
		CreatedAt:       item.CreatedAt,
	}

	text := item.Title + "\n" + item.Body
	if strings.TrimSpace(text) == "" {
		return out
	}

	out.Sentiment = Sentiment(text)
	out.Topics = Topics(item)
	if summary := Summarize(text); summary != "" {
		out.Summary = summary
	}
	return out
}

// Sentiment compares how many positive and negative keywords appear in text.
// Matching is case-insensitive; a tie, including 0-0, is neutral.
func Sentiment(text string) types.Sentiment {
	lower := strings.ToLower(text)
	pos := countKeywords(lower, positiveKeywords)
	neg := countKeywords(lower, negativeKeywords)

	switch {
	case pos > neg:
		return types.SentimentPositive
	case neg > pos:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

// countKeywords counts the distinct keywords present in text
func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// Topics merges explicit labels/tags with up to three long title words,
// deduplicated in order and capped at five.
func Topics(item types.FeedbackItem) []string {
	candidates := append([]string{}, item.Strings("labels")...)
	candidates = append(candidates, item.Strings("tags")...)

	words := 0
	for _, w := range titleSplit.Split(strings.ToLower(item.Title), -1) {
		if words == maxTitleTopics {
			break
		}
		if utf8.RuneCountInString(w) > 3 {
			candidates = append(candidates, w)
			words++
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	topics := make([]string, 0, maxTopics)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		topics = append(topics, c)
		if len(topics) == maxTopics {
			break
		}
	}
	return topics
}

// Summarize joins the first two non-blank lines and truncates to 200 runes
func Summarize(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 2 {
			break
		}
	}

	summary := strings.Join(lines, " ")
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		summary = string([]rune(summary)[:maxSummaryLen])
	}
	return summary
}

// EngagementScore ranks popularity. Q&A items (those carrying view_count)
// score score*2 + views*0.01 + answers*3; tracker items score
// comments*2 + reactions. Missing fields count as zero.
func EngagementScore(item types.FeedbackItem) float64 {
	var score float64
	if item.Has("view_count") {
		score = item.Float("score")*2 + item.Float("view_count")*0.01 + item.Float("answer_count")*3
	} else {
		score = item.Float("comments")*2 + item.Float("reactions")
	}
	// Stack Overflow scores can be negative; the ranking signal cannot.
	if score < 0 {
		return 0
	}
	return score
}

func titleOrDefault(title string) string {
	if title == "" {
		return untitled
	}
	return title
}

// ResultAnalyzer exposes the heuristic through the same contract as the AI
// analyzer so the aggregator can run either.
type ResultAnalyzer struct {
	analyzer *Analyzer
}

// NewResultAnalyzer wraps a heuristic Analyzer
func NewResultAnalyzer(a *Analyzer) *ResultAnalyzer {
	if a == nil {
		a = New()
	}
	return &ResultAnalyzer{analyzer: a}
}

// Name returns the analyzer name (for logging)
func (r *ResultAnalyzer) Name() string {
	return "heuristic"
}

// Analyze produces an AnalysisResult from the keyword analysis. It never
// returns an error.
func (r *ResultAnalyzer) Analyze(ctx context.Context, item types.FeedbackItem, analysisType types.AnalysisType) (types.AnalysisResult, error) {
	start := time.Now()
	fa := r.analyzer.Analyze(item)

	var actions []string
	if fa.Sentiment == types.SentimentNegative {
		actions = []string{"Investigate the reported problem: " + fa.Title}
	}

	created := item.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	return types.AnalysisResult{
		ID:         uuid.NewString(),
		Type:       analysisType,
		Source:     string(item.Source),
		Title:      fa.Title,
		URL:        fa.URL,
		Confidence: Confidence,
		Analysis: types.Analysis{
			MainPoints:     []string{fa.Summary},
			TechnicalAreas: fa.Topics,
			Severity:       severityFor(fa.Sentiment),
			ActionItems:    actions,
			Extra: map[string]any{
				"sentiment":        fa.Sentiment,
				"topics":           fa.Topics,
				"summary":          fa.Summary,
				"engagement_score": fa.EngagementScore,
			},
		},
		Metadata: types.Metadata{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			ModelUsed:        types.ModelHeuristic,
		},
		CreatedAt:  created,
		AnalyzedAt: time.Now().UTC(),
	}, nil
}

// BatchAnalyze analyzes every item in input order
func (r *ResultAnalyzer) BatchAnalyze(ctx context.Context, items []types.FeedbackItem, analysisType types.AnalysisType) ([]types.AnalysisResult, error) {
	results := make([]types.AnalysisResult, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i], _ = r.Analyze(ctx, item, analysisType)
	}
	return results, nil
}

func severityFor(s types.Sentiment) types.Severity {
	switch s {
	case types.SentimentNegative:
		return types.SeverityHigh
	case types.SentimentPositive:
		return types.SeverityLow
	default:
		return types.SeverityMedium
	}
}
