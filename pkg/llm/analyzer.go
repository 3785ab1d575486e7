package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

// Analyzer turns feedback items into AnalysisResults through one Provider.
// Every backend call is wrapped by the Retrier and paced by the limiter.
type Analyzer struct {
	provider Provider
	prompts  *PromptRegistry
	retrier  *Retrier
	limiter  *rate.Limiter
	now      func() time.Time
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithRetrier replaces the default 3 attempts / 1s retrier
func WithRetrier(r *Retrier) AnalyzerOption {
	return func(a *Analyzer) {
		if r != nil {
			a.retrier = r
		}
	}
}

// WithRateLimit paces backend calls to rps requests per second. Zero or
// less means unlimited.
func WithRateLimit(rps float64) AnalyzerOption {
	return func(a *Analyzer) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithPromptRegistry replaces the built-in templates
func WithPromptRegistry(p *PromptRegistry) AnalyzerOption {
	return func(a *Analyzer) {
		if p != nil {
			a.prompts = p
		}
	}
}

// NewAnalyzer creates an analyzer bound to provider for the process lifetime
func NewAnalyzer(provider Provider, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		provider: provider,
		prompts:  NewPromptRegistry(),
		retrier:  NewRetrier(DefaultAttempts, DefaultBaseDelay),
		limiter:  rate.NewLimiter(rate.Inf, 1),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the analyzer name (for logging)
func (a *Analyzer) Name() string {
	return a.provider.Name()
}

// Analyze renders the prompt for analysisType, calls the backend with
// retries and parses the JSON answer. processingTimeMs covers the whole
// retrying call.
func (a *Analyzer) Analyze(ctx context.Context, item types.FeedbackItem, analysisType types.AnalysisType) (types.AnalysisResult, error) {
	analysisType = types.ParseAnalysisType(string(analysisType))
	prompt := a.prompts.Render(analysisType, item)
	start := a.now()

	var (
		completion *Completion
		analysis   types.Analysis
	)
	err := a.retrier.Do(ctx, func(ctx context.Context) error {
		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}
		c, err := a.provider.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		parsed, err := ParseAnalysis(c.Text)
		if err != nil {
			return err
		}
		completion, analysis = c, parsed
		return nil
	})
	if err != nil {
		logging.Error("failed to analyze feedback", "provider", a.provider.Name(), "source", item.Source, "title", item.Title, "err", err)
		return types.AnalysisResult{}, err
	}

	elapsed := a.now().Sub(start)
	created := item.CreatedAt
	if created.IsZero() {
		created = a.now().UTC()
	}

	return types.AnalysisResult{
		ID:         uuid.NewString(),
		Type:       analysisType,
		Source:     string(item.Source),
		Title:      item.Title,
		URL:        item.URL,
		Confidence: confidenceOf(analysis),
		Analysis:   analysis,
		Metadata: types.Metadata{
			ProcessingTimeMs: elapsed.Milliseconds(),
			ModelUsed:        a.provider.Kind(),
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
		},
		CreatedAt:  created,
		AnalyzedAt: a.now().UTC(),
	}, nil
}

// BatchAnalyze analyzes all items in parallel. Results keep input order;
// the first failure cancels the rest and fails the batch.
func (a *Analyzer) BatchAnalyze(ctx context.Context, items []types.FeedbackItem, analysisType types.AnalysisType) ([]types.AnalysisResult, error) {
	results := make([]types.AnalysisResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			res, err := a.Analyze(ctx, item, analysisType)
			if err != nil {
				return fmt.Errorf("analyze %s item %q: %w", item.Source, item.Title, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParseAnalysis reads a backend answer as a JSON object. Markdown code
// fences around the object are tolerated; anything else is a *ParseError.
func ParseAnalysis(raw string) (types.Analysis, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return types.Analysis{}, &ParseError{Raw: raw, Err: fmt.Errorf("response is not a JSON object")}
	}

	var analysis types.Analysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return types.Analysis{}, &ParseError{Raw: raw, Err: err}
	}
	return analysis, nil
}

func confidenceOf(a types.Analysis) float64 {
	if v, ok := a.Extra["confidence"].(float64); ok {
		return types.ClampConfidence(v)
	}
	return types.DefaultConfidence
}
