package processor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/adapters"
	"github.com/Aashka19/CodeEcho/pkg/heuristic"
	"github.com/Aashka19/CodeEcho/pkg/store"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

// DefaultLimit is the batch size used when a request asks for <= 0 items
const DefaultLimit = 5

// Analyzer produces AnalysisResults; both the AI and heuristic analyzers
// satisfy it
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, item types.FeedbackItem, analysisType types.AnalysisType) (types.AnalysisResult, error)
	BatchAnalyze(ctx context.Context, items []types.FeedbackItem, analysisType types.AnalysisType) ([]types.AnalysisResult, error)
}

// Request describes one aggregation pass
type Request struct {
	// Sources to fetch from; empty means every enabled source
	Sources   []types.Source
	Type      types.AnalysisType
	Limit     int
	Heuristic bool
}

// BatchResult is the merged, recency-sorted outcome of a pass
type BatchResult struct {
	Type      types.AnalysisType     `json:"type"`
	Total     int                    `json:"total_items"`
	PerSource map[types.Source]int   `json:"per_source"`
	Analysis  []types.AnalysisResult `json:"analysis"`
}

// Aggregator runs an analyzer over items drawn from the source adapters and
// records the results in the store
type Aggregator struct {
	registry     *adapters.Registry
	analyzer     Analyzer
	heuristic    *heuristic.Analyzer
	fallback     Analyzer
	results      *store.Results
	defaultLimit int
	now          func() time.Time
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithStore injects the result store
func WithStore(s *store.Results) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.results = s
		}
	}
}

// WithDefaultLimit overrides the batch size used for limit <= 0
func WithDefaultLimit(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.defaultLimit = n
		}
	}
}

// NewAggregator creates an aggregator. analyzer is the process analyzer; a
// nil analyzer means the heuristic one is used for everything.
func NewAggregator(registry *adapters.Registry, analyzer Analyzer, opts ...Option) *Aggregator {
	h := heuristic.New()
	fallback := heuristic.NewResultAnalyzer(h)
	if analyzer == nil {
		analyzer = fallback
	}
	a := &Aggregator{
		registry:     registry,
		analyzer:     analyzer,
		heuristic:    h,
		fallback:     fallback,
		results:      store.New(store.DefaultCapacity),
		defaultLimit: DefaultLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzerName reports which analyzer serves requests
func (a *Aggregator) AnalyzerName() string {
	return a.analyzer.Name()
}

// ParseSources maps a request's source value onto adapter sources.
// "" and "all" select every enabled source.
func ParseSources(s string) ([]types.Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return nil, nil
	case string(types.SourceGitHub):
		return []types.Source{types.SourceGitHub}, nil
	case string(types.SourceStackOverflow):
		return []types.Source{types.SourceStackOverflow}, nil
	default:
		return nil, types.InvalidInputf("Invalid source %q. Use \"github\", \"stackoverflow\" or \"all\"", s)
	}
}

// Run fetches from every requested source, analyzes the combined batch,
// sorts it newest first and keeps at most Limit results. When no source
// returns anything the result is empty and the error wraps ErrNoDataFound.
func (a *Aggregator) Run(ctx context.Context, req Request) (*BatchResult, error) {
	req.Type = types.ParseAnalysisType(string(req.Type))
	if req.Limit <= 0 {
		req.Limit = a.defaultLimit
	}
	sources := req.Sources
	if len(sources) == 0 {
		sources = a.registry.Sources()
	}

	batch := &BatchResult{
		Type:      req.Type,
		PerSource: make(map[types.Source]int, len(sources)),
		Analysis:  []types.AnalysisResult{},
	}

	var items []types.FeedbackItem
	for _, f := range a.fetchAll(ctx, sources, req.Limit) {
		batch.PerSource[f.Source] = len(f.Items)
		items = append(items, f.Items...)
	}

	// A timed-out request is a failure, not an empty result
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}
	if len(items) == 0 {
		return batch, fmt.Errorf("%w from sources %v", types.ErrNoDataFound, sources)
	}

	analyzer := a.analyzer
	if req.Heuristic {
		analyzer = a.fallback
	}
	logging.Info("analyzing feedback batch", "items", len(items), "type", req.Type, "analyzer", analyzer.Name())

	results, err := analyzer.BatchAnalyze(ctx, items, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze feedback: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	a.results.Append(results...)
	batch.Analysis = results
	batch.Total = len(results)
	return batch, nil
}

// fetchAll calls each adapter concurrently; results keep the order of sources
func (a *Aggregator) fetchAll(ctx context.Context, sources []types.Source, limit int) []adapters.Fetched {
	fetched := make([]adapters.Fetched, len(sources))
	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			fetched[i] = a.registry.Fetch(ctx, src, limit)
			return nil
		})
	}
	_ = g.Wait() // Fetch absorbs every failure
	return fetched
}

// AnalyzeText analyzes caller-provided text as a single item
func (a *Aggregator) AnalyzeText(ctx context.Context, text string, analysisType types.AnalysisType) (types.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return types.AnalysisResult{}, types.InvalidInputf("Text parameter is required for analysis")
	}
	item := types.FeedbackItem{
		Title:     "User Provided Feedback",
		Body:      text,
		Source:    types.SourceUser,
		CreatedAt: a.now().UTC(),
	}
	return a.AnalyzeItem(ctx, item, analysisType)
}

// AnalyzeItem analyzes one item with the process analyzer and stores it
func (a *Aggregator) AnalyzeItem(ctx context.Context, item types.FeedbackItem, analysisType types.AnalysisType) (types.AnalysisResult, error) {
	analysisType = types.ParseAnalysisType(string(analysisType))
	res, err := a.analyzer.Analyze(ctx, item, analysisType)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("failed to analyze feedback: %w", err)
	}
	a.results.Append(res)
	return res, nil
}

// Stored returns the newest k stored results, oldest first
func (a *Aggregator) Stored(k int) []types.AnalysisResult {
	return a.results.Last(k)
}
