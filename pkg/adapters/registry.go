package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

// SourceAdapter fetches recent items from one remote feedback source and
// maps them into the canonical FeedbackItem shape
type SourceAdapter interface {
	FetchItems(ctx context.Context, limit int) ([]types.FeedbackItem, error)
	Source() types.Source
}

// Fetched is the outcome of one adapter call. Err is informational only:
// a failed source yields zero items and the pipeline carries on.
type Fetched struct {
	Source   types.Source
	Items    []types.FeedbackItem
	Err      error
	Duration time.Duration
}

// Registry manages the enabled source adapters
type Registry struct {
	adapters        map[types.Source]SourceAdapter
	order           []types.Source
	enabledAdapters map[types.Source]bool
}

// NewRegistry creates a registry holding adapters. Pass source names in
// enabled to restrict which are used; if none are given, all are enabled.
func NewRegistry(enabled []string, adapters ...SourceAdapter) *Registry {
	registry := &Registry{
		adapters:        make(map[types.Source]SourceAdapter),
		enabledAdapters: make(map[types.Source]bool),
	}

	for _, a := range adapters {
		if _, dup := registry.adapters[a.Source()]; !dup {
			registry.order = append(registry.order, a.Source())
		}
		registry.adapters[a.Source()] = a
	}

	if len(enabled) == 0 {
		for _, s := range registry.order {
			registry.enabledAdapters[s] = true
		}
	}
	for _, name := range enabled {
		registry.enabledAdapters[types.Source(strings.ToLower(strings.TrimSpace(name)))] = true
	}

	return registry
}

// IsEnabled checks if an adapter is registered and enabled
func (r *Registry) IsEnabled(source types.Source) bool {
	_, ok := r.adapters[source]
	return ok && r.enabledAdapters[source]
}

// Sources lists the enabled sources in registration order
func (r *Registry) Sources() []types.Source {
	out := make([]types.Source, 0, len(r.order))
	for _, s := range r.order {
		if r.IsEnabled(s) {
			out = append(out, s)
		}
	}
	return out
}

// Fetch calls the adapter for source and never fails: remote errors,
// disabled sources and panics all come back as zero items with Err set.
func (r *Registry) Fetch(ctx context.Context, source types.Source, limit int) (out Fetched) {
	out.Source = source
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			out.Duration = time.Since(start)
			out.Items = nil
			out.Err = fmt.Errorf("%w: %s adapter panicked: %v", types.ErrSourceUnavailable, source, p)
			logging.Error("source adapter panicked", "source", source, "panic", p)
		}
	}()

	if !r.IsEnabled(source) {
		out.Err = fmt.Errorf("%w: %s is not enabled", types.ErrSourceUnavailable, source)
		logging.Warn("source not enabled, skipping", "source", source)
		return out
	}

	items, err := r.adapters[source].FetchItems(ctx, limit)
	out.Duration = time.Since(start)
	if err != nil {
		out.Err = fmt.Errorf("%w: %s: %v", types.ErrSourceUnavailable, source, err)
		logging.Error("failed to fetch feedback", "source", source, "duration", out.Duration, "err", err)
		return out
	}

	for i := range items {
		items[i].Source = source
	}
	out.Items = items
	logging.Info("fetched feedback", "source", source, "count", len(items), "duration", out.Duration)
	return out
}
