// Package store keeps the most recent analysis results in memory.
package store

import (
	"sync"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

// DefaultCapacity is the retention window when none is configured
const DefaultCapacity = 100

// Results is a bounded, insertion-ordered buffer of AnalysisResults.
// Once full, the oldest entries are evicted first.
type Results struct {
	capacity int
	buf      []types.AnalysisResult
	start    int // index of the oldest entry
	size     int
	mu       sync.RWMutex
}

// New creates a store retaining at most capacity results
func New(capacity int) *Results {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Results{
		capacity: capacity,
		buf:      make([]types.AnalysisResult, capacity),
	}
}

// Append stores results in order, evicting the oldest beyond capacity
func (r *Results) Append(results ...types.AnalysisResult) {
	if len(results) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for _, res := range results {
		end := (r.start + r.size) % r.capacity
		r.buf[end] = res
		if r.size < r.capacity {
			r.size++
		} else {
			r.start = (r.start + 1) % r.capacity
			evicted++
		}
	}

	if evicted > 0 {
		logging.Debug("evicted oldest analyses", "count", evicted, "capacity", r.capacity)
	}
}

// Last returns a snapshot of the newest k results, oldest first.
// k <= 0 or larger than the store returns everything held.
func (r *Results) Last(k int) []types.AnalysisResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if k <= 0 || k > r.size {
		k = r.size
	}
	out := make([]types.AnalysisResult, k)
	offset := r.size - k
	for i := 0; i < k; i++ {
		out[i] = r.buf[(r.start+offset+i)%r.capacity]
	}
	return out
}

// Len returns the number of stored results
func (r *Results) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Capacity returns the retention window
func (r *Results) Capacity() int {
	return r.capacity
}
