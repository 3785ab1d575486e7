package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/internal/processor"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

// maxBodyBytes caps POST bodies
const maxBodyBytes = 1 << 20

// Response is the envelope every endpoint returns
type Response struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Type    types.AnalysisType `json:"type,omitempty"`
	Data    any                `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// FeedbackHandler serves the /api/feedback routes
type FeedbackHandler struct {
	aggregator *processor.Aggregator
	viewLimit  int
}

// NewFeedbackHandler creates a new feedback handler. viewLimit is how many
// stored analyses /analyses/view returns.
func NewFeedbackHandler(agg *processor.Aggregator, viewLimit int) *FeedbackHandler {
	if viewLimit <= 0 {
		viewLimit = 10
	}
	return &FeedbackHandler{
		aggregator: agg,
		viewLimit:  viewLimit,
	}
}

// ViewAnalyses returns the most recently stored analyses
func (h *FeedbackHandler) ViewAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses := h.aggregator.Stored(h.viewLimit)
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stored analyses retrieved successfully",
		Data: map[string]any{
			"total":    len(analyses),
			"analyses": analyses,
		},
	})
}

// AnalyzeText analyzes the text query parameter as a single item
func (h *FeedbackHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	analysisType := types.ParseAnalysisType(q.Get("type"))

	result, err := h.aggregator.AnalyzeText(r.Context(), q.Get("text"), analysisType)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Feedback analyzed successfully",
		Type:    analysisType,
		Data:    result,
	})
}

// AnalyzeSources fetches from the requested sources and analyzes the batch
func (h *FeedbackHandler) AnalyzeSources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	analysisType := types.ParseAnalysisType(q.Get("type"))
	source := strings.ToLower(strings.TrimSpace(q.Get("source")))
	if source == "" {
		source = "all"
	}
	// Non-numeric limits fall back to the default batch size
	limit, _ := strconv.Atoi(q.Get("limit"))

	sources, err := processor.ParseSources(source)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	logging.Info("fetching feedback for analysis", "type", analysisType, "source", source, "limit", limit)

	batch, err := h.aggregator.Run(r.Context(), processor.Request{
		Sources:   sources,
		Type:      analysisType,
		Limit:     limit,
		Heuristic: strings.EqualFold(q.Get("mode"), "heuristic"),
	})
	switch {
	case errors.Is(err, types.ErrNoDataFound):
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Message: "No feedback found from specified sources",
			Data: map[string]any{
				"type":        analysisType,
				"source":      source,
				"total_items": 0,
				"analysis":    []types.AnalysisResult{},
			},
		})
		return
	case err != nil:
		logging.Error("feedback analysis failed", "error", err)
		writeJSON(w, statusFor(err), Response{
			Success: false,
			Message: "Failed to analyze feedback",
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Feedback analyzed successfully",
		Data: map[string]any{
			"type":                batch.Type,
			"source":              source,
			"total_items":         batch.Total,
			"github_items":        batch.PerSource[types.SourceGitHub],
			"stackoverflow_items": batch.PerSource[types.SourceStackOverflow],
			"per_source":          batch.PerSource,
			"analysis":            batch.Analysis,
		},
	})
}

type analyzeRequest struct {
	Feedback json.RawMessage `json:"feedback"`
	Type     string          `json:"type"`
}

// AnalyzeFeedback analyzes a posted feedback string or object
func (h *FeedbackHandler) AnalyzeFeedback(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body", Error: err.Error()})
		return
	}

	item, err := processor.ParseFeedback(req.Feedback)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	analysisType := types.ParseAnalysisType(req.Type)
	result, err := h.aggregator.AnalyzeItem(r.Context(), item, analysisType)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Feedback analyzed successfully",
		Type:    analysisType,
		Data:    result,
	})
}

// Recent returns heuristic insights over the newest source items
func (h *FeedbackHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Recent feedback analyzed successfully",
		Data:    h.aggregator.Recent(r.Context(), limit),
	})
}

// Ingest fetches raw items from ?source= (GET) or {"source"} (POST)
func (h *FeedbackHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if r.Method == http.MethodPost {
		var body struct {
			Source string `json:"source"`
		}
		if err := decodeBody(w, r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body", Error: err.Error()})
			return
		}
		source = body.Source
	}

	result, err := h.aggregator.Ingest(r.Context(), source)
	if err != nil {
		writeJSON(w, statusFor(err), Response{Success: false, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Feedback ingested and processed successfully",
		Data:    result,
	})
}

// HandleRoot returns the welcome message
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Community Insights API"})
}

// HandleHealth handles health check requests
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// writeAnalysisError reports input errors by their own message and every
// other failure under a generic message with the cause attached
func writeAnalysisError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusBadRequest {
		writeJSON(w, status, Response{Success: false, Message: err.Error()})
		return
	}
	logging.Error("feedback analysis failed", "error", err)
	writeJSON(w, status, Response{
		Success: false,
		Message: "Failed to analyze feedback",
		Error:   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNoDataFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to write response", "error", err)
	}
}
