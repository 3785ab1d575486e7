package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Aashka19/CodeEcho/internal/handler"
	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/internal/middleware"
	"github.com/Aashka19/CodeEcho/internal/processor"
)

// APIPrefix is where the feedback routes are mounted
const APIPrefix = "/api/feedback"

// Server wraps the HTTP server
type Server struct {
	port            string
	feedbackHandler *handler.FeedbackHandler
	httpServer      *http.Server
	requestTimeout  time.Duration
}

// writeGrace leaves room to write the error envelope after a request
// context times out
const writeGrace = 5 * time.Second

// New creates a new HTTP server. requestTimeout cancels the context of each
// request, AI batches included.
func New(port string, agg *processor.Aggregator, viewLimit int, requestTimeout time.Duration) *Server {
	s := &Server{
		port:            port,
		feedbackHandler: handler.NewFeedbackHandler(agg, viewLimit),
		requestTimeout:  requestTimeout,
	}
	writeTimeout := time.Duration(0)
	if requestTimeout > 0 {
		writeTimeout = requestTimeout + writeGrace
	}
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Routes configures HTTP routes and wraps them in the middleware chain
func (s *Server) Routes() http.Handler {
	h := s.feedbackHandler
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+APIPrefix+"/analyses/view", h.ViewAnalyses)
	mux.HandleFunc("GET "+APIPrefix+"/analyze/text", h.AnalyzeText)
	mux.HandleFunc("GET "+APIPrefix+"/analyze/recent", h.Recent)
	mux.HandleFunc("GET "+APIPrefix+"/analyze", h.AnalyzeSources)
	mux.HandleFunc("POST "+APIPrefix+"/analyze", h.AnalyzeFeedback)
	mux.HandleFunc("GET "+APIPrefix+"/ingest", h.Ingest)
	mux.HandleFunc("POST "+APIPrefix+"/ingest", h.Ingest)

	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.HandleFunc("GET /{$}", handler.HandleRoot)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging,
		middleware.Recover,
		middleware.Timeout(s.requestTimeout),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	logging.Info("HTTP server listening", "port", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
