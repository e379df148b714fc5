// Package server implements the Spanstack HTTP API.
//
// The API is a thin boundary over the shared pipeline Runner: it accepts
// CSV interval data, runs the validate → occupancy → layout pipeline, and
// returns the renderer-agnostic layout document. All computation semantics
// live in pkg/pipeline; this package only handles transport, error
// mapping, and request logging.
//
// # Endpoints
//
//	POST /v1/layout    text/csv body → layout JSON (or CSV matrix)
//	GET  /healthz      liveness probe
//
// # Error Mapping
//
//	INVALID_HEADER  → 400, body names the missing columns
//	INVALID_ROWS    → 422, body carries the capped row-error list
//	NO_DATA         → 422
//	INTERNAL_ERROR  → 500 (contract violations, never user input)
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/spanstack/pkg/pipeline"
)

// maxBodyBytes bounds request bodies; a CSV of intervals has no business
// being larger than this.
const maxBodyBytes = 16 << 20 // 16 MiB

// Server wires the pipeline runner into an HTTP handler.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	maxErrors int
}

// New creates a server around the given runner.
// If logger is nil, log.Default() is used. maxErrors caps how many row
// errors a response carries; zero selects the pipeline default.
func New(runner *pipeline.Runner, logger *log.Logger, maxErrors int) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:    runner,
		logger:    logger,
		maxErrors: maxErrors,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withRequestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/layout", s.handleLayout)

	return r
}

// Serve runs the HTTP server on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
