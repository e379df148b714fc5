package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/spanstack/pkg/errors"
	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/pipeline"
	"github.com/matzehuels/spanstack/pkg/source/csvfile"
)

// errorResponse is the JSON envelope for all failure responses.
type errorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Missing []string            `json:"missing,omitempty"` // header errors
	Total   int                 `json:"total,omitempty"`   // row errors before capping
	Errors  []interval.RowError `json:"errors,omitempty"`  // capped row errors
}

// handleLayout runs the full pipeline on a CSV request body.
//
// Query parameters:
//
//	format=json|csv   artifact format (default json)
//	totals=1          include per-day totals
//	refresh=1         bypass cached layouts
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	rows, err := csvfile.Read(body)
	if err != nil {
		var he *csvfile.HeaderError
		if stderrors.As(err, &he) {
			writeError(w, http.StatusBadRequest, errorResponse{
				Code:    string(errors.ErrCodeInvalidHeader),
				Message: he.Error(),
				Missing: he.Missing,
			})
			return
		}
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    string(errors.ErrCodeInvalidInput),
			Message: err.Error(),
		})
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}

	opts := pipeline.Options{
		Formats:           []string{format},
		Totals:            r.URL.Query().Get("totals") == "1",
		CompactJSON:       true,
		Refresh:           r.URL.Query().Get("refresh") == "1",
		MaxReportedErrors: s.maxErrors,
		Logger:            s.logger,
	}

	result, err := s.runner.Execute(r.Context(), rows, opts)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	w.Header().Set("X-Layout-Hash", result.LayoutHash)
	switch format {
	case pipeline.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// writePipelineError maps pipeline failures onto HTTP statuses.
// Validation problems are client errors; everything else is a contract
// violation that must not leak a half-built chart.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidRows):
		resp := errorResponse{
			Code:    string(errors.ErrCodeInvalidRows),
			Message: errors.UserMessage(err),
		}
		var vf *pipeline.ValidationFailure
		if stderrors.As(err, &vf) {
			resp.Total = vf.Total
			resp.Errors = vf.Errors
			resp.Message = vf.Error()
		}
		writeError(w, http.StatusUnprocessableEntity, resp)

	case errors.Is(err, errors.ErrCodeNoData):
		writeError(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    string(errors.ErrCodeNoData),
			Message: errors.UserMessage(err),
		})

	case errors.Is(err, errors.ErrCodeInvalidFormat):
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    string(errors.ErrCodeInvalidFormat),
			Message: errors.UserMessage(err),
		})

	default:
		s.logger.Error("pipeline failure", "err", err)
		writeError(w, http.StatusInternalServerError, errorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "layout computation failed",
		})
	}
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
