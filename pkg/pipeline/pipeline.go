// Package pipeline provides the core computation pipeline for Spanstack.
//
// This package implements the complete validate → occupancy → layout →
// render pipeline used by the CLI, the HTTP API and the interactive editor.
// Centralizing it keeps behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Validate: Convert raw rows into well-formed intervals, collecting
//     every row problem before reporting
//  2. Occupancy: Expand intervals into the dense per-day activity grid
//  3. Layout: Compute cumulative stacked bands per key per day
//  4. Render: Export the layout in one or more formats (JSON, CSV)
//
// Stages 2–4 are pure functions of their input; caching and logging happen
// only in the [Runner] wrapper, never inside the stages themselves. The
// pipeline holds no state between invocations, so it can be called from
// any goroutine or deferred context.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, rows, pipeline.Options{
//	    Formats: []string{"json"},
//	})
//	if err != nil {
//	    var vf *pipeline.ValidationFailure
//	    if errors.As(err, &vf) {
//	        // vf.Errors carries up to MaxReportedErrors row diagnostics
//	    }
//	}
//	doc := result.Artifacts["json"]
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Editor
// =============================================================================

// DefaultMaxReportedErrors bounds how many row errors are surfaced to the
// user. Validation always inspects every row; only the report is capped,
// and the total count is preserved alongside it.
const DefaultMaxReportedErrors = 200

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ValidFormats is the set of built-in output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatCSV:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Formats     []string `json:"formats,omitempty"`
	Totals      bool     `json:"totals,omitempty"`       // include per-day totals in JSON output
	CompactJSON bool     `json:"compact_json,omitempty"` // minified JSON artifact

	// Validation options
	MaxReportedErrors int `json:"max_reported_errors,omitempty"`

	// Cache options
	Refresh bool `json:"refresh,omitempty"` // bypass cached layouts/artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Renderers maps additional format names to injected drawing
	// collaborators. Built-in formats cannot be overridden.
	Renderers map[string]render.Renderer `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// =============================================================================
// Validation Failure - Row Errors as Data
// =============================================================================

// ValidationFailure aggregates row-level validation errors for one input.
// Errors holds at most the configured report cap; Total is the full count,
// so "showing 200 of 1234 problems" stays honest.
type ValidationFailure struct {
	Errors []interval.RowError `json:"errors"`
	Total  int                 `json:"total"`
}

// Error implements the error interface.
func (e *ValidationFailure) Error() string {
	if e.Total == 1 {
		return "1 invalid row"
	}
	return fmt.Sprintf("%d invalid rows", e.Total)
}

// Truncated reports whether the error list was capped.
func (e *ValidationFailure) Truncated() bool {
	return e.Total > len(e.Errors)
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is a built-in one.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, csv)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are either built-in or covered
// by an injected renderer.
func ValidateFormats(formats []string, renderers map[string]render.Renderer) error {
	for _, f := range formats {
		if _, ok := renderers[f]; ok {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats, o.Renderers); err != nil {
		return err
	}
	if o.MaxReportedErrors == 0 {
		o.MaxReportedErrors = DefaultMaxReportedErrors
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
