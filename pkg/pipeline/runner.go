package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spanstack/pkg/cache"
	"github.com/matzehuels/spanstack/pkg/errors"
	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/observability"
	"github.com/matzehuels/spanstack/pkg/occupancy"
	"github.com/matzehuels/spanstack/pkg/stack"
)

// Runner encapsulates pipeline execution with caching.
// CLI, API and editor all use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed stacked layout.
	Layout stack.Layout

	// LayoutHash is the content hash of the validated interval set,
	// stable across runs on identical input.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	IntervalCount int
	KeyCount      int
	DayCount      int
	ValidateTime  time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// Execute runs the complete validate → occupancy → layout → render
// pipeline with caching.
//
// Validation problems surface as a *ValidationFailure wrapped under
// INVALID_ROWS; cleanly-parsed input with zero intervals yields NO_DATA.
// Any failure past validation is a contract violation reported as
// INTERNAL_ERROR - including panics, which are caught here so a
// computation bug can never crash a host application.
func (r *Runner) Execute(ctx context.Context, rows []interval.RawRow, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid options")
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = errors.New(errors.ErrCodeInternal, "layout computation panicked: %v", rec)
		}
	}()

	result = &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Validate
	validateStart := time.Now()
	observability.Pipeline().OnValidateStart(ctx, len(rows))
	intervals, verr := r.Validate(rows, opts)
	if verr != nil {
		return nil, verr
	}
	observability.Pipeline().OnValidateComplete(ctx, len(intervals), 0, time.Since(validateStart))
	result.Stats.ValidateTime = time.Since(validateStart)
	result.Stats.IntervalCount = len(intervals)
	result.LayoutHash = IntervalsHash(intervals)

	opts.Logger.Info("validated intervals",
		"rows", len(rows),
		"intervals", len(intervals),
		"duration", result.Stats.ValidateTime)

	// Stages 2+3: Occupancy grid and stacked layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(intervals))
	layout, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, intervals, result.LayoutHash, opts)
	observability.Pipeline().OnLayoutComplete(ctx, len(layout.Keys), layout.DayCount(), time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.KeyCount = len(layout.Keys)
	result.Stats.DayCount = layout.DayCount()
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"keys", len(layout.Keys),
		"days", layout.DayCount(),
		"max_height", layout.MaxStackHeight,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Validate converts raw rows into intervals, mapping the outcome onto the
// pipeline's error taxonomy: INVALID_ROWS with a capped *ValidationFailure
// cause, or NO_DATA for cleanly-parsed but empty input.
func (r *Runner) Validate(rows []interval.RawRow, opts Options) ([]interval.Interval, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid options")
	}

	intervals, rowErrs := interval.Validate(rows)
	if len(rowErrs) > 0 {
		vf := &ValidationFailure{Errors: rowErrs, Total: len(rowErrs)}
		if len(vf.Errors) > opts.MaxReportedErrors {
			vf.Errors = vf.Errors[:opts.MaxReportedErrors]
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidRows, vf, "input rejected")
	}
	if len(intervals) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no usable intervals in input")
	}
	return intervals, nil
}

// ComputeLayoutWithCacheInfo computes the stacked layout with caching and
// returns cache hit info. The intervalsHash must come from IntervalsHash
// on the same interval set.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, intervals []interval.Interval, intervalsHash string, opts Options) (stack.Layout, bool, error) {
	cacheKey := r.Keyer.LayoutKey(intervalsHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := stack.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	grid, err := occupancy.Build(intervals)
	if err != nil {
		return stack.Layout{}, false, err
	}
	layout, err := stack.Compute(grid)
	if err != nil {
		return stack.Layout{}, false, err
	}

	// Cache the result
	if data, err := stack.MarshalLayout(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return layout, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that validates rows and computes
// the layout, discarding cache hit info and artifacts.
func (r *Runner) ComputeLayout(ctx context.Context, rows []interval.RawRow, opts Options) (stack.Layout, error) {
	intervals, err := r.Validate(rows, opts)
	if err != nil {
		return stack.Layout{}, err
	}
	layout, _, err := r.ComputeLayoutWithCacheInfo(ctx, intervals, IntervalsHash(intervals), opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout stack.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid options")
	}

	layoutData, err := stack.MarshalLayout(layout)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, artifactKeySuffix(format, opts))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	rendered, err := renderFormats(layout, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, artifactKeySuffix(format, opts))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// IntervalsHash computes the content hash of a validated interval set.
// Identical input rows always produce identical hashes, which is what
// makes layout caching safe.
func IntervalsHash(intervals []interval.Interval) string {
	data, _ := json.Marshal(intervals)
	return cache.Hash(data)
}
