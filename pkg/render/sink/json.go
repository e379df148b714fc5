package sink

import (
	"encoding/json"

	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/stack"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	totals  bool
	compact bool
}

// WithJSONTotals includes a per-day totals sequence in the output, saving
// renderers a pass over the series when they only need the envelope.
func WithJSONTotals() JSONOption { return func(r *jsonRenderer) { r.totals = true } }

// WithJSONCompact emits minified JSON instead of the default indented form.
// Useful for API responses where payload size matters.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Keys           []string     `json:"keys"`
	MaxStackHeight int          `json:"max_stack_height"`
	MinStart       string       `json:"min_start"`
	MaxEnd         string       `json:"max_end"`
	Days           int          `json:"days"`
	Series         []jsonSeries `json:"series"`
	Totals         []jsonTotal  `json:"totals,omitempty"`
}

type jsonSeries struct {
	Key   string     `json:"key"`
	Bands []jsonBand `json:"bands"`
}

type jsonBand struct {
	Time     string `json:"time"`
	Baseline int    `json:"baseline"`
	Top      int    `json:"top"`
}

type jsonTotal struct {
	Time  string `json:"time"`
	Count int    `json:"count"`
}

// RenderJSON exports the layout as a JSON document, the primary data
// interchange format handed to drawing collaborators. The document carries
// the ordered key set (which fixes color and label assignment), one band
// series per key, and MaxStackHeight plus the date span for coordinate
// scales. Dates are formatted as YYYY-MM-DD.
//
// RenderJSON does not modify l and is safe to call concurrently.
func RenderJSON(l stack.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Keys:           l.Keys,
		MaxStackHeight: l.MaxStackHeight,
		MinStart:       l.MinStart.Format(interval.DateFormat),
		MaxEnd:         l.MaxEnd.Format(interval.DateFormat),
		Days:           l.DayCount(),
		Series:         buildJSONSeries(l),
	}

	if r.totals {
		out.Totals = buildJSONTotals(l)
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONSeries(l stack.Layout) []jsonSeries {
	series := make([]jsonSeries, len(l.Series))
	for i, s := range l.Series {
		bands := make([]jsonBand, len(s.Bands))
		for d, b := range s.Bands {
			bands[d] = jsonBand{
				Time:     b.Time.Format(interval.DateFormat),
				Baseline: b.Baseline,
				Top:      b.Top,
			}
		}
		series[i] = jsonSeries{Key: s.Key, Bands: bands}
	}
	return series
}

// buildJSONTotals derives the per-day concurrency envelope from the last
// series, whose top equals the day's total by construction.
func buildJSONTotals(l stack.Layout) []jsonTotal {
	if len(l.Series) == 0 {
		return nil
	}
	last := l.Series[len(l.Series)-1]
	totals := make([]jsonTotal, len(last.Bands))
	for d, b := range last.Bands {
		totals[d] = jsonTotal{Time: b.Time.Format(interval.DateFormat), Count: b.Top}
	}
	return totals
}
