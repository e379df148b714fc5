package stack

import (
	"time"

	"github.com/matzehuels/spanstack/pkg/errors"
	"github.com/matzehuels/spanstack/pkg/occupancy"
)

// =============================================================================
// Types - Renderer-Agnostic Layout Contract
// =============================================================================

// Band is one key's cumulative bounds on one day.
// Top - Baseline equals the key's occupancy for that day (0 or 1).
type Band struct {
	Time     time.Time `json:"time"`
	Baseline int       `json:"baseline"`
	Top      int       `json:"top"`
}

// Occupied reports whether the key contributes to the stack on this day.
func (b Band) Occupied() bool {
	return b.Top > b.Baseline
}

// Series is the ordered per-day band sequence for a single key.
type Series struct {
	Key   string `json:"key"`
	Bands []Band `json:"bands"`
}

// Layout is the stacked result for one occupancy grid.
//
// Series appear in key order, one per key, each holding one band per day of
// the grid span. On any fixed day, the top of the last series equals the
// total number of concurrently active ids that day, and MaxStackHeight is
// the maximum such total across the whole span.
type Layout struct {
	Series         []Series  `json:"series"`
	Keys           []string  `json:"keys"`
	MaxStackHeight int       `json:"max_stack_height"`
	MinStart       time.Time `json:"min_start"`
	MaxEnd         time.Time `json:"max_end"`
}

// DayCount returns the number of days covered by the layout.
func (l Layout) DayCount() int {
	if len(l.Series) == 0 {
		return 0
	}
	return len(l.Series[0].Bands)
}

// =============================================================================
// Layout Computation
// =============================================================================

// Compute derives the stacked layout from an occupancy grid.
//
// For each day it walks the key set in fixed order, accumulating a running
// sum from zero: a key's baseline is the sum before adding its occupancy
// and its top is the sum after. The computation is deterministic and pure;
// rendering concerns never influence it.
//
// An empty grid violates the occupancy builder's output contract and
// returns an INTERNAL_ERROR rather than a user-facing validation error.
func Compute(grid occupancy.Grid) (Layout, error) {
	if len(grid.Keys) == 0 || len(grid.Days) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInternal, "stack layout requires a non-empty grid")
	}

	series := make([]Series, len(grid.Keys))
	for i, key := range grid.Keys {
		series[i] = Series{
			Key:   key,
			Bands: make([]Band, len(grid.Days)),
		}
	}

	maxHeight := 0
	for d, day := range grid.Days {
		sum := 0
		for i, key := range grid.Keys {
			base := sum
			if day.Active[key] {
				sum++
			}
			series[i].Bands[d] = Band{Time: day.Time, Baseline: base, Top: sum}
		}
		if sum > maxHeight {
			maxHeight = sum
		}
	}

	return Layout{
		Series:         series,
		Keys:           append([]string(nil), grid.Keys...),
		MaxStackHeight: maxHeight,
		MinStart:       grid.MinStart,
		MaxEnd:         grid.MaxEnd,
	}, nil
}
