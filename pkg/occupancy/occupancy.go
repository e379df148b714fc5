package occupancy

import (
	"time"

	"github.com/matzehuels/spanstack/pkg/errors"
	"github.com/matzehuels/spanstack/pkg/interval"
)

// DayPoint records which ids are active on a single calendar day.
// Time is a midnight-UTC date; Active maps id → presence for that day.
// Ids absent from Active have occupancy zero.
type DayPoint struct {
	Time   time.Time
	Active map[string]bool
}

// Grid is the dense day-by-id occupancy matrix for one interval set.
// Days are ascending and contiguous from MinStart to MaxEnd inclusive.
// Keys holds the distinct ids in first-occurrence order; that order is
// semantically significant because it fixes the stacking order.
type Grid struct {
	Days     []DayPoint
	Keys     []string
	MinStart time.Time
	MaxEnd   time.Time
}

// DayCount returns the number of days in the grid span.
func (g Grid) DayCount() int {
	return len(g.Days)
}

// Count returns the number of ids active on the given day point.
func (p DayPoint) Count() int {
	n := 0
	for _, on := range p.Active {
		if on {
			n++
		}
	}
	return n
}

// Build computes the occupancy grid for a non-empty interval set.
//
// The grid spans min(start) to max(end) across all intervals, one DayPoint
// per calendar day. An id is active on a day when any of its intervals
// contains that day; overlapping same-id intervals collapse to a single
// active day. A single interval with start == end produces exactly one
// active day.
//
// Passing an empty interval slice violates the validator's output contract
// and returns an INTERNAL_ERROR; it is never a user-facing condition.
func Build(intervals []interval.Interval) (Grid, error) {
	if len(intervals) == 0 {
		return Grid{}, errors.New(errors.ErrCodeInternal, "occupancy requires at least one interval")
	}

	minStart, maxEnd := span(intervals)
	keys := keyOrder(intervals)

	// Group intervals by id once so the per-day scan only touches the
	// intervals that can contribute to a key.
	byID := make(map[string][]interval.Interval, len(keys))
	for _, iv := range intervals {
		byID[iv.ID] = append(byID[iv.ID], iv)
	}

	var days []DayPoint
	for day := minStart; !day.After(maxEnd); day = day.AddDate(0, 0, 1) {
		active := make(map[string]bool, len(keys))
		for _, key := range keys {
			for _, iv := range byID[key] {
				if iv.Contains(day) {
					active[key] = true
					break
				}
			}
		}
		days = append(days, DayPoint{Time: day, Active: active})
	}

	return Grid{
		Days:     days,
		Keys:     keys,
		MinStart: minStart,
		MaxEnd:   maxEnd,
	}, nil
}

// span returns the earliest start and latest end across all intervals.
func span(intervals []interval.Interval) (time.Time, time.Time) {
	minStart, maxEnd := intervals[0].Start, intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start.Before(minStart) {
			minStart = iv.Start
		}
		if iv.End.After(maxEnd) {
			maxEnd = iv.End
		}
	}
	return minStart, maxEnd
}

// keyOrder returns the distinct ids in first-occurrence order.
func keyOrder(intervals []interval.Interval) []string {
	seen := make(map[string]bool, len(intervals))
	var keys []string
	for _, iv := range intervals {
		if !seen[iv.ID] {
			seen[iv.ID] = true
			keys = append(keys, iv.ID)
		}
	}
	return keys
}
