package interval

import (
	"fmt"
	"time"
)

// =============================================================================
// Constants - Recognized Columns
// =============================================================================

// Recognized column names. Sources must normalize header names to these
// lowercase forms before rows reach the validator.
const (
	ColID    = "id"
	ColStart = "start"
	ColEnd   = "end"
)

// Columns lists the required columns in canonical order.
var Columns = []string{ColID, ColStart, ColEnd}

// DateFormat is the canonical date layout for interval endpoints.
const DateFormat = "2006-01-02"

// =============================================================================
// Types
// =============================================================================

// RawRow is one record from a tabular source, keyed by normalized
// (lowercase, trimmed) column name. Values are kept verbatim so that
// validation errors can quote exactly what the user typed.
type RawRow map[string]string

// Interval is a validated, immutable span of calendar days.
// Start and End are midnight-UTC dates with End >= Start; both endpoints
// are inclusive, so Start == End is a valid one-day interval.
type Interval struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Days returns the inclusive number of calendar days covered.
// A zero-duration interval (Start == End) covers exactly one day.
func (iv Interval) Days() int {
	return int(iv.End.Sub(iv.Start).Hours()/24) + 1
}

// Contains reports whether the given day falls inside the interval.
// The comparison is a pure date comparison; day must be a midnight-UTC date.
func (iv Interval) Contains(day time.Time) bool {
	return !day.Before(iv.Start) && !day.After(iv.End)
}

// RowError describes a validation problem on a single input row.
// Row is the 1-based spreadsheet row number, counting the header as row 1,
// so the first data row is row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// =============================================================================
// Date Parsing
// =============================================================================

// ParseDate parses a calendar date from its string form.
// The canonical layout is YYYY-MM-DD. RFC 3339 timestamps are also accepted
// and truncated to their calendar date, so sub-day components never leak
// into day comparisons. The result is always midnight UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}
