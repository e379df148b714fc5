// Package interval converts raw tabular rows into validated time intervals.
//
// # Overview
//
// An interval is a named span of calendar days: an id plus an inclusive
// [start, end] date pair. Input arrives as loosely-typed string rows from a
// tabular source (typically CSV) and must be validated before any occupancy
// or layout computation runs.
//
// # Validation
//
// [Validate] checks every row and collects all problems instead of stopping
// at the first, so a user fixing a large file sees the complete picture:
//
//	intervals, errs := interval.Validate(rows)
//	if len(errs) > 0 {
//	    // errs carries one entry per bad row, addressed by 1-based
//	    // spreadsheet row number (the header is row 1)
//	}
//
// A dataset with any bad row is rejected as a whole; partially-valid input
// never produces a partial result downstream.
//
// # Dates
//
// Dates are parsed locale-independently. The canonical format is
// YYYY-MM-DD; RFC 3339 timestamps are accepted and truncated to their
// calendar date. All parsed dates are normalized to midnight UTC, which
// makes day stepping immune to daylight-saving irregularities.
package interval
