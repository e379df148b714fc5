package interval

import (
	"fmt"
	"strings"
	"time"
)

// Validate converts raw rows into intervals, checking every row and
// collecting all problems before reporting.
//
// For each row it requires:
//   - a non-empty id after trimming
//   - non-empty start and end values that parse as calendar dates
//   - end >= start (same-day intervals are valid)
//
// Validation never stops at the first bad row: the returned slice contains
// one RowError per problem, addressed by 1-based spreadsheet row number
// (header = row 1, first data row = 2). If any errors are returned the
// interval slice is nil; a partially-valid dataset is rejected as a whole.
//
// Validate is a pure function: it does not mutate rows and has no side
// effects, so repeated calls on identical input yield identical results.
func Validate(rows []RawRow) ([]Interval, []RowError) {
	intervals := make([]Interval, 0, len(rows))
	var errs []RowError

	for i, row := range rows {
		rowNum := i + 2 // header occupies row 1

		iv, rowErrs := validateRow(row, rowNum)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		intervals = append(intervals, iv)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return intervals, nil
}

// validateRow checks a single row. It returns every problem found on the
// row, not just the first, so a row with a bad id and a bad date reports
// both at once.
func validateRow(row RawRow, rowNum int) (Interval, []RowError) {
	var errs []RowError

	id := strings.TrimSpace(row[ColID])
	if id == "" {
		errs = append(errs, RowError{Row: rowNum, Message: "missing or empty id"})
	}

	start, startRaw, err := parseEndpoint(row, ColStart)
	if err != nil {
		errs = append(errs, RowError{Row: rowNum, Message: err.Error()})
	}

	end, endRaw, err := parseEndpoint(row, ColEnd)
	if err != nil {
		errs = append(errs, RowError{Row: rowNum, Message: err.Error()})
	}

	// Ordering can only be checked once both endpoints parsed.
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, RowError{
			Row:     rowNum,
			Message: fmt.Sprintf("end %s before start %s", endRaw, startRaw),
		})
	}

	if len(errs) > 0 {
		return Interval{}, errs
	}
	return Interval{ID: id, Start: start, End: end}, nil
}

// parseEndpoint extracts and parses one date column from a row.
// It distinguishes a missing value from an unparsable one, quoting the raw
// value in the latter case.
func parseEndpoint(row RawRow, col string) (time.Time, string, error) {
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return time.Time{}, raw, fmt.Errorf("missing %s", col)
	}
	t, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, raw, fmt.Errorf("invalid %s date -> %s", col, raw)
	}
	return t, raw, nil
}
