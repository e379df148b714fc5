package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/spanstack/pkg/interval"
)

// HeaderError reports required columns missing from the CSV header.
// It is fatal to the whole parse: no row-level validation runs when the
// header is broken.
type HeaderError struct {
	Missing []string
}

// Error implements the error interface.
func (e *HeaderError) Error() string {
	return fmt.Sprintf("header is missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// Read parses CSV text from r into raw interval rows.
//
// The first record is the header; its names are normalized by trimming
// whitespace and lowercasing before matching against the recognized
// columns. Extra columns are preserved under their normalized names.
// Ragged rows are tolerated: short rows leave the trailing fields empty
// so the validator can report them precisely instead of the reader
// failing on the first irregular line.
func Read(r io.Reader) ([]interval.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validator owns per-row diagnostics
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &HeaderError{Missing: interval.Columns}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := normalizeHeader(header)
	if missing := missingColumns(cols); len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	var rows []interval.RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(interval.RawRow, len(cols))
		for i, name := range cols {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadFile reads a CSV file from disk into raw interval rows.
func ReadFile(path string) ([]interval.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// ReadString reads CSV text into raw interval rows.
// Convenience wrapper for interactive editors holding the document in
// memory.
func ReadString(text string) ([]interval.RawRow, error) {
	return Read(strings.NewReader(text))
}

// normalizeHeader lowercases and trims every header name.
func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return cols
}

// missingColumns returns the recognized columns absent from the header,
// in canonical order.
func missingColumns(cols []string) []string {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}

	var missing []string
	for _, required := range interval.Columns {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}
