package sink

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/stack"
)

// CSVOption configures CSV rendering via [RenderCSV].
type CSVOption func(*csvRenderer)

type csvRenderer struct {
	totals bool
}

// WithCSVTotals appends a trailing "total" column holding each day's
// concurrency count.
func WithCSVTotals() CSVOption { return func(r *csvRenderer) { r.totals = true } }

// RenderCSV exports the dense day-by-key occupancy matrix: a header of
// "day" plus the keys in stacking order, then one row per day with a 0/1
// cell per key. The matrix is the tabular mirror of the layout and is
// mainly useful for spreadsheets and debugging occupancy questions.
func RenderCSV(l stack.Layout, opts ...CSVOption) ([]byte, error) {
	r := csvRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"day"}, l.Keys...)
	if r.totals {
		header = append(header, "total")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for d := 0; d < l.DayCount(); d++ {
		row := make([]string, 0, len(header))
		row = append(row, l.Series[0].Bands[d].Time.Format(interval.DateFormat))

		total := 0
		for _, s := range l.Series {
			b := s.Bands[d]
			occ := b.Top - b.Baseline
			total += occ
			row = append(row, strconv.Itoa(occ))
		}
		if r.totals {
			row = append(row, strconv.Itoa(total))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
