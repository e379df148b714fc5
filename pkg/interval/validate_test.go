package interval

import (
	"strings"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func row(id, start, end string) RawRow {
	return RawRow{ColID: id, ColStart: start, ColEnd: end}
}

func TestValidateClean(t *testing.T) {
	rows := []RawRow{
		row("alpha", "2024-01-01", "2024-01-03"),
		row("beta", "2024-01-02", "2024-01-02"),
	}

	intervals, errs := Validate(rows)
	if len(errs) != 0 {
		t.Fatalf("Validate() errs = %v, want none", errs)
	}
	if len(intervals) != 2 {
		t.Fatalf("Validate() returned %d intervals, want 2", len(intervals))
	}

	if intervals[0].ID != "alpha" || !intervals[0].Start.Equal(date("2024-01-01")) || !intervals[0].End.Equal(date("2024-01-03")) {
		t.Errorf("intervals[0] = %+v", intervals[0])
	}
	if intervals[1].Days() != 1 {
		t.Errorf("same-day interval Days() = %d, want 1", intervals[1].Days())
	}
}

func TestValidateTrimsID(t *testing.T) {
	intervals, errs := Validate([]RawRow{row("  alpha  ", "2024-01-01", "2024-01-02")})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if intervals[0].ID != "alpha" {
		t.Errorf("ID = %q, want %q", intervals[0].ID, "alpha")
	}
}

func TestValidateRowErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     RawRow
		wantMsg string
	}{
		{
			name:    "empty id",
			row:     row("", "2024-01-01", "2024-01-02"),
			wantMsg: "missing or empty id",
		},
		{
			name:    "whitespace id",
			row:     row("   ", "2024-01-01", "2024-01-02"),
			wantMsg: "missing or empty id",
		},
		{
			name:    "missing start",
			row:     row("a", "", "2024-01-02"),
			wantMsg: "missing start",
		},
		{
			name:    "missing end",
			row:     row("a", "2024-01-01", ""),
			wantMsg: "missing end",
		},
		{
			name:    "invalid start",
			row:     row("a", "yesterday", "2024-01-02"),
			wantMsg: "invalid start date -> yesterday",
		},
		{
			name:    "invalid end",
			row:     row("a", "2024-01-01", "01/02/2024"),
			wantMsg: "invalid end date -> 01/02/2024",
		},
		{
			name:    "end before start",
			row:     row("a", "2024-05-10", "2024-05-01"),
			wantMsg: "end 2024-05-01 before start 2024-05-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intervals, errs := Validate([]RawRow{tt.row})
			if intervals != nil {
				t.Errorf("intervals = %v, want nil on error", intervals)
			}
			if len(errs) != 1 {
				t.Fatalf("got %d errors %v, want 1", len(errs), errs)
			}
			if errs[0].Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", errs[0].Message, tt.wantMsg)
			}
			// First data row is spreadsheet row 2 (header = row 1).
			if errs[0].Row != 2 {
				t.Errorf("Row = %d, want 2", errs[0].Row)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	rows := []RawRow{
		row("good", "2024-01-01", "2024-01-02"),
		row("", "2024-01-01", "2024-01-02"),          // row 3
		row("bad-date", "not-a-date", "2024-01-02"),  // row 4
		row("backwards", "2024-05-10", "2024-05-01"), // row 5
	}

	intervals, errs := Validate(rows)
	if intervals != nil {
		t.Error("intervals should be nil when any row fails")
	}
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}

	wantRows := []int{3, 4, 5}
	for i, e := range errs {
		if e.Row != wantRows[i] {
			t.Errorf("errs[%d].Row = %d, want %d", i, e.Row, wantRows[i])
		}
	}
}

func TestValidateMultipleErrorsPerRow(t *testing.T) {
	_, errs := Validate([]RawRow{row("", "junk", "2024-01-02")})
	if len(errs) != 2 {
		t.Fatalf("got %d errors %v, want 2 (bad id and bad start)", len(errs), errs)
	}
	for _, e := range errs {
		if e.Row != 2 {
			t.Errorf("Row = %d, want 2", e.Row)
		}
	}
}

func TestValidateEmptyInput(t *testing.T) {
	intervals, errs := Validate(nil)
	if len(errs) != 0 {
		t.Errorf("errs = %v, want none", errs)
	}
	if len(intervals) != 0 {
		t.Errorf("intervals = %v, want empty", intervals)
	}
}

func TestRowErrorString(t *testing.T) {
	e := RowError{Row: 7, Message: "missing start"}
	if got := e.Error(); got != "row 7: missing start" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-31", "2024-01-31", false},
		{"2024-02-29", "2024-02-29", false}, // leap day
		{"2024-06-15T13:45:00Z", "2024-06-15", false},
		{"2023-02-29", "", true}, // not a leap year
		{"31-01-2024", "", true},
		{"", "", true},
		{"soon", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if got.Format(DateFormat) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format(DateFormat), tt.want)
		}
		if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
			t.Errorf("ParseDate(%q) has non-midnight clock %02d:%02d:%02d", tt.in, h, m, s)
		}
		if got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) location = %v, want UTC", tt.in, got.Location())
		}
	}
}

func TestContains(t *testing.T) {
	iv := Interval{ID: "a", Start: date("2024-01-02"), End: date("2024-01-04")}

	tests := []struct {
		day  string
		want bool
	}{
		{"2024-01-01", false},
		{"2024-01-02", true},
		{"2024-01-03", true},
		{"2024-01-04", true},
		{"2024-01-05", false},
	}

	for _, tt := range tests {
		if got := iv.Contains(date(tt.day)); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-01", 1},
		{"2024-01-01", "2024-01-03", 3},
		{"2024-02-27", "2024-03-02", 5},   // leap-year month boundary
		{"2023-12-30", "2024-01-02", 4},   // year boundary
		{"2024-01-01", "2024-12-31", 366}, // leap year
	}

	for _, tt := range tests {
		iv := Interval{ID: "x", Start: date(tt.start), End: date(tt.end)}
		if got := iv.Days(); got != tt.want {
			t.Errorf("Days(%s..%s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestValidateDeterministic(t *testing.T) {
	rows := []RawRow{
		row("z", "2024-01-01", "2024-01-05"),
		row("a", "2024-01-02", "2024-01-03"),
		row("z", "2024-01-04", "2024-01-08"),
	}

	first, _ := Validate(rows)
	second, _ := Validate(rows)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestValidateIgnoresExtraColumns(t *testing.T) {
	r := row("a", "2024-01-01", "2024-01-02")
	r["notes"] = "ignored"

	intervals, errs := Validate([]RawRow{r})
	if len(errs) != 0 || len(intervals) != 1 {
		t.Errorf("Validate with extra column: intervals=%v errs=%v", intervals, errs)
	}
}

func TestValidateErrorMessagesQuoteRawValues(t *testing.T) {
	_, errs := Validate([]RawRow{row("a", " 2024-05-10 ", "2024-05-01")})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	// Raw values appear trimmed but otherwise verbatim.
	if !strings.Contains(errs[0].Message, "2024-05-01") || !strings.Contains(errs[0].Message, "2024-05-10") {
		t.Errorf("message %q should name both raw values", errs[0].Message)
	}
}
