package sink

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/occupancy"
	"github.com/matzehuels/spanstack/pkg/stack"
)

func date(s string) time.Time {
	t, err := time.Parse(interval.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func testLayout(t *testing.T) stack.Layout {
	t.Helper()
	grid, err := occupancy.Build([]interval.Interval{
		{ID: "api", Start: date("2024-01-01"), End: date("2024-01-03")},
		{ID: "db", Start: date("2024-01-02"), End: date("2024-01-04")},
	})
	if err != nil {
		t.Fatal(err)
	}
	l, err := stack.Compute(grid)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testLayout(t))
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var out struct {
		Keys           []string `json:"keys"`
		MaxStackHeight int      `json:"max_stack_height"`
		MinStart       string   `json:"min_start"`
		MaxEnd         string   `json:"max_end"`
		Days           int      `json:"days"`
		Series         []struct {
			Key   string `json:"key"`
			Bands []struct {
				Time     string `json:"time"`
				Baseline int    `json:"baseline"`
				Top      int    `json:"top"`
			} `json:"bands"`
		} `json:"series"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(out.Keys) != 2 || out.Keys[0] != "api" || out.Keys[1] != "db" {
		t.Errorf("keys = %v", out.Keys)
	}
	if out.MaxStackHeight != 2 {
		t.Errorf("max_stack_height = %d, want 2", out.MaxStackHeight)
	}
	if out.MinStart != "2024-01-01" || out.MaxEnd != "2024-01-04" {
		t.Errorf("span = %s..%s", out.MinStart, out.MaxEnd)
	}
	if out.Days != 4 {
		t.Errorf("days = %d, want 4", out.Days)
	}
	if len(out.Series) != 2 || len(out.Series[0].Bands) != 4 {
		t.Fatalf("series shape wrong: %+v", out.Series)
	}

	// Jan 2: both active, db stacked on api.
	if b := out.Series[1].Bands[1]; b.Baseline != 1 || b.Top != 2 {
		t.Errorf("db band on Jan 2 = (%d,%d), want (1,2)", b.Baseline, b.Top)
	}
}

func TestRenderJSONTotals(t *testing.T) {
	data, err := RenderJSON(testLayout(t), WithJSONTotals())
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Totals []struct {
			Time  string `json:"time"`
			Count int    `json:"count"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	wantCounts := []int{1, 2, 2, 1}
	if len(out.Totals) != len(wantCounts) {
		t.Fatalf("totals = %v", out.Totals)
	}
	for i, want := range wantCounts {
		if out.Totals[i].Count != want {
			t.Errorf("totals[%d] = %d, want %d", i, out.Totals[i].Count, want)
		}
	}
}

func TestRenderJSONCompact(t *testing.T) {
	indented, err := RenderJSON(testLayout(t))
	if err != nil {
		t.Fatal(err)
	}
	compact, err := RenderJSON(testLayout(t), WithJSONCompact())
	if err != nil {
		t.Fatal(err)
	}

	if len(compact) >= len(indented) {
		t.Errorf("compact output (%d bytes) should be smaller than indented (%d bytes)", len(compact), len(indented))
	}
	if !json.Valid(compact) {
		t.Error("compact output is not valid JSON")
	}
}

func TestRenderJSONDeterministic(t *testing.T) {
	l := testLayout(t)
	a, err := RenderJSON(l)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderJSON(l)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("identical layouts should render identically")
	}
}
