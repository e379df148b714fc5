package interval_test

import (
	"fmt"

	"github.com/matzehuels/spanstack/pkg/interval"
)

func ExampleValidate() {
	rows := []interval.RawRow{
		{"id": "migration", "start": "2024-01-01", "end": "2024-01-03"},
		{"id": "rollout", "start": "2024-01-02", "end": "2024-01-02"},
	}

	intervals, errs := interval.Validate(rows)
	fmt.Println("intervals:", len(intervals))
	fmt.Println("errors:", len(errs))
	fmt.Println("first spans", intervals[0].Days(), "days")
	// Output:
	// intervals: 2
	// errors: 0
	// first spans 3 days
}

func ExampleValidate_badRows() {
	rows := []interval.RawRow{
		{"id": "", "start": "2024-01-01", "end": "2024-01-02"},
		{"id": "x", "start": "2024-05-10", "end": "2024-05-01"},
	}

	_, errs := interval.Validate(rows)
	for _, e := range errs {
		fmt.Println(e)
	}
	// Output:
	// row 2: missing or empty id
	// row 3: end 2024-05-01 before start 2024-05-10
}
