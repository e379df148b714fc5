// Package sink provides output format renderers for stacked layouts.
//
// # Overview
//
// A "sink" transforms a computed [stack.Layout] into a final output format.
// This package provides renderers for:
//
//   - JSON: the full renderer-agnostic layout contract for external
//     drawing tools
//   - CSV: the dense day-by-key occupancy matrix for spreadsheets and
//     diagnostics
//
// Actual chart drawing is deliberately not here: a drawing collaborator
// consumes [RenderJSON] output (or the layout value directly through the
// [render.Renderer] interface) and owns colors, axes and curves itself.
//
// # JSON Output
//
// [RenderJSON] exports the layout with key order, per-key band series,
// MaxStackHeight and the date span, everything a renderer needs to set up
// coordinate scales and assign colors by key order deterministically.
//
// # CSV Output
//
// [RenderCSV] writes one row per day with a 0/1 occupancy cell per key,
// in key order. With [WithCSVTotals] a trailing total column carries the
// day's concurrency count.
//
// # Adding New Formats
//
// To add a new output format:
//
//  1. Create a renderer function: func RenderFoo(l stack.Layout, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Register it in pkg/pipeline render dispatch for CLI/API support
//
// [render.Renderer]: github.com/matzehuels/spanstack/pkg/render.Renderer
// [stack.Layout]: github.com/matzehuels/spanstack/pkg/stack.Layout
package sink
