// Package stack computes cumulative band layouts from occupancy grids.
//
// # Overview
//
// [Compute] walks an [occupancy.Grid] and produces a [Layout]: for every id
// (in fixed key order) an ordered series of per-day bands, each with a
// baseline and top offset. Stacking is stable — no reordering, zero
// baseline offset — so a band's baseline on a day is simply the sum of the
// occupancies of every key ordered before it on that day.
//
// The layout is the complete, renderer-agnostic contract handed to drawing
// collaborators: band series for the filled areas, the key order for color
// and label assignment, and MaxStackHeight plus the date span for
// coordinate-scale setup. Identical input always yields an identical
// layout.
//
// # Serialization
//
// [MarshalLayout] and [UnmarshalLayout] round-trip a layout through JSON
// for caching and API responses; [WriteLayout]/[ReadLayout] do the same
// against streams.
package stack
