// Package occupancy turns sparse intervals into a dense per-day activity grid.
//
// # Overview
//
// Given a set of validated intervals, [Build] computes the overall day span
// and, for every calendar day inside it, which ids are active. The result is
// a [Grid]: one [DayPoint] per day plus the ordered key set.
//
// # Semantics
//
//   - The span runs from the earliest start to the latest end, inclusive on
//     both sides, one point per calendar day.
//   - An id is active on a day when at least one of its intervals covers
//     that day. Multiple intervals with the same id OR-collapse: overlap is
//     never double-counted.
//   - Keys are ordered by first occurrence in the input, which fixes the
//     stacking order downstream. Identical input always yields identical
//     key order.
//
// Days are midnight-UTC dates stepped with AddDate, so month and year
// boundaries roll over correctly and daylight-saving shifts cannot skip or
// duplicate a day.
package occupancy
