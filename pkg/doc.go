// Package pkg provides the core libraries for Spanstack interval stacking.
//
// # Overview
//
// Spanstack turns named time intervals into stacked layout documents: for
// every day in the covered range, each interval name gets a baseline and a
// top, so a renderer can draw the set as stacked bands without recomputing
// anything. The pkg directory is organized into three main areas:
//
//  1. core - Domain logic ([interval], [occupancy], [stack])
//  2. infra - Supporting infrastructure ([cache], [config], [errors], [observability])
//  3. boundary - Input and output ([source/csvfile], [render], [pipeline])
//
// # Architecture
//
// The typical data flow through Spanstack:
//
//	CSV rows (id, start, end)
//	         ↓
//	    [interval] package (validate rows into intervals)
//	         ↓
//	    [occupancy] package (per-day activity grid)
//	         ↓
//	    [stack] package (cumulative baseline/top layout)
//	         ↓
//	    JSON/CSV output via [render/sink]
//
// The [pipeline] package orchestrates these stages and owns caching; the
// core packages stay pure and deterministic.
//
// # Quick Start
//
//	rows, err := csvfile.ReadFile("team.csv")
//	if err != nil { ... }
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, rows, pipeline.Options{
//	    Formats: []string{pipeline.FormatJSON},
//	})
package pkg
