// Package csvfile reads interval rows from CSV documents.
//
// # Overview
//
// This is the tabular-source collaborator feeding the validation pipeline:
// it turns CSV text into [interval.RawRow] values with normalized column
// names, and nothing more. All semantic checking (dates, ordering, empty
// ids) is left to the interval validator so that row diagnostics stay in
// one place.
//
// # Header Handling
//
// The header row must contain the three recognized columns id, start and
// end. Matching is case-insensitive and ignores surrounding whitespace, so
// "ID, Start , END" is accepted. Extra columns are carried through
// untouched and ignored downstream. A missing required column is fatal to
// the whole parse and reported once as a [HeaderError] naming every absent
// column; row validation never runs on a file with a broken header.
package csvfile
