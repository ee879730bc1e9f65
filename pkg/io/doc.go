// Package io reads preference files and writes sociogram data as JSON.
//
// # Input Formats
//
// Preference sets can be loaded from three formats. All of them map a
// participant to the ordered list of peers they chose, and all of them keep
// participants in file order.
//
// JSON, as an object or an array of entries:
//
//	{"A": ["B", "C"], "B": "C", "D": []}
//	[{"participant": "A", "preferences": ["B", "C"]}]
//
// YAML, with the same two shapes:
//
//	A: [B, C]
//	B: C
//	D: []
//
// CSV, one participant per row with an optional header:
//
//	participant,first,second
//	A,B,C
//	B,C
//	D
//
// A preference value given as a single string is split on commas, the same
// way a web form field is. Names are trimmed and empty names dropped; nothing
// else is changed. Use [ImportFile] to read a file (the format is inferred
// from the extension) or [Read] for any io.Reader.
//
// # Output
//
// [WriteGraphJSON] exports the graph with per-node degrees and
// [ReadGraphJSON] reads it back. [WriteResultJSON] exports an analysis result
// for plotting tools.
package io
