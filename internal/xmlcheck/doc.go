// Package xmlcheck validates the syntactic well-formedness of project
// files and localizes parse failures down to a single offending byte.
//
// The pipeline has three stages:
//   - ParseLocation: parses an engine-reported "invalid token" message
//     into a 1-based (line, column) location.
//   - Contextualize: re-reads the original byte stream and produces a
//     human-safe, HTML-escaped snippet of the offending line.
//   - CheckProjectFile: orchestrates extension checking and an
//     incremental XML scan, composing the two stages into a rich error.
//
// Only well-formedness is checked here. What a valid project file
// contains is defined by the project-file schema and enforced by the
// loader.
package xmlcheck
