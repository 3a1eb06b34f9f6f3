// Package verify runs link verification requests end to end.
//
// It sits between the command layer and the reconcile engine: it opens the
// input table, creates the output table when the run is allowed to write,
// starts the playback prober when requested, runs the reconcile.Runner and
// writes the optional run report. Every resource it opens is closed exactly
// once, including when a later step fails.
//
// # Run Report
//
// With Request.Report set, a report listing the run parameters, the summary
// counters and every row that needs attention (mismatch, resolution error,
// playback issue) is written as JSON (.json) or YAML (.yaml, .yml), locally
// or to object storage.
package verify
