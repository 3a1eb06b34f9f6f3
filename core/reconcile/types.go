package reconcile

import (
	"context"
	"fmt"

	"link-verifier/core/table"
)

// Verification columns maintained by the reconciler.
const (
	// ColumnURL holds the video URL of a row.
	ColumnURL = "URL"
	// ColumnCard identifies the row in diagnostics.
	ColumnCard = "Card#"
	// ColumnTitle stores the last verified video title.
	ColumnTitle = "Youtube-Title"
	// ColumnFingerprint stores the fingerprint of the last verified title and author.
	ColumnFingerprint = "Hashed Info"
)

// ErrorTitle is written into the title column when a row's video cannot be resolved.
const ErrorTitle = "ERROR"

// PlaybackOK is the probe status of a video that plays without an error indicator.
const PlaybackOK = "OK"

// Metadata is the title and author of a video as reported by the metadata endpoint.
type Metadata struct {
	Title  string
	Author string
}

// Resolver looks up the current metadata of a video.
// Implementations must not retry; every error is recorded as a row-local failure.
type Resolver interface {
	Resolve(ctx context.Context, videoURL string) (Metadata, error)
}

// Prober loads a video in a browser and reports its playback status:
// PlaybackOK, or the human-readable reason shown by the player.
// A Prober holds a long-lived session and must be closed once.
type Prober interface {
	Probe(ctx context.Context, videoURL string) (string, error)
	Close() error
}

// RowSource yields rows in order and returns io.EOF when exhausted.
type RowSource interface {
	Next() (table.Row, error)
}

// RowSink receives the rows that are written to the output table.
type RowSink interface {
	Write(row table.Row) error
}

// Resolution is the outcome of resolving one URL: either resolved metadata
// with its fingerprint, or the failure reason.
type Resolution struct {
	Title       string
	Author      string
	Fingerprint string
	Err         error
}

// Failed reports whether the URL could not be resolved.
func (r Resolution) Failed() bool {
	return r.Err != nil
}

// Status classifies a processed row.
type Status string

const (
	// StatusMatch means stored title and fingerprint equal the current ones.
	StatusMatch Status = "match"
	// StatusMismatch means the stored values differ from the current ones.
	StatusMismatch Status = "mismatch"
	// StatusError means the video could not be resolved.
	StatusError Status = "error"
)

// Outcome describes what happened to a single admitted row.
type Outcome struct {
	// Row is the 1-based sequence number of the row in the input table.
	Row int `json:"row" yaml:"row"`
	// Card is the row's Card# value.
	Card string `json:"card" yaml:"card"`
	// URL is the row's video URL.
	URL string `json:"url" yaml:"url"`
	// Status is the reconciliation result.
	Status Status `json:"status" yaml:"status"`
	// StoredTitle is the title held by the row before reconciliation.
	StoredTitle string `json:"stored_title,omitempty" yaml:"stored_title,omitempty"`
	// Title is the current title, empty when resolution failed.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// Updated is true when the row was rewritten with the current values.
	Updated bool `json:"updated" yaml:"updated"`
	// Reason explains a resolution failure.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	// Playback is the probe status, empty when probing is disabled.
	Playback string `json:"playback,omitempty" yaml:"playback,omitempty"`
	// ProbeError is set when the browser could not load the video at all.
	ProbeError string `json:"probe_error,omitempty" yaml:"probe_error,omitempty"`
}

// HasIssue reports whether the row needs attention.
func (o Outcome) HasIssue() bool {
	return o.Status != StatusMatch || o.PlaybackIssue() || o.ProbeError != ""
}

// PlaybackIssue reports whether the probe found a player error.
func (o Outcome) PlaybackIssue() bool {
	return o.Playback != "" && o.Playback != PlaybackOK
}

// Options bounds and configures a run.
type Options struct {
	// StartRow is the first 1-based row to process.
	StartRow int
	// EndRow is the last 1-based row to process; zero means no upper bound.
	EndRow int
	// CheckOnly reports mismatches without mutating or writing rows.
	CheckOnly bool
}

// Validate checks the row range.
func (o Options) Validate() error {
	if o.StartRow < 1 {
		return &RangeError{Start: o.StartRow, End: o.EndRow, Reason: "start row must be at least 1"}
	}
	if o.EndRow < 0 {
		return &RangeError{Start: o.StartRow, End: o.EndRow, Reason: "end row must not be negative"}
	}
	if o.EndRow != 0 && o.EndRow < o.StartRow {
		return &RangeError{Start: o.StartRow, End: o.EndRow, Reason: "end row is before start row"}
	}
	return nil
}

// admits reports whether row n falls inside [StartRow, EndRow].
func (o Options) admits(n int) bool {
	return n >= o.StartRow && !o.pastEnd(n)
}

// pastEnd reports whether row n lies beyond the upper bound.
func (o Options) pastEnd(n int) bool {
	return o.EndRow != 0 && n > o.EndRow
}

// Summary aggregates a run.
type Summary struct {
	// RunID identifies the run in logs and reports.
	RunID string `json:"run_id" yaml:"run_id"`
	// Processed counts admitted rows.
	Processed int `json:"processed" yaml:"processed"`
	// Matches counts rows whose stored values equal the current ones.
	Matches int `json:"matches" yaml:"matches"`
	// Mismatches counts rows whose stored values differ.
	Mismatches int `json:"mismatches" yaml:"mismatches"`
	// Errors counts rows whose video could not be resolved.
	Errors int `json:"errors" yaml:"errors"`
	// Updated counts rows rewritten with current values.
	Updated int `json:"updated" yaml:"updated"`
	// PlaybackIssues counts rows whose probe reported a player error.
	PlaybackIssues int `json:"playback_issues" yaml:"playback_issues"`
	// Outcomes holds one entry per admitted row, in input order.
	Outcomes []Outcome `json:"-" yaml:"-"`
}

func (s *Summary) record(o Outcome) {
	s.Processed++
	switch o.Status {
	case StatusMatch:
		s.Matches++
	case StatusMismatch:
		s.Mismatches++
	case StatusError:
		s.Errors++
	}
	if o.Updated {
		s.Updated++
	}
	if o.PlaybackIssue() {
		s.PlaybackIssues++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Issues returns the outcomes that need attention.
func (s *Summary) Issues() []Outcome {
	var issues []Outcome
	for _, o := range s.Outcomes {
		if o.HasIssue() {
			issues = append(issues, o)
		}
	}
	return issues
}

// ExitCode returns the process exit status for the run. Only check-only runs
// signal mismatches through the exit status.
func (s *Summary) ExitCode(checkOnly bool) int {
	if checkOnly && s.Mismatches > 0 {
		return 1
	}
	return 0
}

// Line returns the one-line run summary.
func (s *Summary) Line() string {
	return fmt.Sprintf("Done. %d matches, %d mismatches.", s.Matches, s.Mismatches)
}
