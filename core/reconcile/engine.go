package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"link-verifier/core/table"
	"link-verifier/core/throttle"

	"go.uber.org/zap"
)

// stage is one step of the per-row sequence.
type stage int

const (
	stageProbe stage = iota
	stagePace
	stageResolve
	stageReconcile
	stageWrite
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageProbe:
		return "probe"
	case stagePace:
		return "pace"
	case stageResolve:
		return "resolve"
	case stageReconcile:
		return "reconcile"
	case stageWrite:
		return "write"
	case stageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// rowState carries one row through the stages.
type rowState struct {
	row        *table.Row
	resolution Resolution
	outcome    Outcome
}

// Runner walks a bounded range of rows and reconciles each one against the
// metadata returned by its Resolver.
type Runner struct {
	resolver Resolver
	prober   Prober
	pacer    throttle.Pacer
	logger   *zap.Logger
	opts     Options
}

// NewRunner creates a Runner. prober may be nil to disable playback probing;
// pacer may be nil to disable pacing.
func NewRunner(resolver Resolver, prober Prober, pacer throttle.Pacer, logger *zap.Logger, opts Options) *Runner {
	if pacer == nil {
		pacer = throttle.New(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		resolver: resolver,
		prober:   prober,
		pacer:    pacer,
		logger:   logger,
		opts:     opts,
	}
}

// Run processes every admitted row of src and writes it to dst. dst may be
// nil; check-only runs never write. Rows outside the range are neither
// resolved, written nor counted. Only source, sink and pacing failures abort
// the run; resolution failures are recorded on the row.
func (r *Runner) Run(ctx context.Context, src RowSource, dst RowSink) (*Summary, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	if r.opts.CheckOnly {
		dst = nil
	}

	summary := &Summary{}
	for n := 1; ; n++ {
		if r.opts.pastEnd(n) {
			break
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to read row %d: %w", n, err)
		}
		if !r.opts.admits(n) {
			continue
		}

		outcome, err := r.process(ctx, n, &row, dst)
		if err != nil {
			return summary, err
		}
		summary.record(outcome)
	}

	return summary, nil
}

// process runs a single row through the stage sequence.
func (r *Runner) process(ctx context.Context, n int, row *table.Row, dst RowSink) (Outcome, error) {
	st := &rowState{
		row: row,
		outcome: Outcome{
			Row:         n,
			Card:        row.Get(ColumnCard),
			URL:         row.Get(ColumnURL),
			StoredTitle: row.Get(ColumnTitle),
		},
	}

	r.logger.Info("Processing row",
		zap.Int("row", n),
		zap.String("card", st.outcome.Card),
		zap.String("url", st.outcome.URL),
	)

	for s := stageProbe; s != stageDone; {
		next, err := r.step(ctx, s, st, dst)
		if err != nil {
			return st.outcome, fmt.Errorf("row %d %s: %w", n, s, err)
		}
		s = next
	}
	return st.outcome, nil
}

// step executes stage s and returns the stage that follows it.
func (r *Runner) step(ctx context.Context, s stage, st *rowState, dst RowSink) (stage, error) {
	switch s {
	case stageProbe:
		if r.prober != nil {
			r.probe(ctx, st)
		}
		return stagePace, nil

	case stagePace:
		if err := r.pacer.Wait(ctx); err != nil {
			return stageDone, err
		}
		return stageResolve, nil

	case stageResolve:
		st.resolution = r.resolve(ctx, st.outcome.URL)
		if st.resolution.Failed() {
			r.markError(st)
			return stageWrite, nil
		}
		return stageReconcile, nil

	case stageReconcile:
		r.reconcile(st)
		return stageWrite, nil

	case stageWrite:
		if dst == nil {
			return stageDone, nil
		}
		if err := dst.Write(*st.row); err != nil {
			return stageDone, err
		}
		return stageDone, nil
	}

	return stageDone, fmt.Errorf("unknown stage %s", s)
}

func (r *Runner) probe(ctx context.Context, st *rowState) {
	status, err := r.prober.Probe(ctx, st.outcome.URL)
	if err != nil {
		st.outcome.ProbeError = err.Error()
		r.logger.Warn("Playback probe failed",
			zap.String("card", st.outcome.Card),
			zap.String("url", st.outcome.URL),
			zap.Error(err),
		)
		return
	}

	st.outcome.Playback = status
	if status != PlaybackOK {
		r.logger.Warn("Playback issue detected",
			zap.String("card", st.outcome.Card),
			zap.String("url", st.outcome.URL),
			zap.String("status", status),
		)
	}
}

func (r *Runner) resolve(ctx context.Context, videoURL string) Resolution {
	meta, err := r.resolver.Resolve(ctx, videoURL)
	if err != nil {
		return Resolution{Err: err}
	}
	return Resolution{
		Title:       meta.Title,
		Author:      meta.Author,
		Fingerprint: Fingerprint(meta.Title, meta.Author),
	}
}

// markError records a resolution failure. Check-only runs leave the row as read.
func (r *Runner) markError(st *rowState) {
	st.outcome.Status = StatusError
	st.outcome.Reason = st.resolution.Err.Error()
	if !r.opts.CheckOnly {
		st.row.Set(ColumnTitle, ErrorTitle)
	}

	r.logger.Error("Error processing video",
		zap.String("card", st.outcome.Card),
		zap.String("url", st.outcome.URL),
		zap.Error(st.resolution.Err),
	)
}

func (r *Runner) reconcile(st *rowState) {
	res := st.resolution
	st.outcome.Title = res.Title

	updated, mismatch := Reconcile(st.row, res.Title, res.Fingerprint, r.opts.CheckOnly)
	st.outcome.Updated = updated
	if !mismatch {
		st.outcome.Status = StatusMatch
		return
	}

	st.outcome.Status = StatusMismatch
	r.logger.Warn("Mismatch found",
		zap.String("card", st.outcome.Card),
		zap.String("url", st.outcome.URL),
		zap.String("stored_title", st.outcome.StoredTitle),
		zap.String("current_title", res.Title),
		zap.Bool("updated", updated),
	)
}
