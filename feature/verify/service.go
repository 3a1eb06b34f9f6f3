package verify

import (
	"context"
	"fmt"
	"io"
	"time"

	"link-verifier/core/logger"
	"link-verifier/core/reconcile"
	"link-verifier/core/storage"
	"link-verifier/core/table"
	"link-verifier/core/throttle"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProberFactory starts a playback prober for one run.
type ProberFactory func(ctx context.Context) (reconcile.Prober, error)

// Request describes one verification run.
type Request struct {
	// Input is the table to verify (local path or s3://bucket/key).
	Input string
	// Output receives the reconciled table; ignored in check-only mode.
	Output string
	// Report, when set, receives a JSON or YAML run report.
	Report string
	// Probe enables the browser playback check.
	Probe bool
	// Options bounds the row range and selects check-only mode.
	Options reconcile.Options
}

// Service runs verification requests and owns the lifetime of the input,
// output and browser session of each run.
type Service struct {
	resolver  reconcile.Resolver
	newProber ProberFactory
	pacer     throttle.Pacer
	store     storage.Client
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new verification service. store may be nil when no
// s3:// locations are used; newProber may be nil when probing is never requested.
func NewService(resolver reconcile.Resolver, newProber ProberFactory, pacer throttle.Pacer, store storage.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:  resolver,
		newProber: newProber,
		pacer:     pacer,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute runs req. Failures to open the input, create the output or start
// the browser abort before any row is processed. Every resource opened is
// released exactly once on every return path.
func (s *Service) Execute(ctx context.Context, req Request) (summary *reconcile.Summary, err error) {
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.WithRunID(s.logger, runID)

	in, err := table.Open(ctx, req.Input, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer closeLogged(log, "input", in)

	var prober reconcile.Prober
	if req.Probe {
		if s.newProber == nil {
			return nil, fmt.Errorf("playback probing is not available")
		}
		prober, err = s.newProber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to start playback prober: %w", err)
		}
		defer closeLogged(log, "browser session", prober)
	}

	var sink reconcile.RowSink
	switch {
	case req.Output != "" && req.Options.CheckOnly:
		log.Warn("Output is ignored in check-only mode", zap.String("output", req.Output))
	case req.Output != "":
		out, createErr := table.Create(ctx, req.Output, reconcile.OutputColumns(in.Columns()), s.store)
		if createErr != nil {
			return nil, fmt.Errorf("failed to create output: %w", createErr)
		}
		defer func() {
			if cerr := out.Close(); cerr != nil {
				log.Error("Failed to close output", zap.String("output", req.Output), zap.Error(cerr))
				if err == nil {
					err = fmt.Errorf("failed to close output: %w", cerr)
				}
			}
		}()
		sink = out
	}

	started := s.now()
	log.Info("Verification started",
		zap.String("input", req.Input),
		zap.String("output", req.Output),
		zap.Int("start_row", req.Options.StartRow),
		zap.Int("end_row", req.Options.EndRow),
		zap.Bool("check_only", req.Options.CheckOnly),
		zap.Bool("probe", req.Probe),
	)

	summary, err = reconcile.NewRunner(s.resolver, prober, s.pacer, log, req.Options).Run(ctx, in, sink)
	if summary != nil {
		summary.RunID = runID
	}
	if err != nil {
		return summary, fmt.Errorf("verification aborted: %w", err)
	}

	elapsed := s.now().Sub(started)
	log.Info("Verification completed",
		zap.Int("processed", summary.Processed),
		zap.Int("matches", summary.Matches),
		zap.Int("mismatches", summary.Mismatches),
		zap.Int("errors", summary.Errors),
		zap.Int("updated", summary.Updated),
		zap.Int("playback_issues", summary.PlaybackIssues),
		zap.Duration("execution_time", elapsed),
	)

	if req.Report != "" {
		report := NewReport(req, summary, started, elapsed)
		if err := WriteReport(ctx, req.Report, report, s.store); err != nil {
			return summary, fmt.Errorf("failed to write report: %w", err)
		}
		log.Info("Run report saved", zap.String("file", req.Report), zap.Int("issues", len(report.Issues)))
	}

	return summary, nil
}

func closeLogged(log *zap.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn("Failed to close "+what, zap.Error(err))
	}
}
