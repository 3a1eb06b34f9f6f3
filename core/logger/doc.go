// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and is shared by the command layer and every
// verification component.
//
// # Run Correlation
//
// Each verification run is assigned a RunID. The WithRunID helper attaches it
// to the logger so that every row-level entry of a run can be correlated with
// the final summary and the run report.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (machine readable) or console (human readable)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Verification started")
//
//	l := logger.WithRunID(log, runID)
//	l.Warn("Mismatch found", zap.String("card", card))
package logger
