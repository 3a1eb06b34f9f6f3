// Package reconcile verifies rows of a link table against the current
// metadata of the videos they reference.
//
// Each row stores the last verified title of its video (Youtube-Title) and a
// fingerprint of that title and the channel name (Hashed Info). Reconciling a
// row means resolving its URL again, recomputing the fingerprint and
// comparing both values with the stored ones.
//
// # Components
//
// 1. Reconcile: compares one row with the current title and fingerprint and,
//    unless running check-only, rewrites the row on mismatch.
//
// 2. Runner: streams rows from a RowSource, admits only the rows inside the
//    configured 1-based range and drives each one through a fixed stage
//    sequence (probe, pace, resolve, reconcile, write).
//
// 3. Resolver and Prober: capability interfaces for the metadata endpoint
//    and the optional browser check. Implementations live in feature/oembed
//    and feature/playback; tests substitute deterministic fakes.
//
// # Failure Handling
//
// A failed resolution only affects its own row: the title column is set to
// ErrorTitle and neither the match nor the mismatch counter moves. Playback
// problems are advisory and never change accounting or output. Only read,
// write and pacing failures abort a run.
//
// # Usage Example
//
//	runner := reconcile.NewRunner(resolver, nil, throttle.New(time.Second), log, reconcile.Options{
//	    StartRow: 1,
//	})
//	summary, err := runner.Run(ctx, in, out)
//	fmt.Println(summary.Line())
package reconcile
