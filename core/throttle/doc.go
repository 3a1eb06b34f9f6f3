// Package throttle paces outbound metadata requests.
//
// The verifier issues one request per row and must never hit the metadata
// endpoint faster than the configured delay. Pacing is a token bucket with a
// burst of one (golang.org/x/time/rate), so the spacing holds between
// consecutive requests without a trailing sleep after the last row.
package throttle
