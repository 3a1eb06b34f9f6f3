package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces consecutive outbound requests.
type Pacer interface {
	// Wait blocks until the next request may be sent or ctx is done.
	Wait(ctx context.Context) error
}

// Config holds configuration for request pacing.
type Config struct {
	// DelayMs is the minimum spacing between two metadata requests in milliseconds.
	DelayMs int `mapstructure:"delay_ms" default:"1000"`
}

// Delay returns the configured spacing as a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// New returns a Pacer that allows one request per delay.
// A non-positive delay disables pacing.
func New(delay time.Duration) Pacer {
	if delay <= 0 {
		return noop{}
	}
	// Burst of one: the first request goes through immediately, every
	// following one waits a full interval.
	return &limiter{rl: rate.NewLimiter(rate.Every(delay), 1)}
}

type limiter struct {
	rl *rate.Limiter
}

func (l *limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}

type noop struct{}

func (noop) Wait(ctx context.Context) error {
	return ctx.Err()
}
