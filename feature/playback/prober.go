package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// renderFunc loads a URL and returns the rendered document.
type renderFunc func(ctx context.Context, videoURL string) (string, error)

// Prober checks playback of videos in a single long-lived headless browser.
type Prober struct {
	render  renderFunc
	release func()
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
}

// New starts a headless browser and returns a Prober bound to it.
// The browser lives until Close is called.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Prober, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	release := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// An empty Run launches the browser so startup failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		release()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	logger.Info("Browser session started", zap.Bool("headless", cfg.Headless))

	settle, timeout := cfg.settle(), cfg.timeout()
	render := func(ctx context.Context, videoURL string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tctx, cancel := context.WithTimeout(browserCtx, timeout)
		defer cancel()

		var html string
		err := chromedp.Run(tctx,
			chromedp.Navigate(videoURL),
			chromedp.Sleep(settle),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
		return html, err
	}

	return &Prober{render: render, release: release, logger: logger}, nil
}

// Probe loads videoURL and returns reconcile.PlaybackOK or the player's error reason.
func (p *Prober) Probe(ctx context.Context, videoURL string) (string, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return "", fmt.Errorf("probe on closed browser session")
	}

	start := time.Now()
	html, err := p.render(ctx, videoURL)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", videoURL, err)
	}

	status, err := ExtractStatus(html)
	if err != nil {
		return "", err
	}
	p.logger.Debug("Playback probed",
		zap.String("url", videoURL),
		zap.String("status", status),
		zap.Duration("took", time.Since(start)),
	)
	return status, nil
}

// Close shuts the browser down. Calling Close more than once is a no-op.
func (p *Prober) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.release != nil {
		p.release()
	}
	p.logger.Info("Browser session closed")
	return nil
}
