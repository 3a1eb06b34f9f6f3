// Package playback detects viewer-facing playback failures that the metadata
// endpoint cannot reveal: region locks, age restriction, premium-only and
// similar player errors.
//
// A Prober drives one headless Chrome session (chromedp) for the whole run.
// Each probe navigates to the video, gives the player time to render and
// hands the rendered document to ExtractStatus, which looks for the player's
// error containers with goquery. A page without a visible error container is
// reported as reconcile.PlaybackOK.
//
// # Usage
//
//	p, err := playback.New(ctx, cfg.Prober, log)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	status, err := p.Probe(ctx, "https://www.youtube.com/watch?v=abc")
package playback
