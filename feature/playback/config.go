package playback

import "time"

// Config holds configuration for the headless browser used by the prober.
type Config struct {
	// ExecPath is the Chrome/Chromium binary; empty lets chromedp locate one.
	ExecPath string `mapstructure:"exec_path" default:""`
	// Headless runs the browser without a window.
	Headless bool `mapstructure:"headless" default:"true"`
	// SettleSeconds is how long the player is given to render after navigation.
	SettleSeconds int `mapstructure:"settle_seconds" default:"3"`
	// TimeoutSeconds bounds a single probe including navigation.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// UserAgent overrides the browser user agent when set.
	UserAgent string `mapstructure:"user_agent" default:""`
}

func (c Config) settle() time.Duration {
	if c.SettleSeconds < 0 {
		return 0
	}
	return time.Duration(c.SettleSeconds) * time.Second
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
