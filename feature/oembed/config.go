package oembed

// Config holds configuration for the oEmbed metadata endpoint.
type Config struct {
	// Endpoint is the oEmbed URL queried for video metadata.
	Endpoint string `mapstructure:"endpoint" default:"https://www.youtube.com/oembed"`
	// TimeoutSeconds bounds a single metadata request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"link-verifier/1.0"`
}
