// Package config provides configuration management for the link verifier.
//
// Values come from environment variables, optionally seeded from a .env file
// in the working directory. Every field declares its default through a
// `default` struct tag.
//
// # Configuration Structure
//
//   - Log: logging level and format (LOG_LEVEL, LOG_FORMAT)
//   - Resolver: oEmbed endpoint, timeout and user agent (RESOLVER_*)
//   - Prober: browser binary, headless mode, settle and load timeouts (PROBER_*)
//   - Throttle: delay between metadata requests (THROTTLE_DELAY_MS)
//   - Storage: S3/MinIO credentials for s3:// locations (STORAGE_*)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	pacer := throttle.New(cfg.Throttle.Delay())
package config
