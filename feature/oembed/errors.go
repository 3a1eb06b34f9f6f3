package oembed

import (
	"errors"
	"fmt"
)

// Sentinel errors for metadata lookups.
var (
	// ErrEmptyURL indicates the row has no video URL.
	ErrEmptyURL = errors.New("empty video url")

	// ErrRequestFailed indicates the request itself failed (network, timeout).
	ErrRequestFailed = errors.New("oembed request failed")

	// ErrMalformedPayload indicates the response was not the expected JSON document.
	ErrMalformedPayload = errors.New("malformed oembed payload")
)

// HTTPStatusError indicates the endpoint answered with a non-2xx status.
// YouTube answers 401 for private videos and 404 for removed ones.
type HTTPStatusError struct {
	// URL is the video URL that was looked up.
	URL string
	// StatusCode is the HTTP status code.
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	switch e.StatusCode {
	case 401, 403:
		return fmt.Sprintf("video not accessible (status %d)", e.StatusCode)
	case 404:
		return fmt.Sprintf("video not found (status %d)", e.StatusCode)
	default:
		return fmt.Sprintf("http error: status %d", e.StatusCode)
	}
}
