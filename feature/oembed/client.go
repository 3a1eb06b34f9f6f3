package oembed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"link-verifier/core/reconcile"
)

// maxBodySize caps the response body; oEmbed documents are a few hundred bytes.
const maxBodySize = 1 << 20

// Client resolves video metadata through an oEmbed endpoint.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// document is the subset of the oEmbed response the verifier relies on.
type document struct {
	Title      *string `json:"title"`
	AuthorName *string `json:"author_name"`
}

// NewClient creates a Client from cfg. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://www.youtube.com/oembed"
	}
	return &Client{
		endpoint:   endpoint,
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
	}
}

// Resolve returns the title and author of the video at videoURL.
// It performs exactly one request and never retries.
func (c *Client) Resolve(ctx context.Context, videoURL string) (reconcile.Metadata, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return reconcile.Metadata{}, ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(videoURL), nil)
	if err != nil {
		return reconcile.Metadata{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reconcile.Metadata{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return reconcile.Metadata{}, &HTTPStatusError{URL: videoURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return reconcile.Metadata{}, fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}

	return parse(body)
}

func (c *Client) requestURL(videoURL string) string {
	q := url.Values{}
	q.Set("url", videoURL)
	q.Set("format", "json")

	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + q.Encode()
}

func parse(body []byte) (reconcile.Metadata, error) {
	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return reconcile.Metadata{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if doc.Title == nil {
		return reconcile.Metadata{}, fmt.Errorf("%w: missing title", ErrMalformedPayload)
	}
	if doc.AuthorName == nil {
		return reconcile.Metadata{}, fmt.Errorf("%w: missing author_name", ErrMalformedPayload)
	}
	return reconcile.Metadata{Title: *doc.Title, Author: *doc.AuthorName}, nil
}
