// Package oembed resolves video metadata through the YouTube oEmbed endpoint.
//
// The endpoint answers GET /oembed?url=<video>&format=json with a small JSON
// document. Only title and author_name are used; both must be present.
// Private and removed videos answer with 401/403/404, reported as
// *HTTPStatusError. Network failures wrap ErrRequestFailed and unexpected
// bodies wrap ErrMalformedPayload.
//
// The Client implements reconcile.Resolver and performs no retries.
package oembed
