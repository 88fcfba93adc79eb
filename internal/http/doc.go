// Package http provides a retrying HTTP client for archive downloads.
//
// This package handles:
//   - HEAD requests to get file metadata
//   - GET requests streamed to the caller
//   - Retry with exponential backoff on transport errors and 5xx
//   - ETag normalization
//
// Terminal client errors (404, 403, 401) fail immediately without retry.
// RetryAttempts of zero gives single-attempt behavior.
//
// # Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	info, err := client.Head(ctx, url)
//	// info.Size, info.ETag
//
//	resp, err := client.Get(ctx, url)
//	defer resp.Body.Close()
package http
