// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the outbound clients.
// Requests are sent once: a failed fetch is reported, never retried.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDrain caps how much of an error response body is read and discarded.
const maxDrain = 4096

// DefaultTimeout bounds a single outbound request when the caller does not
// supply its own client.
const DefaultTimeout = 90 * time.Second

// StatusError reports a response with a status other than 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.StatusCode)
}

// NotFound reports whether the response was a 404.
func (e *StatusError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// NewClient returns an HTTP client with the given timeout, or
// DefaultTimeout when timeout is not positive.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Get fetches url and returns the body of a 200 response. Bodies larger
// than limit bytes are an error; a non-positive limit means no limit.
// Other statuses return a *StatusError after draining at most maxDrain
// bytes of the body.
func Get(ctx context.Context, client *http.Client, url, userAgent string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if client == nil {
		client = NewClient(0)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, limit)
	}
	return data, nil
}
