// Package http fetches remote images with a bounded body size.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmylchreest/swatch/internal/security"
	"github.com/jmylchreest/swatch/internal/version"
)

const (
	// UserAgentName is the application name used in the User-Agent header.
	UserAgentName = "swatch"

	// DefaultTimeout applies when FetchOptions.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps the size of a fetched body.
	DefaultMaxBytes int64 = 50 << 20

	// AcceptImages is the Accept header sent for image downloads.
	AcceptImages = "image/png, image/jpeg, image/gif, image/webp, image/*;q=0.8"
)

// StatusError is returned when the server answers with anything but 200 OK.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %s", e.URL, e.Status)
}

// FetchOptions configures a single download.
type FetchOptions struct {
	Timeout  time.Duration
	Accept   string
	MaxBytes int64
}

func (o FetchOptions) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// Fetch downloads an http(s) URL and returns its body.
//
// Bodies larger than MaxBytes fail with an error wrapping security.ErrLimitExceeded,
// either up front from Content-Length or while reading. Other statuses return *StatusError.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	if err := security.ValidateRemoteURL(url); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgentName+"/"+version.Version)
	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status}
	}

	limit := opts.maxBytes()
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", security.ErrLimitExceeded, url, resp.ContentLength, limit)
	}
	data, err := io.ReadAll(security.NewLimitedReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s (limit %d bytes): %w", url, limit, err)
	}
	return data, nil
}
