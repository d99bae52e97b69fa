// Package security provides input hardening helpers for data read from outside the process.
package security

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrLimitExceeded is returned by LimitedReader once more than its limit would be read.
var ErrLimitExceeded = errors.New("size limit exceeded")

// LimitedReader wraps an io.Reader and fails, rather than truncating, when the underlying
// reader holds more than the limit. It guards decompression of untrusted files.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// NewLimitedReader creates a LimitedReader allowing at most maxBytes.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{R: r, Remaining: maxBytes}
}

// Read implements io.Reader.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if l.Remaining <= 0 {
		// Input that ends exactly at the limit is fine; anything more is not.
		var probe [1]byte
		n, err := l.R.Read(probe[:])
		if n > 0 {
			return 0, ErrLimitExceeded
		}
		return 0, err
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// ValidateRemoteURL checks that raw is an absolute http(s) URL with a host.
func ValidateRemoteURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty URL")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q (only http and https are allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	return nil
}
