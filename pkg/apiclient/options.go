package apiclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures Client creation.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The client's cookie jar
// is preserved if set; otherwise the gateway installs its own so the
// credential cookie survives across calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCSRF overrides the anti-forgery cookie and header names.
func WithCSRF(cookieName, headerName string) Option {
	return func(c *Client) {
		if cookieName != "" {
			c.csrfCookie = cookieName
		}
		if headerName != "" {
			c.csrfHeader = headerName
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every call.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeader adds a static header to every call.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key != "" {
			c.headers[key] = value
		}
	}
}

// WithLogger sets the logger for call-level debug logging. Nil loggers are
// ignored; the default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
