package apiclient

import "time"

// Config holds gateway configuration.
type Config struct {
	// BaseURL is the storefront API origin, without a trailing slash.
	BaseURL string `env:"SHOPKIT_BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds each call; exceeding it surfaces as *TransportError.
	Timeout time.Duration `env:"SHOPKIT_HTTP_TIMEOUT" envDefault:"15s"`

	// CSRFCookieName is the well-known cookie the anti-forgery token is read from.
	CSRFCookieName string `env:"SHOPKIT_CSRF_COOKIE" envDefault:"csrftoken"`

	// CSRFHeaderName carries the anti-forgery token on state-changing calls.
	CSRFHeaderName string `env:"SHOPKIT_CSRF_HEADER" envDefault:"X-CSRFToken"`

	UserAgent string `env:"SHOPKIT_USER_AGENT" envDefault:"shopkit/1.0"`
}

// DefaultConfig returns default gateway configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		Timeout:        15 * time.Second,
		CSRFCookieName: "csrftoken",
		CSRFHeaderName: "X-CSRFToken",
		UserAgent:      "shopkit/1.0",
	}
}

// NewFromConfig creates a Client from the provided Config. Options are
// applied after the config so they can override individual fields.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	configOpts := []Option{
		WithTimeout(cfg.Timeout),
		WithCSRF(cfg.CSRFCookieName, cfg.CSRFHeaderName),
		WithUserAgent(cfg.UserAgent),
	}
	return New(cfg.BaseURL, append(configOpts, opts...)...)
}
