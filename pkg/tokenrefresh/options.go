package tokenrefresh

import "log/slog"

// Option configures Coordinator creation.
type Option func(*Coordinator)

// WithRefreshPath overrides the credential renewal endpoint.
// Default is "/token/refresh".
func WithRefreshPath(path string) Option {
	return func(c *Coordinator) {
		if path != "" {
			c.refreshPath = path
		}
	}
}

// OnSessionExpired registers a hook fired once per failed renewal. The auth
// session store subscribes its reset here; the coordinator itself never
// touches session state.
func OnSessionExpired(fn func()) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.onSessionExpired = fn
		}
	}
}

// WithLogger sets the logger for renewal lifecycle events. Nil loggers are
// ignored; the default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}
