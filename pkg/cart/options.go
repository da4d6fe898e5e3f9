package cart

import "log/slog"

// Option configures Engine creation.
type Option func(*Engine)

// WithLogger sets the logger for reconciliation events. Nil loggers are
// ignored; the default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber channel buffer. Minimum 1.
func WithSubscriberBuffer(n int) Option {
	return func(e *Engine) {
		e.bufSize = max(n, 1)
	}
}
