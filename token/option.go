package token

import (
	"errors"
	"time"

	"github.com/wsproxy/authrelay"
)

// Option configures a Handler. Options return errors to enable validation
// during construction.
type Option func(*Handler) error

// WithMaxLife sets the token time-to-live. Default: DefaultMaxLife.
func WithMaxLife(d time.Duration) Option {
	return func(h *Handler) error {
		if d <= 0 {
			return errors.New("max life must be positive")
		}
		h.maxLife = d
		return nil
	}
}

// WithLogger sets the logger for token lifecycle events.
func WithLogger(logger authrelay.Logger) Option {
	return func(h *Handler) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		h.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for token lifecycle counters.
func WithMetrics(metrics authrelay.Metrics) Option {
	return func(h *Handler) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		h.metrics = metrics
		return nil
	}
}

// WithNow overrides the clock used for Created/Expires timestamps.
// Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(h *Handler) error {
		if now == nil {
			return errors.New("now cannot be nil")
		}
		h.now = now
		return nil
	}
}

// WithScheduler overrides how expiry callbacks are deferred. Intended for
// tests, which use it to fire expiry deterministically instead of waiting
// on real timers.
func WithScheduler(schedule Scheduler) Option {
	return func(h *Handler) error {
		if schedule == nil {
			return errors.New("scheduler cannot be nil")
		}
		h.schedule = schedule
		return nil
	}
}
