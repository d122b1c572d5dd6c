package authrelay

import "errors"

var (
	// ErrNilUser is returned when AuthMiddleware is constructed without a user.
	ErrNilUser = errors.New("user cannot be nil")

	// ErrNilBackend is returned when AuthMiddleware is constructed without
	// a dialect backend.
	ErrNilBackend = errors.New("dialect backend cannot be nil")
)

// Option configures an AuthMiddleware. Options return errors to enable
// validation during construction.
type Option func(*AuthMiddleware) error

// WithLogger sets the logger used for login tracking events.
func WithLogger(logger Logger) Option {
	return func(m *AuthMiddleware) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for login outcome counters.
func WithMetrics(metrics Metrics) Option {
	return func(m *AuthMiddleware) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		m.metrics = metrics
		return nil
	}
}
