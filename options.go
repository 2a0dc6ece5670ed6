package streamguard

import "go.uber.org/zap"

type config struct {
	name    string
	logger  *zap.Logger
	onClose func(error)
}

// Option configures a [Guard].
type Option func(*config)

func defaultConfig() config {
	return config{
		name:   "guard",
		logger: zap.NewNop(),
	}
}

// WithName sets a name for the guard, used to attribute log entries
// when several guards share a logger. It panics if name is empty.
func WithName(name string) Option {
	return func(c *config) {
		if name == "" {
			panic("streamguard: name must be non-empty")
		}
		c.name = name
	}
}

// WithLogger sets the logger used to report close action failures.
// The default is [zap.NewNop], so an unconfigured guard is silent.
// It panics if logger is nil.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger == nil {
			panic("streamguard: logger must be non-nil")
		}
		c.logger = logger
	}
}

// WithOnClose registers a hook invoked after the close action has run,
// with the action's error (nil on success). The hook runs inside
// [Guard.Close], once per guard.
func WithOnClose(fn func(error)) Option {
	return func(c *config) {
		c.onClose = fn
	}
}
