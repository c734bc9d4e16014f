package bootstrap

import (
	"time"

	"github.com/spf13/afero"

	"github.com/kbukum/dmnkit/autoconfigure"
	"github.com/kbukum/dmnkit/di"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/observability"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	container       di.Container
	gracefulTimeout *time.Duration
	runner          *autoconfigure.Runner
	resourceFs      afero.Fs
	metrics         *observability.Metrics
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is auto-initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithContainer sets a custom DI container for the application.
func WithContainer(c di.Container) Option {
	return func(o *appOptions) {
		o.container = c
	}
}

// WithAutoConfiguration replaces the default auto-configuration runner.
func WithAutoConfiguration(r *autoconfigure.Runner) Option {
	return func(o *appOptions) {
		o.runner = r
	}
}

// WithResourceFs sets the filesystem deployment resources are discovered in.
// Defaults to the OS filesystem.
func WithResourceFs(fs afero.Fs) Option {
	return func(o *appOptions) {
		o.resourceFs = fs
	}
}

// WithMetrics records auto-configuration metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *appOptions) {
		o.metrics = m
	}
}
