package component

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/dmnkit/logger"
)

// Func is a Component assembled from functions. Any function may be nil.
type Func struct {
	name        string
	description Description
	start       func(ctx context.Context) error
	stop        func(ctx context.Context) error
	healthCheck func(ctx context.Context) error

	mu      sync.RWMutex
	started bool
}

// NewFunc creates a Func component with the given start function.
func NewFunc(name string, start func(context.Context) error) *Func {
	return &Func{
		name:        name,
		start:       start,
		description: Description{Name: name},
	}
}

// WithStop sets the stop function.
func (f *Func) WithStop(fn func(context.Context) error) *Func {
	f.stop = fn
	return f
}

// WithHealthCheck sets the health probe. A nil error reports healthy.
func (f *Func) WithHealthCheck(fn func(context.Context) error) *Func {
	f.healthCheck = fn
	return f
}

// WithDescription sets the summary description.
func (f *Func) WithDescription(d Description) *Func {
	if d.Name == "" {
		d.Name = f.name
	}
	f.description = d
	return f
}

// Name returns the component name.
func (f *Func) Name() string { return f.name }

// Start runs the start function once.
func (f *Func) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started {
		return nil
	}
	if f.start != nil {
		if err := f.start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", f.name, err)
		}
	}
	f.started = true
	logger.Debug("Component function started", map[string]interface{}{
		logger.FieldComponent: f.name,
	})
	return nil
}

// Stop runs the stop function if the component was started.
func (f *Func) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return nil
	}
	f.started = false
	if f.stop != nil {
		return f.stop(ctx)
	}
	return nil
}

// Started reports whether Start has succeeded and Stop has not run since.
func (f *Func) Started() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.started
}

// Health reports unhealthy before Start, otherwise the probe result.
func (f *Func) Health(ctx context.Context) Health {
	h := Health{Name: f.name, Status: StatusHealthy}
	if !f.Started() {
		h.Status = StatusUnhealthy
		h.Message = "not started"
		return h
	}
	if f.healthCheck != nil {
		if err := f.healthCheck(ctx); err != nil {
			h.Status = StatusUnhealthy
			h.Message = err.Error()
		}
	}
	return h
}

// Describe returns the summary description.
func (f *Func) Describe() Description { return f.description }
