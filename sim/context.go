package sim

import (
	"errors"
)

// ErrInvalidContext is returned when a model is constructed on a nil or closed Context.
var ErrInvalidContext = errors.New("invalid simulation context")

// ContextConfig groups the settings shared by every model built on one Context.
type ContextConfig struct {
	TimeUnit      string // display label for one tick (e.g., "1ns")
	TimePrecision string // display label for the finest resolvable step (e.g., "1ps")
	TraceEnabled  bool   // models built on this context may be attached to a Tracer
}

// Context is the enclosing simulation context passed explicitly to every
// model at construction. It owns simulation time and counts live models;
// it never owns the models themselves.
//
// Thread-safety: NOT thread-safe. All methods must be called from the same goroutine.
type Context struct {
	config     ContextConfig
	time       uint64
	liveModels int
	closed     bool
}

// NewContext creates an open Context at time 0.
func NewContext(config ContextConfig) *Context {
	if config.TimeUnit == "" {
		config.TimeUnit = "1ns"
	}
	if config.TimePrecision == "" {
		config.TimePrecision = config.TimeUnit
	}
	return &Context{config: config}
}

// Valid reports whether models may be constructed on this context.
// A nil context is never valid.
func (c *Context) Valid() bool {
	return c != nil && !c.closed
}

// Config returns the context configuration.
func (c *Context) Config() ContextConfig {
	return c.config
}

// Time returns the current simulation time in ticks.
func (c *Context) Time() uint64 {
	return c.time
}

// AdvanceTime moves simulation time forward by delta ticks.
func (c *Context) AdvanceTime(delta uint64) {
	c.time += delta
}

// LiveModels returns the number of models constructed on this context and not yet closed.
func (c *Context) LiveModels() int {
	return c.liveModels
}

// Close invalidates the context. Models already built keep working until
// they are closed; new models fail with ErrInvalidContext.
func (c *Context) Close() {
	c.closed = true
}

func (c *Context) modelOpened() { c.liveModels++ }
func (c *Context) modelClosed() { c.liveModels-- }
