package sim

import (
	"github.com/sirupsen/logrus"
)

// ModelOption configures NewModel.
type ModelOption func(*modelOptions)

type modelOptions struct {
	root *Instance
}

// WithDesign installs a built instance tree as the model's root. The model
// takes ownership of the tree; its root name becomes the model's display name.
func WithDesign(root *Instance) ModelOption {
	return func(o *modelOptions) { o.root = root }
}

// Model is the externally visible handle of one instantiated simulation
// run. It exclusively owns one StateContainer from NewModel until Close.
//
// Thread-safety: NOT thread-safe. Must be driven from a single goroutine.
type Model struct {
	ctx   *Context
	state *StateContainer
}

// NewModel constructs a model and its StateContainer on ctx.
// When WithDesign is given the design root's name is the display name and
// name is only used in error messages.
//
// Failure modes: returns an error wrapping ErrInvalidContext if ctx is nil or closed.
func NewModel(ctx *Context, name string, opts ...ModelOption) (*Model, error) {
	var o modelOptions
	for _, opt := range opts {
		opt(&o)
	}
	m := &Model{ctx: ctx}
	sc, err := newStateContainer(ctx, name, m, o.root)
	if err != nil {
		return nil, err
	}
	m.state = sc
	ctx.modelOpened()
	return m, nil
}

// Name returns the model's display name.
func (m *Model) Name() string {
	return m.state.Name()
}

// State returns the model's StateContainer, for use by the evaluation engine and tracer.
func (m *Model) State() *StateContainer {
	return m.state
}

// Context returns the context the model was built on.
func (m *Model) Context() *Context {
	return m.ctx
}

// Closed reports whether Close has run.
func (m *Model) Closed() bool {
	return m.state.State() == StateTornDown
}

// Close destroys the StateContainer: deferred objects are released first,
// then the instance tree. Panics if called twice.
func (m *Model) Close() {
	if m.Closed() {
		logrus.Panicf("Model.Close called twice")
	}
	m.state.destroy()
	m.ctx.modelClosed()
}
