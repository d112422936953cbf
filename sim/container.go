package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ContainerState is the lifecycle state of a StateContainer.
type ContainerState int

const (
	StateUninitialized ContainerState = iota
	StateReady
	StateTornDown
)

func (s ContainerState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateTornDown:
		return "torn-down"
	default:
		return fmt.Sprintf("ContainerState(%d)", int(s))
	}
}

// StateContainer aggregates all mutable runtime state of one model: the
// instance tree, the activity flag consumed by the tracer, the trace base
// code, the deferred-cleanup queue and the initialization gate.
//
// A StateContainer is created and destroyed only by its Model.
//
// Thread-safety: NOT thread-safe. Evaluation, tracing and teardown of one
// model must run on a single goroutine.
type StateContainer struct {
	ctx   *Context
	model *Model // observing back-reference; never extends the model's lifetime
	root  *Instance
	state ContainerState

	activity     bool
	baseCode     uint32
	baseAssigned bool
	didInit      bool
	cleanup      cleanupQueue
}

// newStateContainer constructs the container for model. If root is nil a
// bare root instance named name is created. The container adopts the whole
// hierarchy; a hierarchy already owned by another container panics.
// No evaluation is performed.
func newStateContainer(ctx *Context, name string, model *Model, root *Instance) (*StateContainer, error) {
	if !ctx.Valid() {
		return nil, fmt.Errorf("constructing state container %q: %w", name, ErrInvalidContext)
	}
	if root == nil {
		root = NewInstance(name)
	}
	root.adopt(name)
	sc := &StateContainer{
		ctx:   ctx,
		model: model,
		root:  root,
		state: StateReady,
	}
	logrus.Debugf("state container %q constructed (%d signals)", sc.Name(), root.SignalCount())
	return sc, nil
}

// destroy flushes the cleanup queue, then releases the instance tree.
// Called exactly once, by Model.Close.
func (sc *StateContainer) destroy() {
	sc.mustBeReady("Destroy")
	name := sc.root.Name()
	released := sc.cleanup.drain()
	sc.root.release()
	sc.root = nil
	sc.state = StateTornDown
	logrus.Debugf("state container %q torn down (%d deferred objects released)", name, released)
}

func (sc *StateContainer) mustBeReady(op string) {
	if sc.state != StateReady {
		logrus.Panicf("StateContainer.%s called in state %s", op, sc.state)
	}
}

// State returns the lifecycle state.
func (sc *StateContainer) State() ContainerState {
	return sc.state
}

// Name returns the display name, delegated from the instance tree root.
func (sc *StateContainer) Name() string {
	sc.mustBeReady("Name")
	return sc.root.Name()
}

// Model returns the model that owns this container.
func (sc *StateContainer) Model() *Model {
	return sc.model
}

// Context returns the enclosing simulation context.
func (sc *StateContainer) Context() *Context {
	return sc.ctx
}

// Root returns the instance tree root for signal enumeration.
func (sc *StateContainer) Root() *Instance {
	sc.mustBeReady("Root")
	return sc.root
}

// === Activity ===

// MarkActivity records that at least one traced value changed since the
// last trace sample. Called by the evaluation engine.
func (sc *StateContainer) MarkActivity() {
	sc.mustBeReady("MarkActivity")
	sc.activity = true
}

// ConsumeActivity returns the activity flag and clears it. Called by the
// tracer once per sample; returns false when nothing changed.
func (sc *StateContainer) ConsumeActivity() bool {
	sc.mustBeReady("ConsumeActivity")
	active := sc.activity
	sc.activity = false
	return active
}

// Activity reads the activity flag without clearing it.
func (sc *StateContainer) Activity() bool {
	return sc.activity
}

// === Trace identifiers ===

// AssignBaseCode sets the first trace identifier of this model and freezes
// the instance tree, so CodeSpan stays fixed. It may be assigned once; a
// second assignment panics and leaves the first value in place.
func (sc *StateContainer) AssignBaseCode(offset uint32) {
	sc.mustBeReady("AssignBaseCode")
	if sc.baseAssigned {
		logrus.Panicf("StateContainer.AssignBaseCode: %q already has base code %d, refusing %d",
			sc.root.Name(), sc.baseCode, offset)
	}
	sc.baseCode = offset
	sc.baseAssigned = true
	sc.root.freeze()
	logrus.Debugf("state container %q assigned base code %d", sc.root.Name(), offset)
}

// BaseCode returns the assigned base code (0 until assigned).
func (sc *StateContainer) BaseCode() uint32 {
	return sc.baseCode
}

// BaseCodeAssigned reports whether AssignBaseCode has been called.
func (sc *StateContainer) BaseCodeAssigned() bool {
	return sc.baseAssigned
}

// CodeSpan returns the number of trace identifiers this model occupies.
func (sc *StateContainer) CodeSpan() uint32 {
	return uint32(sc.Root().SignalCount())
}

// ForEachSignal visits every signal with its trace identifier (base code + local index).
func (sc *StateContainer) ForEachSignal(fn func(code uint32, sig *Signal)) {
	base := sc.baseCode
	sc.Root().Walk(func(idx int, sig *Signal) {
		fn(base+uint32(idx), sig)
	})
}

// === Deferred cleanup ===

// RegisterForCleanup takes ownership of obj; it is released at teardown
// or at the next FlushCleanup, most recently registered first.
// Callers bound growth: do not register from a hot evaluation loop.
func (sc *StateContainer) RegisterForCleanup(obj Releaser) {
	sc.mustBeReady("RegisterForCleanup")
	if obj == nil {
		logrus.Panicf("StateContainer.RegisterForCleanup: nil object for %q", sc.root.Name())
	}
	sc.cleanup.push(obj)
}

// FlushCleanup releases every queued object now, LIFO, and returns how many were released.
func (sc *StateContainer) FlushCleanup() int {
	sc.mustBeReady("FlushCleanup")
	return sc.cleanup.drain()
}

// PendingCleanup returns the number of objects awaiting release.
func (sc *StateContainer) PendingCleanup() int {
	return sc.cleanup.size()
}

// === Initialization gate ===

// InitDone reports whether one-time setup has completed. The evaluation
// engine must not evaluate before this is true.
func (sc *StateContainer) InitDone() bool {
	sc.mustBeReady("InitDone")
	return sc.didInit
}

// MarkInitialized records that one-time setup has completed. Setup runs at
// most once per container lifetime; a second call panics.
func (sc *StateContainer) MarkInitialized() {
	sc.mustBeReady("MarkInitialized")
	if sc.didInit {
		logrus.Panicf("StateContainer.MarkInitialized: %q already initialized", sc.root.Name())
	}
	sc.didInit = true
}
