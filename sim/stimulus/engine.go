// Package stimulus provides a reference evaluation engine that drives a
// model with deterministic random stimulus. It exercises the engine side
// of the StateContainer contract: one-time setup, activity marking and
// deferred cleanup of per-run allocations.
package stimulus

import (
	"math/rand"

	"github.com/inference-sim/rtlsim/sim"
	"github.com/sirupsen/logrus"
)

// ClockSignal is the root-level signal the engine toggles every Eval, if the design has one.
const ClockSignal = "clk"

// Config controls stimulus generation.
type Config struct {
	// ToggleProbability is the chance that each non-clock signal receives a
	// new random value on an Eval (0..1).
	ToggleProbability float64
}

// DefaultConfig returns the stimulus settings used by the CLI.
func DefaultConfig() Config {
	return Config{ToggleProbability: 0.25}
}

// Engine drives one model. It owns no state of its own beyond a scratch
// buffer, which it hands to the model's cleanup queue.
//
// Thread-safety: NOT thread-safe.
type Engine struct {
	model   *sim.Model
	rng     *rand.Rand
	config  Config
	clk     *sim.Signal
	signals []*sim.Signal
	scratch *scratch
	evals   int
}

// scratch is the engine's per-run allocation: the list of pending writes
// reused across Evals. It is released with the model.
type scratch struct {
	pending  []write
	released bool
}

type write struct {
	sig   *sim.Signal
	value uint64
}

func (s *scratch) Release() {
	s.pending = nil
	s.released = true
}

// New creates an engine for m. Panics if rng is nil.
func New(m *sim.Model, rng *rand.Rand, config Config) *Engine {
	if rng == nil {
		logrus.Panicf("stimulus.New: rng must not be nil for %q", m.Name())
	}
	e := &Engine{model: m, rng: rng, config: config}
	root := m.State().Root()
	if clk, ok := root.Lookup(ClockSignal); ok {
		e.clk = clk
	}
	root.Walk(func(_ int, sig *sim.Signal) {
		if sig != e.clk {
			e.signals = append(e.signals, sig)
		}
	})
	return e
}

// Init performs one-time setup: every signal is forced to its reset value,
// the scratch buffer is registered for cleanup and the container is marked
// initialized. Panics if the model was already initialized.
func (e *Engine) Init() {
	sc := e.model.State()
	if sc.InitDone() {
		logrus.Panicf("stimulus: %q already initialized", e.model.Name())
	}
	sc.Root().Walk(func(_ int, sig *sim.Signal) {
		sig.Set(sig.Reset())
	})
	e.scratch = &scratch{pending: make([]write, 0, len(e.signals))}
	sc.RegisterForCleanup(e.scratch)
	sc.MarkInitialized()
	sc.MarkActivity()
	logrus.Debugf("stimulus: %q initialized (%d driven signals)", e.model.Name(), len(e.signals))
}

// Eval runs one evaluation step and returns the number of signals whose
// value changed. Panics if Init has not run.
func (e *Engine) Eval() int {
	sc := e.model.State()
	if !sc.InitDone() {
		logrus.Panicf("stimulus: Eval on %q before Init", e.model.Name())
	}
	changed := 0
	if e.clk != nil && e.clk.Set(e.clk.Value()^1) {
		changed++
	}

	pending := e.scratch.pending[:0]
	for _, sig := range e.signals {
		if e.rng.Float64() < e.config.ToggleProbability {
			pending = append(pending, write{sig: sig, value: e.rng.Uint64()})
		}
	}
	for _, w := range pending {
		if w.sig.Set(w.value) {
			changed++
		}
	}
	e.scratch.pending = pending

	if changed > 0 {
		sc.MarkActivity()
	}
	e.evals++
	return changed
}

// Evals returns the number of completed Eval calls.
func (e *Engine) Evals() int {
	return e.evals
}
