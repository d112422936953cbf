package sim

import (
	"fmt"

	"github.com/inference-sim/rtlsim/sim/trace"
	"github.com/sirupsen/logrus"
)

// tracedModel is the tracer's view of one attached model: the container
// and the values seen at the previous sample, indexed by local index.
type tracedModel struct {
	model   *Model
	last    []uint64
	sampled bool
}

// Tracer samples one or more models into a shared trace stream. Each
// attached model gets a disjoint identifier range from the tracer's
// CodeSpace and is sampled only when its activity flag is set.
//
// Thread-safety: NOT thread-safe. All methods must be called from the same goroutine.
type Tracer struct {
	config trace.TraceConfig
	codes  *trace.CodeSpace
	models []*tracedModel
	st     *trace.SimulationTrace
}

// NewTracer creates a Tracer. Returns an error for an invalid level or alignment.
func NewTracer(config trace.TraceConfig) (*Tracer, error) {
	if !trace.IsValidTraceLevel(string(config.Level)) {
		return nil, fmt.Errorf("unknown trace level %q", config.Level)
	}
	codes, err := trace.NewCodeSpace(config.Alignment)
	if err != nil {
		return nil, err
	}
	return &Tracer{
		config: config,
		codes:  codes,
		st:     trace.NewSimulationTrace(config),
	}, nil
}

// Attach negotiates an identifier range for m and assigns its base code.
// The model's context must have tracing enabled. Attaching a model that
// already has a base code panics without reserving a range.
func (t *Tracer) Attach(m *Model) error {
	sc := m.State()
	if sc.BaseCodeAssigned() {
		logrus.Panicf("Tracer.Attach: %q already has base code %d", m.Name(), sc.BaseCode())
	}
	if !sc.Context().Config().TraceEnabled {
		return fmt.Errorf("attaching %q: tracing is not enabled on its context", m.Name())
	}
	base, err := t.codes.Allocate(m.Name(), sc.CodeSpan())
	if err != nil {
		return fmt.Errorf("attaching %q: %w", m.Name(), err)
	}
	sc.AssignBaseCode(base)
	t.models = append(t.models, &tracedModel{
		model: m,
		last:  make([]uint64, sc.CodeSpan()),
	})
	logrus.Debugf("tracer attached %q at codes [%d, %d)", m.Name(), base, uint64(base)+uint64(sc.CodeSpan()))
	return nil
}

// Sample consumes every attached model's activity flag. The first sample
// of a model dumps all values; later samples emit only values that differ
// from the previous sample, and only when activity was flagged.
// Closed models are skipped.
func (t *Tracer) Sample(clock uint64) {
	for _, tm := range t.models {
		if tm.model.Closed() {
			continue
		}
		sc := tm.model.State()
		active := sc.ConsumeActivity()
		record := trace.SampleRecord{Clock: clock, Model: tm.model.Name(), Active: active}
		if (active || !tm.sampled) && t.config.Enabled() {
			full := !tm.sampled
			base := sc.BaseCode()
			sc.ForEachSignal(func(code uint32, sig *Signal) {
				idx := code - base
				v := sig.Value()
				if !full && tm.last[idx] == v {
					return
				}
				tm.last[idx] = v
				t.st.RecordChange(trace.ValueChange{
					Clock:  clock,
					Code:   code,
					Model:  record.Model,
					Signal: sig.HierName(),
					Width:  sig.Width(),
					Value:  v,
				})
				record.Changes++
			})
		}
		tm.sampled = true
		t.st.RecordSample(record)
	}
}

// Ranges returns the identifier ranges handed out so far.
func (t *Tracer) Ranges() []trace.CodeRange {
	return t.codes.Ranges()
}

// Trace returns the collected trace.
func (t *Tracer) Trace() *trace.SimulationTrace {
	return t.st
}
