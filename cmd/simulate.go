package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/rtlsim/sim"
	"github.com/inference-sim/rtlsim/sim/stimulus"
	"github.com/inference-sim/rtlsim/sim/trace"
)

// RunConfig groups the driver parameters for one simulation run.
type RunConfig struct {
	Models            int
	Cycles            int
	Seed              int64
	TicksPerCycle     uint64
	ToggleProbability float64
	Periods           []uint64 // per-model clock period in ticks; missing entries use TicksPerCycle
	Trace             trace.TraceConfig
}

// RunResult is what a run leaves behind once every model is closed.
type RunResult struct {
	EndTime uint64
	Evals   []int // evaluations per model
	Ranges  []trace.CodeRange
	Summary *trace.TraceSummary
}

// RunSimulation builds cfg.Models models of design on one context, attaches
// them to a shared tracer and initializes each once. It then runs for
// cfg.Cycles*cfg.TicksPerCycle ticks, evaluating each model on its own
// period and sampling the tracer at every tick where some model evaluated.
// Every model is closed before returning, including on error.
func RunSimulation(design *sim.DesignSpec, cfg RunConfig) (*RunResult, error) {
	if cfg.Models < 1 {
		return nil, fmt.Errorf("models must be >= 1, got %d", cfg.Models)
	}
	if cfg.Cycles < 0 {
		return nil, fmt.Errorf("cycles must be >= 0, got %d", cfg.Cycles)
	}
	if cfg.ToggleProbability < 0 || cfg.ToggleProbability > 1 {
		return nil, fmt.Errorf("toggle probability must be in [0, 1], got %f", cfg.ToggleProbability)
	}
	if cfg.TicksPerCycle == 0 {
		return nil, fmt.Errorf("ticks per cycle must be >= 1")
	}
	if len(cfg.Periods) > cfg.Models {
		return nil, fmt.Errorf("%d clock periods given for %d models", len(cfg.Periods), cfg.Models)
	}
	periods := make([]uint64, cfg.Models)
	for idx := range periods {
		periods[idx] = cfg.TicksPerCycle
		if idx < len(cfg.Periods) {
			if cfg.Periods[idx] == 0 {
				return nil, fmt.Errorf("clock period of model %d must be >= 1", idx)
			}
			periods[idx] = cfg.Periods[idx]
		}
	}

	ctx := sim.NewContext(sim.ContextConfig{TraceEnabled: true})
	defer ctx.Close()

	tracer, err := sim.NewTracer(cfg.Trace)
	if err != nil {
		return nil, err
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))

	models := make([]*sim.Model, 0, cfg.Models)
	defer func() {
		// Close in reverse construction order.
		for i := len(models) - 1; i >= 0; i-- {
			models[i].Close()
		}
	}()

	engines := make([]*stimulus.Engine, 0, cfg.Models)
	for idx := 0; idx < cfg.Models; idx++ {
		name := design.Top
		if cfg.Models > 1 {
			name = fmt.Sprintf("%s_%d", design.Top, idx)
		}
		m, err := sim.NewModel(ctx, name, sim.WithDesign(design.Build(name)))
		if err != nil {
			return nil, err
		}
		models = append(models, m)
		if err := tracer.Attach(m); err != nil {
			return nil, err
		}
		engines = append(engines, stimulus.New(m, rng.ForSubsystem(sim.SubsystemModel(idx)),
			stimulus.Config{ToggleProbability: cfg.ToggleProbability}))
	}

	for _, e := range engines {
		e.Init()
	}
	tracer.Sample(ctx.Time())

	horizon := uint64(cfg.Cycles) * cfg.TicksPerCycle
	lockstep(periods, horizon,
		func(idx int) { engines[idx].Eval() },
		func(now uint64) {
			ctx.AdvanceTime(now - ctx.Time())
			tracer.Sample(now)
			logrus.Debugf("[tick %07d] sampled", now)
		})
	ctx.AdvanceTime(horizon - ctx.Time())

	evals := make([]int, len(engines))
	for idx, e := range engines {
		evals[idx] = e.Evals()
	}
	return &RunResult{
		EndTime: ctx.Time(),
		Evals:   evals,
		Ranges:  tracer.Ranges(),
		Summary: trace.Summarize(tracer.Trace()),
	}, nil
}

// Print writes a human-readable run summary.
func (r *RunResult) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "End time           : %d ticks\n", r.EndTime)
	fmt.Fprintf(w, "Samples            : %d (%d active, %d idle)\n",
		r.Summary.TotalSamples, r.Summary.ActiveSamples, r.Summary.IdleSamples)
	fmt.Fprintf(w, "Value changes      : %d (%.2f per active sample)\n",
		r.Summary.TotalChanges, r.Summary.MeanChangesActive)
	fmt.Fprintf(w, "Signals traced     : %d\n", r.Summary.UniqueSignals)
	fmt.Fprintln(w, "Identifier ranges  :")
	for _, rg := range r.Ranges {
		fmt.Fprintf(w, "  %-16s [%d, %d)\n", rg.Owner, rg.Base, rg.End())
	}
	names := make([]string, 0, len(r.Summary.ChangesPerModel))
	for name := range r.Summary.ChangesPerModel {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "Changes per model  :")
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %d\n", name, r.Summary.ChangesPerModel[name])
	}
}
