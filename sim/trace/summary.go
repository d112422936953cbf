package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSamples      int
	ActiveSamples     int
	IdleSamples       int
	TotalChanges      int
	UniqueSignals     int
	ChangesPerModel   map[string]int // model name → value changes recorded
	MeanChangesActive float64        // mean changes per active sample
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ChangesPerModel: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalSamples = len(st.Samples)
	for _, s := range st.Samples {
		if s.Active {
			summary.ActiveSamples++
		} else {
			summary.IdleSamples++
		}
	}

	codes := make(map[uint32]struct{})
	for _, c := range st.Changes {
		summary.ChangesPerModel[c.Model]++
		codes[c.Code] = struct{}{}
	}
	summary.TotalChanges = len(st.Changes)
	summary.UniqueSignals = len(codes)
	if summary.ActiveSamples > 0 {
		summary.MeanChangesActive = float64(summary.TotalChanges) / float64(summary.ActiveSamples)
	}

	return summary
}
