package trace

// TraceLevel controls the verbosity of waveform tracing.
type TraceLevel string

const (
	// TraceLevelNone disables value recording. Activity is still drained.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelChanges records every value change observed at a sample.
	TraceLevelChanges TraceLevel = "changes"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelChanges: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	// Alignment rounds every model's identifier range up to a multiple of
	// this value (power of two; 0 or 1 means packed).
	Alignment uint32
}

// Enabled reports whether value changes should be recorded.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelChanges
}

// SimulationTrace collects samples and value changes for every traced model
// sharing one trace stream.
type SimulationTrace struct {
	Config  TraceConfig
	Samples []SampleRecord
	Changes []ValueChange
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Samples: make([]SampleRecord, 0),
		Changes: make([]ValueChange, 0),
	}
}

// RecordSample appends a sample record.
func (st *SimulationTrace) RecordSample(record SampleRecord) {
	st.Samples = append(st.Samples, record)
}

// RecordChange appends a value change record.
func (st *SimulationTrace) RecordChange(change ValueChange) {
	st.Changes = append(st.Changes, change)
}
