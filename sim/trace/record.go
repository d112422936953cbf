// Package trace provides waveform-trace recording for one or more simulated models.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// ValueChange captures a single signal value that differs from its last sample.
type ValueChange struct {
	Clock  uint64
	Code   uint32 // trace identifier: the model's base code plus the signal's local index
	Model  string
	Signal string // hierarchical signal name, e.g. "top.cpu.pc"
	Width  int
	Value  uint64
}

// SampleRecord captures one tracer sample of one model.
type SampleRecord struct {
	Clock   uint64
	Model   string
	Active  bool // activity flag consumed at this sample
	Changes int  // number of ValueChange records emitted for this sample
}
