package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestTree builds top{clk, rst, cpu{pc, alu{out}}, mem{data, addr}}: 6 signals.
func newTestTree(name string) *Instance {
	root := NewInstance(name)
	root.AddSignal("clk", 1, KindWire, 0)
	root.AddSignal("rst", 1, KindWire, 0)
	cpu := root.AddChild("cpu")
	cpu.AddSignal("pc", 16, KindReg, 0x100)
	cpu.AddChild("alu").AddSignal("out", 32, KindWire, 0)
	mem := root.AddChild("mem")
	mem.AddSignal("data", 8, KindReg, 0)
	mem.AddSignal("addr", 10, KindReg, 0)
	return root
}

// newTestModel builds a model on a fresh trace-enabled context.
func newTestModel(t *testing.T, name string) *Model {
	t.Helper()
	ctx := NewContext(ContextConfig{TraceEnabled: true})
	m, err := NewModel(ctx, name, WithDesign(newTestTree(name)))
	require.NoError(t, err)
	return m
}
