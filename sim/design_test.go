package sim

import (
	"testing"

	"github.com/inference-sim/rtlsim/sim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDesignYAML = `
top: soc
signals:
  - {name: clk, width: 1}
  - {name: count, width: 8, kind: reg, reset: 3}
instances:
  - name: cpu
    signals:
      - {name: pc, width: 32, kind: reg, reset: 256}
    instances:
      - name: alu
        signals:
          - {name: out, width: 32, kind: wire}
  - name: uart
    signals:
      - {name: tx, width: 1}
`

func TestLoadDesign_ValidYAML(t *testing.T) {
	path := testutil.WriteTempYAML(t, testDesignYAML)
	spec, err := LoadDesign(path)
	require.NoError(t, err)
	require.NoError(t, spec.Validate())

	assert.Equal(t, "soc", spec.Top)
	assert.Len(t, spec.Signals, 2)
	assert.Equal(t, KindReg, spec.Signals[1].Kind)
	assert.Equal(t, uint64(3), spec.Signals[1].Reset)
	require.Len(t, spec.Instances, 2)
	assert.Equal(t, "alu", spec.Instances[0].Instances[0].Name)
}

func TestLoadDesign_MissingFile_Error(t *testing.T) {
	_, err := LoadDesign("/nonexistent/design.yaml")
	assert.Error(t, err)
}

func TestParseDesign_UnknownField_Error(t *testing.T) {
	_, err := ParseDesign([]byte("top: soc\nsignalz: []\n"))
	assert.Error(t, err)
}

func TestDesignSpec_Build_TreeMatchesSpec(t *testing.T) {
	spec, err := ParseDesign([]byte(testDesignYAML))
	require.NoError(t, err)

	root := spec.Build("")
	assert.Equal(t, "soc", root.Name())
	assert.Equal(t, 5, root.SignalCount())

	count, ok := root.Lookup("count")
	require.True(t, ok)
	assert.Equal(t, uint64(3), count.Value(), "reg starts at reset")

	clk, _ := root.Lookup("clk")
	assert.Equal(t, KindWire, clk.Kind(), "kind defaults to wire")

	pc, ok := root.Lookup("cpu.pc")
	require.True(t, ok)
	assert.Equal(t, "soc.cpu.pc", pc.HierName())
	assert.Equal(t, uint64(256), pc.Value())
}

func TestDesignSpec_Build_IndependentTreesWithOverrideName(t *testing.T) {
	spec, err := ParseDesign([]byte(testDesignYAML))
	require.NoError(t, err)

	a := spec.Build("m0")
	b := spec.Build("m1")
	sa, _ := a.Lookup("count")
	sb, _ := b.Lookup("count")
	sa.Set(9)

	assert.Equal(t, "m0.count", sa.HierName())
	assert.Equal(t, uint64(3), sb.Value(), "trees must not share storage")
}

func TestDesignSpec_Validate_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec DesignSpec
	}{
		{"missing top", DesignSpec{}},
		{"unnamed signal", DesignSpec{Top: "t", Signals: []SignalSpec{{Width: 1}}}},
		{"zero width", DesignSpec{Top: "t", Signals: []SignalSpec{{Name: "a", Width: 0}}}},
		{"too wide", DesignSpec{Top: "t", Signals: []SignalSpec{{Name: "a", Width: 65}}}},
		{"bad kind", DesignSpec{Top: "t", Signals: []SignalSpec{{Name: "a", Width: 1, Kind: "latch"}}}},
		{"reset overflow", DesignSpec{Top: "t", Signals: []SignalSpec{{Name: "a", Width: 4, Kind: KindReg, Reset: 16}}}},
		{"duplicate signal", DesignSpec{Top: "t", Signals: []SignalSpec{{Name: "a", Width: 1}, {Name: "a", Width: 1}}}},
		{"signal and instance share name", DesignSpec{Top: "t",
			Signals:   []SignalSpec{{Name: "a", Width: 1}},
			Instances: []InstanceSpec{{Name: "a"}}}},
		{"unnamed instance", DesignSpec{Top: "t", Instances: []InstanceSpec{{}}}},
		{"nested error", DesignSpec{Top: "t", Instances: []InstanceSpec{{Name: "cpu",
			Signals: []SignalSpec{{Name: "pc", Width: 99}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.spec.Validate())
		})
	}
}

func TestDesignSpec_Validate_FullWidthResetAccepted(t *testing.T) {
	spec := DesignSpec{Top: "t", Signals: []SignalSpec{{Name: "a", Width: 64, Kind: KindReg, Reset: ^uint64(0)}}}
	assert.NoError(t, spec.Validate())
}
