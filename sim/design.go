package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DesignSpec describes a design hierarchy, loadable from a YAML file.
// It stands in for the field layout a code generator would emit.
type DesignSpec struct {
	Top       string         `yaml:"top"`
	Signals   []SignalSpec   `yaml:"signals"`
	Instances []InstanceSpec `yaml:"instances"`
}

// InstanceSpec describes one sub-instance and its nested sub-instances.
type InstanceSpec struct {
	Name      string         `yaml:"name"`
	Signals   []SignalSpec   `yaml:"signals"`
	Instances []InstanceSpec `yaml:"instances"`
}

// SignalSpec describes one signal. Kind defaults to "wire".
type SignalSpec struct {
	Name  string     `yaml:"name"`
	Width int        `yaml:"width"`
	Kind  SignalKind `yaml:"kind"`
	Reset uint64     `yaml:"reset"`
}

// ValidSignalKinds is the set of recognized signal kinds.
var ValidSignalKinds = map[SignalKind]bool{"": true, KindWire: true, KindReg: true}

// LoadDesign reads and parses a YAML design file.
func LoadDesign(path string) (*DesignSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design: %w", err)
	}
	return ParseDesign(data)
}

// ParseDesign parses YAML design data. Unknown fields are rejected.
func ParseDesign(data []byte) (*DesignSpec, error) {
	var spec DesignSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing design: %w", err)
	}
	return &spec, nil
}

// Validate checks names, widths, kinds and reset values across the hierarchy.
func (d *DesignSpec) Validate() error {
	if d.Top == "" {
		return fmt.Errorf("design top name must be set")
	}
	return validateLevel(d.Top, d.Signals, d.Instances)
}

func validateLevel(path string, signals []SignalSpec, instances []InstanceSpec) error {
	seen := make(map[string]bool)
	for _, s := range signals {
		if s.Name == "" {
			return fmt.Errorf("%s: signal name must be set", path)
		}
		if seen[s.Name] {
			return fmt.Errorf("%s: duplicate name %q", path, s.Name)
		}
		seen[s.Name] = true
		if s.Width < 1 || s.Width > MaxSignalWidth {
			return fmt.Errorf("%s.%s: width must be in 1..%d, got %d", path, s.Name, MaxSignalWidth, s.Width)
		}
		if !ValidSignalKinds[s.Kind] {
			return fmt.Errorf("%s.%s: unknown kind %q", path, s.Name, s.Kind)
		}
		if s.Width < MaxSignalWidth && s.Reset>>uint(s.Width) != 0 {
			return fmt.Errorf("%s.%s: reset value %d does not fit in %d bits", path, s.Name, s.Reset, s.Width)
		}
	}
	for _, inst := range instances {
		if inst.Name == "" {
			return fmt.Errorf("%s: instance name must be set", path)
		}
		if seen[inst.Name] {
			return fmt.Errorf("%s: duplicate name %q", path, inst.Name)
		}
		seen[inst.Name] = true
		if err := validateLevel(path+"."+inst.Name, inst.Signals, inst.Instances); err != nil {
			return err
		}
	}
	return nil
}

// Build creates a fresh instance tree from the design. The root is named
// name, or the design's top name when name is empty. Every call returns an
// independent tree; the design must have passed Validate.
func (d *DesignSpec) Build(name string) *Instance {
	if name == "" {
		name = d.Top
	}
	root := NewInstance(name)
	buildLevel(root, d.Signals, d.Instances)
	return root
}

func buildLevel(in *Instance, signals []SignalSpec, instances []InstanceSpec) {
	for _, s := range signals {
		kind := s.Kind
		if kind == "" {
			kind = KindWire
		}
		reset := s.Reset
		if kind == KindWire {
			reset = 0
		}
		in.AddSignal(s.Name, s.Width, kind, reset)
	}
	for _, inst := range instances {
		buildLevel(in.AddChild(inst.Name), inst.Signals, inst.Instances)
	}
}
