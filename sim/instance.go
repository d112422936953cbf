package sim

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SignalKind distinguishes combinational nets from state-holding registers.
type SignalKind string

const (
	KindWire SignalKind = "wire"
	KindReg  SignalKind = "reg"
)

// MaxSignalWidth is the widest signal an Instance can store.
const MaxSignalWidth = 64

// Signal is one named value in the design: a wire or a register of 1..64 bits.
// The stored value is always masked to Width bits.
type Signal struct {
	name     string
	hierName string
	width    int
	kind     SignalKind
	reset    uint64
	value    uint64
}

// Name returns the local signal name.
func (s *Signal) Name() string { return s.name }

// HierName returns the dotted hierarchical name (e.g., "top.cpu.pc").
func (s *Signal) HierName() string { return s.hierName }

// Width returns the width in bits.
func (s *Signal) Width() int { return s.width }

// Kind returns wire or reg.
func (s *Signal) Kind() SignalKind { return s.kind }

// Reset returns the register reset value (0 for wires).
func (s *Signal) Reset() uint64 { return s.reset }

// Value returns the current value.
func (s *Signal) Value() uint64 { return s.value }

// Mask returns the bit mask for the signal width.
func (s *Signal) Mask() uint64 {
	if s.width >= MaxSignalWidth {
		return ^uint64(0)
	}
	return (uint64(1) << uint(s.width)) - 1
}

// Set stores v masked to the signal width and reports whether the stored value changed.
func (s *Signal) Set(v uint64) bool {
	v &= s.Mask()
	if v == s.value {
		return false
	}
	s.value = v
	return true
}

// Instance is one level of the design hierarchy. It owns its signals and
// its child instances; the root Instance of a model is owned by the
// model's StateContainer.
//
// Thread-safety: NOT thread-safe.
type Instance struct {
	name     string
	hierName string
	signals  []*Signal
	children []*Instance
	byName   map[string]*Instance
	tree     *treeState
}

// treeState is shared by every Instance of one hierarchy.
type treeState struct {
	owned  bool
	owner  string // display name of the adopting container
	frozen bool   // set once trace identifiers are assigned; the shape may no longer change
}

// NewInstance creates a root instance; its hierarchical name equals name.
func NewInstance(name string) *Instance {
	return &Instance{
		name:     name,
		hierName: name,
		byName:   make(map[string]*Instance),
		tree:     &treeState{},
	}
}

// Name returns the hierarchical name. For a root instance this is the model's display name.
func (in *Instance) Name() string { return in.hierName }

// LocalName returns the name within the parent instance.
func (in *Instance) LocalName() string { return in.name }

// Signals returns the instance's own signals in declaration order.
func (in *Instance) Signals() []*Signal { return in.signals }

// Children returns the child instances in insertion order.
func (in *Instance) Children() []*Instance { return in.children }

// Owned reports whether a StateContainer has adopted this hierarchy.
func (in *Instance) Owned() bool { return in.tree.owned }

// Frozen reports whether the hierarchy's shape is fixed. A tree is frozen
// once its model has a trace base code, since signal codes depend on it.
func (in *Instance) Frozen() bool { return in.tree.frozen }

func (in *Instance) mustBeMutable(op, name string) {
	if in.tree.frozen {
		logrus.Panicf("Instance.%s: %s.%s added after trace identifiers were assigned", op, in.hierName, name)
	}
}

// adopt records that the container named owner owns this hierarchy.
// A hierarchy may be adopted once.
func (in *Instance) adopt(owner string) {
	if in.tree.owned {
		logrus.Panicf("Instance %q is already owned by %q, refusing adoption by %q", in.hierName, in.tree.owner, owner)
	}
	in.tree.owned = true
	in.tree.owner = owner
}

func (in *Instance) freeze() {
	in.tree.frozen = true
}

// AddSignal declares a signal on this instance. Panics on an invalid width,
// a duplicate name or a frozen tree; designs loaded from YAML are validated
// before Build.
func (in *Instance) AddSignal(name string, width int, kind SignalKind, reset uint64) *Signal {
	in.mustBeMutable("AddSignal", name)
	if width < 1 || width > MaxSignalWidth {
		logrus.Panicf("Instance.AddSignal: %s.%s width %d outside 1..%d", in.hierName, name, width, MaxSignalWidth)
	}
	if _, ok := in.signal(name); ok {
		logrus.Panicf("Instance.AddSignal: duplicate signal %s.%s", in.hierName, name)
	}
	s := &Signal{
		name:     name,
		hierName: in.hierName + "." + name,
		width:    width,
		kind:     kind,
	}
	s.reset = reset & s.Mask()
	s.value = s.reset
	in.signals = append(in.signals, s)
	return s
}

// AddChild creates a named sub-instance. Panics on a duplicate name or a frozen tree.
func (in *Instance) AddChild(name string) *Instance {
	in.mustBeMutable("AddChild", name)
	if _, ok := in.byName[name]; ok {
		logrus.Panicf("Instance.AddChild: duplicate instance %s.%s", in.hierName, name)
	}
	child := &Instance{
		name:     name,
		hierName: in.hierName + "." + name,
		byName:   make(map[string]*Instance),
		tree:     in.tree,
	}
	in.children = append(in.children, child)
	in.byName[name] = child
	return child
}

// Child returns the sub-instance with the given local name.
func (in *Instance) Child(name string) (*Instance, bool) {
	c, ok := in.byName[name]
	return c, ok
}

func (in *Instance) signal(name string) (*Signal, bool) {
	for _, s := range in.signals {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Lookup resolves a dotted path relative to this instance, e.g. "cpu.alu.out".
func (in *Instance) Lookup(path string) (*Signal, bool) {
	parts := strings.Split(path, ".")
	cur := in
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur.byName[p]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur.signal(parts[len(parts)-1])
}

// Walk visits every signal depth-first: an instance's own signals first,
// then each child in insertion order. The visit index is the signal's
// local index, stable for the instance's lifetime.
func (in *Instance) Walk(fn func(index int, sig *Signal)) {
	idx := 0
	in.walk(&idx, fn)
}

func (in *Instance) walk(idx *int, fn func(int, *Signal)) {
	for _, s := range in.signals {
		fn(*idx, s)
		*idx++
	}
	for _, c := range in.children {
		c.walk(idx, fn)
	}
}

// SignalCount returns the number of signals in this instance and all descendants.
func (in *Instance) SignalCount() int {
	n := len(in.signals)
	for _, c := range in.children {
		n += c.SignalCount()
	}
	return n
}

// release tears the subtree down bottom-up.
func (in *Instance) release() {
	for _, c := range in.children {
		c.release()
	}
	in.children = nil
	in.byName = nil
	in.signals = nil
}
