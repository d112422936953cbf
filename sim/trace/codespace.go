package trace

import (
	"fmt"
	"math"
)

// CodeRange is a contiguous block of trace identifiers owned by one model:
// [Base, Base+Span).
type CodeRange struct {
	Owner string
	Base  uint32
	Span  uint32
}

// End returns the first identifier past the range.
func (r CodeRange) End() uint64 {
	return uint64(r.Base) + uint64(r.Span)
}

// Contains reports whether code falls inside the range.
func (r CodeRange) Contains(code uint32) bool {
	return code >= r.Base && uint64(code) < r.End()
}

// Overlaps reports whether two ranges share any identifier.
func (r CodeRange) Overlaps(o CodeRange) bool {
	if r.Span == 0 || o.Span == 0 {
		return false
	}
	return uint64(r.Base) < o.End() && uint64(o.Base) < r.End()
}

// CodeSpace hands out disjoint identifier ranges to models that share one
// trace stream. Ranges are allocated in order and never reused.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type CodeSpace struct {
	alignment uint32
	next      uint64
	ranges    []CodeRange
}

// NewCodeSpace creates an empty CodeSpace. alignment must be 0, 1 or a power of two.
func NewCodeSpace(alignment uint32) (*CodeSpace, error) {
	if alignment == 0 {
		alignment = 1
	}
	if alignment&(alignment-1) != 0 {
		return nil, fmt.Errorf("code space alignment must be a power of two, got %d", alignment)
	}
	return &CodeSpace{alignment: alignment}, nil
}

// Allocate reserves span identifiers for owner and returns the base code.
// The next base is rounded up to the configured alignment, so with an
// alignment of 64 two 10-signal models receive bases 0 and 64.
func (cs *CodeSpace) Allocate(owner string, span uint32) (uint32, error) {
	base := cs.next
	if rem := base % uint64(cs.alignment); rem != 0 {
		base += uint64(cs.alignment) - rem
	}
	end := base + uint64(span)
	if end > math.MaxUint32+1 {
		return 0, fmt.Errorf("code space exhausted: %s needs %d identifiers at base %d", owner, span, base)
	}
	cs.ranges = append(cs.ranges, CodeRange{Owner: owner, Base: uint32(base), Span: span})
	cs.next = end
	return uint32(base), nil
}

// Ranges returns the allocated ranges in allocation order.
func (cs *CodeSpace) Ranges() []CodeRange {
	out := make([]CodeRange, len(cs.ranges))
	copy(out, cs.ranges)
	return out
}

// Owner returns the owner of the range containing code.
func (cs *CodeSpace) Owner(code uint32) (string, bool) {
	for _, r := range cs.ranges {
		if r.Contains(code) {
			return r.Owner, true
		}
	}
	return "", false
}

// FindOverlap returns the first pair of overlapping ranges, if any.
// Ranges produced by Allocate never overlap; this is a consistency check
// for callers that combine ranges from several sources.
func FindOverlap(ranges []CodeRange) (CodeRange, CodeRange, bool) {
	for i := range ranges {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Overlaps(ranges[j]) {
				return ranges[i], ranges[j], true
			}
		}
	}
	return CodeRange{}, CodeRange{}, false
}
