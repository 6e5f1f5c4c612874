package alloc

import (
	"unsafe"

	"github.com/flier/memcore/internal/debug"
)

// TrackAllocator decorates an inner allocator with live and peak byte
// counters. It refuses nothing itself; every Allocate call that the inner
// allocator grants is counted, and every Free call returns its bytes to the
// live count without ever lowering the peak.
//
// Inner is a type parameter for the same reason as [BoundedAllocator]'s: the
// common case pays no interface-dispatch cost, and the composition shows up
// in the type.
type TrackAllocator[Inner Allocator] struct {
	inner Inner
	used  int
	peak  int
}

var _ Allocator = (*TrackAllocator[*StandardAllocator])(nil)

// NewTrackAllocator constructs a TrackAllocator wrapping a fresh
// [StandardAllocator].
func NewTrackAllocator() *TrackAllocator[*StandardAllocator] {
	return NewTrackAllocatorWith[*StandardAllocator](&StandardAllocator{})
}

// NewTrackAllocatorWith constructs a TrackAllocator forwarding granted
// allocations to inner.
func NewTrackAllocatorWith[Inner Allocator](inner Inner) *TrackAllocator[Inner] {
	return &TrackAllocator[Inner]{inner: inner}
}

// Allocate forwards to the inner allocator and, if granted, folds the
// allocation's usable size into the live and peak counters.
func (t *TrackAllocator[Inner]) Allocate(n int) unsafe.Pointer {
	p := t.inner.Allocate(n)
	if p == nil {
		return nil
	}

	t.used += t.inner.Size(p)
	if t.used > t.peak {
		t.peak = t.used
	}

	debug.Log(nil, "allocate", "track: %p, %d (used %d, peak %d)", p, n, t.used, t.peak)

	return p
}

// Free forwards to the inner allocator and removes the freed region's
// usable size from the live count. The peak count is never lowered.
func (t *TrackAllocator[Inner]) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	used := t.inner.Size(p)
	t.inner.Free(p)
	t.used -= used

	debug.Log(nil, "free", "track: %p (used %d, peak %d)", p, t.used, t.peak)
}

// Size forwards to the inner allocator.
func (t *TrackAllocator[Inner]) Size(p unsafe.Pointer) int {
	return t.inner.Size(p)
}

// GetUsedMemory returns the number of bytes currently live through this
// allocator.
func (t *TrackAllocator[Inner]) GetUsedMemory() int { return t.used }

// GetPeakMemory returns the highest value GetUsedMemory has ever reported
// for this allocator.
func (t *TrackAllocator[Inner]) GetPeakMemory() int { return t.peak }
