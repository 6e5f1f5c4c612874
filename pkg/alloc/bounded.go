package alloc

import (
	"unsafe"

	"github.com/flier/memcore/internal/debug"
)

// BoundedAllocator wraps an inner allocator behind a fixed byte budget. It
// refuses any request that would push its live-byte count past its
// capacity; it is deliberately not a slab or buddy allocator, so
// sub-capacity fragmentation in the inner allocator is invisible here — the
// only failure mode this type adds is exceeding capacity.
//
// Inner is a type parameter rather than an interface field so that the
// common case (wrapping [StandardAllocator]) pays no indirection cost and
// the composition is visible in the type, mirroring the way
// [TrackAllocator] composes.
//
// The budget is tracked against the size requested at each Allocate call,
// not the (possibly larger, alignment-rounded) usable size the inner
// allocator reports: charging the rounded-up size against the budget would
// let U drift past C by the padding amount on every call, silently
// violating the capacity invariant. sizes records the requested size for
// each outstanding grant so Free can return exactly what Allocate charged.
type BoundedAllocator[Inner Allocator] struct {
	inner    Inner
	capacity int
	used     int
	sizes    map[unsafe.Pointer]int
}

var _ Allocator = (*BoundedAllocator[*StandardAllocator])(nil)

// NewBoundedAllocator constructs a BoundedAllocator with the given capacity
// backed by a fresh [StandardAllocator].
func NewBoundedAllocator(capacity int) *BoundedAllocator[*StandardAllocator] {
	return NewBoundedAllocatorWith(capacity, &StandardAllocator{})
}

// NewBoundedAllocatorWith constructs a BoundedAllocator with the given
// capacity, forwarding granted allocations to inner.
func NewBoundedAllocatorWith[Inner Allocator](capacity int, inner Inner) *BoundedAllocator[Inner] {
	return &BoundedAllocator[Inner]{inner: inner, capacity: capacity}
}

// Capacity returns the byte budget this allocator was constructed with.
func (b *BoundedAllocator[Inner]) Capacity() int { return b.capacity }

// Used returns the allocator's current live-byte count.
func (b *BoundedAllocator[Inner]) Used() int { return b.used }

// Allocate forwards to the inner allocator only if doing so cannot push
// Used() past Capacity(); otherwise it returns nil without touching the
// inner allocator at all.
func (b *BoundedAllocator[Inner]) Allocate(n int) unsafe.Pointer {
	if n < 0 || b.used+n > b.capacity {
		debug.Log(nil, "allocate", "bounded: refused %v", debug.Dict(nil, "n", n, "used", b.used, "capacity", b.capacity))

		return nil
	}

	p := b.inner.Allocate(n)
	if p == nil {
		return nil
	}

	if b.sizes == nil {
		b.sizes = make(map[unsafe.Pointer]int)
	}

	b.sizes[p] = n
	b.used += n

	debug.Log(nil, "allocate", "bounded: %p, %d (used %d/%d)", p, n, b.used, b.capacity)

	return p
}

// Free forwards to the inner allocator and returns the size charged at
// Allocate to the budget.
func (b *BoundedAllocator[Inner]) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	if n, ok := b.sizes[p]; ok {
		delete(b.sizes, p)
		b.used -= n
	}

	b.inner.Free(p)

	debug.Log(nil, "free", "bounded: %p (used %d/%d)", p, b.used, b.capacity)
}

// Size forwards to the inner allocator.
func (b *BoundedAllocator[Inner]) Size(p unsafe.Pointer) int {
	return b.inner.Size(p)
}
