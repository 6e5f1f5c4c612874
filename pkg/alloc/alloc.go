// Package alloc provides a pluggable memory-allocation core: a polymorphic
// allocator contract, a handful of concrete allocators backed by different
// strategies, a per-goroutine allocator stack that lets any scope redirect
// allocations without threading a parameter through every call site, and an
// allocator-aware construction layer built on top.
//
// # Allocators
//
// [Allocator] is the capability set every backend implements:
// [StandardAllocator] delegates to the Go heap, [BoundedAllocator] wraps an
// inner allocator behind a fixed byte budget, [ScratchAllocator] and
// [StackAllocator] are monotonic bump allocators over a heap-backed and an
// inline region respectively, and [TrackAllocator] decorates an inner
// allocator with live/peak byte counters.
//
// # Scoping
//
// [Get] returns the allocator at the top of the current goroutine's
// allocator stack (or the process-wide [StandardAllocator] if the stack is
// empty). [ScopedAllocator] pushes an allocator and returns a function that
// pops it; [WithAllocator] is the callback-taking equivalent.
//
// # Allocator-aware construction
//
// [New] allocates and places a plain value via the current allocator.
// [NewAware] does the same for a type that embeds [Aware], threading the
// active allocator into the constructor so the type's own allocations (and
// its captured [Aware] field) use the same allocator for life. [Delete]
// frees either kind of value through the right allocator.
package alloc

import (
	"unsafe"

	"github.com/flier/memcore/internal/debug"
	"github.com/flier/memcore/pkg/xunsafe"
	"github.com/flier/memcore/pkg/xunsafe/layout"
)

// Allocator is the polymorphic contract every backend implements.
//
// Implementations are not required to be internally thread-safe: callers
// that share one Allocator instance across goroutines are responsible for
// serializing their own calls into it.
type Allocator interface {
	// Allocate returns an address to a region of usable size at least n,
	// aligned to at least [MaxAlign], or nil if the request cannot be
	// satisfied.
	Allocate(n int) unsafe.Pointer

	// Free releases a region previously returned by this same allocator.
	// Freeing nil is a no-op. Freeing anything else — a region from a
	// different allocator, a region already freed, or a non-boundary
	// address — is undefined behavior this method is not required to
	// detect.
	Free(p unsafe.Pointer)

	// Size returns the usable size of the region at p. Passing nil is
	// defined only for allocators that expose a notion of total capacity
	// (see [ScratchAllocator.Size], [StackAllocator.Size]); it is
	// unspecified for block allocators such as [StandardAllocator].
	Size(p unsafe.Pointer) int
}

// MaxAlign is the alignment every allocator guarantees its returned
// addresses satisfy: the platform's maximum scalar alignment, i.e. the
// alignment of the widest scalar Go exposes without special handling.
const MaxAlign = unsafe.Alignof(struct {
	_ complex128
}{})

// header precedes every allocation this package hands out. It is how
// Size(p) answers in O(1) regardless of which concrete allocator produced
// p: Standard and Bounded allocate it inline with the data, Scratch and
// Stack carve it out of their bump region alongside the data.
type header struct {
	size uintptr
}

// headerSize is the header's footprint once rounded up to MaxAlign, so that
// the data immediately following it is itself MaxAlign-aligned provided the
// base address was.
var headerSize = layout.RoundUp(int(unsafe.Sizeof(header{})), int(MaxAlign))

// putHeader writes a header for a data region of usable size n at base and
// returns the address of the data, immediately after the header.
func putHeader(base unsafe.Pointer, n int) unsafe.Pointer {
	xunsafe.ByteStore((*byte)(base), 0, header{size: uintptr(n)})

	return unsafe.Pointer(xunsafe.ByteAdd[byte]((*byte)(base), headerSize))
}

// sizeOf is the usable-size lookup shared by every allocator in this
// package: the size recorded in the header immediately preceding p.
func sizeOf(p unsafe.Pointer) int {
	debug.Assert(p != nil, "sizeOf called with a nil address")

	return int(xunsafe.ByteLoad[header]((*byte)(p), -headerSize).size)
}

// alignUp rounds n up to MaxAlign, the granularity every concrete allocator
// in this package carves its regions at.
func alignUp(n int) int {
	return layout.RoundUp(n, int(MaxAlign))
}

// alignPointer rounds p up to the next address that is a multiple of
// MaxAlign. Go's runtime happens to already align heap objects this
// generously in practice, but nothing in the language spec promises it, so
// every bump allocator in this package aligns explicitly rather than assume
// it.
func alignPointer(p unsafe.Pointer) unsafe.Pointer {
	addr := uintptr(p)
	aligned := (addr + uintptr(MaxAlign) - 1) &^ (uintptr(MaxAlign) - 1)

	return unsafe.Pointer(aligned)
}
