package alloc

import (
	"unsafe"

	"github.com/flier/memcore/internal/debug"
	"github.com/flier/memcore/pkg/xunsafe"
)

// StackAllocator is a monotonic bump allocator over an inline region, sized
// at compile time by its Region type parameter rather than by a runtime
// argument. Go has no integer-valued generic parameters, so a declaration
// such as C++'s StackAllocator<1000> becomes StackAllocator[[1000]byte]:
// Region is any array-shaped type, and its Sizeof is the allocator's total
// capacity.
//
// The region lives inline in the StackAllocator value itself, so a
// StackAllocator is best placed once (on the stack of its owning goroutine,
// or behind a single pointer) and not copied; copying it duplicates the
// whole region and invalidates every cursor computed from the original's
// address, so it embeds [xunsafe.NoCopy].
type StackAllocator[Region any] struct {
	_      xunsafe.NoCopy
	region Region
	cursor int
}

var _ Allocator = (*StackAllocator[[0]byte])(nil)

// NewStackAllocator returns a ready-to-use StackAllocator over a
// zero-valued Region.
func NewStackAllocator[Region any]() *StackAllocator[Region] {
	return &StackAllocator[Region]{}
}

// Capacity returns the total size of the inline region, i.e. Sizeof(Region).
func (s *StackAllocator[Region]) Capacity() int {
	return int(unsafe.Sizeof(s.region))
}

// Allocate carves a region of usable size at least n out of the inline
// region, advancing the cursor. It returns nil, leaving the cursor
// unchanged, if the request would overflow the region.
func (s *StackAllocator[Region]) Allocate(n int) unsafe.Pointer {
	if n < 0 {
		return nil
	}

	capacity := s.Capacity()
	if s.cursor >= capacity {
		debug.Log(nil, "allocate", "stack: refused %d (cursor %d/%d)", n, s.cursor, capacity)

		return nil
	}

	usable := alignUp(n)
	regionStart := xunsafe.Cast[byte](&s.region)
	cursor := xunsafe.ByteAdd[byte](regionStart, s.cursor)
	base := alignPointer(unsafe.Pointer(cursor))
	slack := xunsafe.ByteSub((*byte)(base), cursor)
	need := slack + headerSize + usable

	if s.cursor+need > capacity {
		debug.Log(nil, "allocate", "stack: refused %d (cursor %d/%d)", n, s.cursor, capacity)

		return nil
	}

	s.cursor += need

	p := putHeader(base, usable)

	debug.Log(nil, "allocate", "stack: %p, %d:%d (cursor %d/%d)", p, n, usable, s.cursor, capacity)

	return p
}

// Free is a no-op; individual allocations out of a StackAllocator are not
// freeable.
func (s *StackAllocator[Region]) Free(unsafe.Pointer) {}

// Size returns the usable size of the region at p. Size(nil) returns the
// allocator's total capacity.
func (s *StackAllocator[Region]) Size(p unsafe.Pointer) int {
	if p == nil {
		return s.Capacity()
	}

	return sizeOf(p)
}
