package alloc

import (
	"unsafe"

	"github.com/flier/memcore/internal/debug"
	"github.com/flier/memcore/pkg/xunsafe"
)

// ScratchAllocator is a monotonic bump allocator over a single region of
// size S obtained from the Go heap at construction. There is no per-object
// free: Free is a no-op, and the only way to reclaim the region is to drop
// every reference to the ScratchAllocator itself.
//
// ScratchAllocator does not support Reset in this version; treat that as a
// future extension rather than guessing at semantics this package does not
// specify.
type ScratchAllocator struct {
	_      xunsafe.NoCopy
	region []byte
	cursor int
}

var _ Allocator = (*ScratchAllocator)(nil)

// NewScratchAllocator allocates a region of size bytes from the Go heap and
// returns a ScratchAllocator that bump-allocates out of it.
func NewScratchAllocator(size int) *ScratchAllocator {
	return &ScratchAllocator{region: make([]byte, size)}
}

// Allocate carves a region of usable size at least n out of the remaining
// capacity, advancing the cursor. It returns nil, leaving the cursor
// unchanged, if the request would overflow the region.
func (s *ScratchAllocator) Allocate(n int) unsafe.Pointer {
	if n < 0 {
		return nil
	}

	usable := alignUp(n)

	if s.cursor >= len(s.region) {
		debug.Log(nil, "allocate", "scratch: refused %d (cursor %d/%d)", n, s.cursor, len(s.region))

		return nil
	}

	cursor := xunsafe.ByteAdd[byte](&s.region[0], s.cursor)
	base := alignPointer(unsafe.Pointer(cursor))
	slack := xunsafe.ByteSub((*byte)(base), cursor)
	need := slack + headerSize + usable

	if s.cursor+need > len(s.region) {
		debug.Log(nil, "allocate", "scratch: refused %d (cursor %d/%d)", n, s.cursor, len(s.region))

		return nil
	}

	s.cursor += need

	p := putHeader(base, usable)

	debug.Log(nil, "allocate", "scratch: %p, %d:%d (cursor %d/%d)", p, n, usable, s.cursor, len(s.region))

	return p
}

// Free is a no-op; individual allocations out of a ScratchAllocator are not
// freeable.
func (s *ScratchAllocator) Free(unsafe.Pointer) {}

// Size returns the usable size of the region at p. Size(nil) returns the
// total capacity of the scratch region, exposing it through the Allocator
// contract as spec'd.
func (s *ScratchAllocator) Size(p unsafe.Pointer) int {
	if p == nil {
		return len(s.region)
	}

	return sizeOf(p)
}
