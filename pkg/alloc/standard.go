package alloc

import (
	"unsafe"

	"github.com/flier/memcore/internal/debug"
)

// StandardAllocator delegates to the Go heap. It is the allocator every
// goroutine observes from [Get] when it has pushed nothing of its own, and
// the default inner allocator for [BoundedAllocator] and [TrackAllocator].
//
// A zero StandardAllocator is ready to use.
type StandardAllocator struct{}

var _ Allocator = (*StandardAllocator)(nil)

// Allocate returns a heap region of usable size at least n, rounded up to
// MaxAlign. Freeing it is a no-op: the region is an ordinary Go allocation,
// and Go's own garbage collector reclaims it once the last pointer into it
// goes away, same as any other heap value.
func (*StandardAllocator) Allocate(n int) unsafe.Pointer {
	if n < 0 {
		return nil
	}

	usable := alignUp(n)
	buf := make([]byte, headerSize+usable+int(MaxAlign)-1)
	base := alignPointer(unsafe.Pointer(&buf[0]))
	p := putHeader(base, usable)

	debug.Log(nil, "allocate", "standard: %p, %d:%d", p, n, usable)

	return p
}

// Free is a no-op: see the Allocate doc comment.
func (*StandardAllocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	debug.Log(nil, "free", "standard: %p", p)
}

// Size returns the usable size of the region at p. Size(nil) is
// unspecified for StandardAllocator, per the Allocator contract.
func (*StandardAllocator) Size(p unsafe.Pointer) int {
	if p == nil {
		return 0
	}

	return sizeOf(p)
}
