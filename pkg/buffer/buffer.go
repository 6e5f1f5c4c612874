// Package buffer provides [Buffer], an allocator-aware owning byte buffer:
// unlike a plain slice view into someone else's bytes, a Buffer owns the
// storage it points at and is responsible for freeing it.
package buffer

import (
	"unsafe"

	"github.com/flier/memcore/internal/debug"
	"github.com/flier/memcore/pkg/alloc"
	"github.com/flier/memcore/pkg/xunsafe"
)

// Buffer is an owning byte buffer allocated through an [alloc.Allocator].
// It embeds [alloc.Aware] so a Buffer built via [alloc.NewAware] remembers,
// and reuses, the allocator that backs it.
//
// Go has no copy constructors or destructors, so a plain `:=` assignment of
// a Buffer aliases its storage rather than cloning it; use [Buffer.Clone]
// to make an independent copy, [Buffer.MoveFrom] to transfer ownership
// explicitly, and [Buffer.Close] to release storage once it is no longer
// needed. A Buffer left without a Close leaks its storage only in the
// manual-allocator sense: the backing array is still Go heap memory, and
// the garbage collector reclaims it once nothing references it, same as
// any [alloc.StandardAllocator] allocation.
type Buffer struct {
	alloc.Aware

	data unsafe.Pointer
	size int
}

var _ alloc.Awarer = Buffer{}

// NewBuffer allocates a Buffer of n bytes through the current goroutine's
// allocator (see [alloc.Get]). The returned Buffer's bytes are
// zero-initialized.
func NewBuffer(n int) Buffer {
	return NewBufferWith(alloc.Get(), n)
}

// NewBufferWith allocates a Buffer of n bytes through a, binding the
// Buffer to a for its later Close. If a
// cannot satisfy the request, NewBufferWith leaves the result in the empty
// state (size 0, nil data) rather than panicking: allocation failure is
// ordinary, surfaced control flow here, not a programming error.
func NewBufferWith(a alloc.Allocator, n int) Buffer {
	debug.Assert(n >= 0, "buffer: negative size %d", n)

	var data unsafe.Pointer
	if n > 0 {
		data = a.Allocate(n)
		if data == nil {
			debug.Log(nil, "new", "buffer: allocator refused %d bytes", n)

			n = 0
		} else {
			xunsafe.Clear((*byte)(data), n)
		}
	}

	return Buffer{Aware: alloc.BindAllocator(a), data: data, size: n}
}

// GetSize returns the buffer's length in bytes.
func (b Buffer) GetSize() int { return b.size }

// GetData returns a slice view of the buffer's bytes. The slice is valid
// only as long as the Buffer itself has not been [Buffer.Close]d.
func (b Buffer) GetData() []byte {
	if b.size == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(b.data), b.size)
}

// At returns a pointer to the byte at index i. It panics if i is out of
// bounds, the same as an out-of-bounds slice index would.
func (b Buffer) At(i int) *byte {
	xunsafe.BoundsCheck(i, b.size)

	return xunsafe.ByteAdd[byte]((*byte)(b.data), i)
}

// GetByte returns the byte at index i. It panics if i is out of bounds.
func (b Buffer) GetByte(i int) byte {
	xunsafe.BoundsCheck(i, b.size)

	return xunsafe.LoadSlice(b.GetData(), i)
}

// SetByte stores v at index i. It panics if i is out of bounds.
func (b Buffer) SetByte(i int, v byte) {
	xunsafe.BoundsCheck(i, b.size)
	xunsafe.Store((*byte)(b.data), i, v)
}

// String reinterprets the buffer's bytes as a string without copying them.
// The returned string aliases the buffer's storage: it is only valid while
// the buffer is live and must not be read after a later write, [Buffer.Close]
// or reuse through [alloc.Delete].
func (b Buffer) String() string {
	return xunsafe.SliceToString(b.GetData())
}

// NewBufferFromString allocates a Buffer through the current goroutine's
// allocator and copies s's bytes into it. The copy reads from a zero-copy
// view of s's backing array rather than first converting s to a []byte.
func NewBufferFromString(s string) Buffer {
	b := NewBuffer(len(s))

	copy(b.GetData(), xunsafe.StringToSlice[[]byte](s))

	return b
}

// Clone returns an independent copy of b, holding a byte-for-byte copy of
// its contents. The copy is allocated through the current goroutine's
// allocator (see [alloc.Get]), not b's own bound allocator: the copy
// belongs to whatever scope calls Clone, which need not be the scope that
// originally built b.
func (b Buffer) Clone() Buffer {
	clone := NewBuffer(b.size)
	if b.size > 0 {
		xunsafe.Copy((*byte)(clone.data), (*byte)(b.data), b.size)
	}

	return clone
}

// MoveFrom transfers ownership of src's storage into b, leaving src empty.
// It is the explicit stand-in for a move constructor: after MoveFrom, src
// no longer refers to any storage and must not be used except to be
// discarded or reassigned.
func (b *Buffer) MoveFrom(src *Buffer) {
	b.Aware = src.Aware
	b.data = src.data
	b.size = src.size

	src.data = nil
	src.size = 0
}

// Close releases b's storage through its bound allocator. Closing a Buffer
// that was never allocated, or has already been closed, is a no-op.
func (b *Buffer) Close() error {
	if b.data == nil {
		return nil
	}

	b.GetAllocator().Free(b.data)
	b.data = nil
	b.size = 0

	return nil
}
