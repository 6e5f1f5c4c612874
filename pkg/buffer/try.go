//go:build go1.23

package buffer

import (
	"fmt"
	"unsafe"

	"github.com/flier/memcore/internal/debug"
	"github.com/flier/memcore/pkg/alloc"
	"github.com/flier/memcore/pkg/res"
	"github.com/flier/memcore/pkg/xunsafe"
)

// TryNewBufferWith is [NewBufferWith] wrapped as a [res.Result]: instead of
// silently falling back to the empty buffer, it reports allocator
// exhaustion as [alloc.ErrOutOfMemory] to a caller that already speaks in
// Result.
func TryNewBufferWith(a alloc.Allocator, n int) res.Result[Buffer] {
	debug.Assert(n >= 0, "buffer: negative size %d", n)

	r := res.AndThen(alloc.TryAllocate(a, n), func(p unsafe.Pointer) res.Result[Buffer] {
		if n > 0 {
			xunsafe.Clear((*byte)(p), n)
		}

		return res.Ok(Buffer{Aware: alloc.BindAllocator(a), data: p, size: n})
	})

	return r.InspectErr(func(err error) {
		debug.Log(nil, "new", "buffer: %v", err)
	})
}

// TryNewBuffer is [TryNewBufferWith] through the current goroutine's
// allocator (see [alloc.Get]).
func TryNewBuffer(n int) res.Result[Buffer] {
	return TryNewBufferWith(alloc.Get(), n)
}

// TryNewBufferFromString is [NewBufferFromString] wrapped as a Result.
func TryNewBufferFromString(s string) res.Result[Buffer] {
	return res.Map(TryNewBuffer(len(s)), func(b Buffer) Buffer {
		copy(b.GetData(), xunsafe.StringToSlice[[]byte](s))

		return b
	})
}

// TryClone is [Buffer.Clone] through a, reporting the clone's allocation
// failure rather than panicking partway through a copy that can never
// land.
func TryClone(a alloc.Allocator, b Buffer) res.Result[Buffer] {
	return TryNewBufferWith(a, b.size).
		MapErr(func(err error) error {
			return fmt.Errorf("clone: %w", err)
		}).
		Inspect(func(clone Buffer) {
			if b.size > 0 {
				xunsafe.Copy((*byte)(clone.data), (*byte)(b.data), b.size)
			}
		})
}

// TryNewBufferEither tries n bytes through primary first, falling back to
// secondary if primary cannot satisfy the request.
func TryNewBufferEither(primary, secondary alloc.Allocator, n int) res.Result[Buffer] {
	return TryNewBufferWith(primary, n).Or(TryNewBufferWith(secondary, n))
}

// TryNewBufferOrElse tries n bytes through a; if that fails, it calls
// onError with the failure and retries through whatever Allocator that
// returns.
func TryNewBufferOrElse(a alloc.Allocator, n int, onError func(error) alloc.Allocator) res.Result[Buffer] {
	return TryNewBufferWith(a, n).OrElse(func(err error) res.Result[Buffer] {
		return TryNewBufferWith(onError(err), n)
	})
}

// TryNewBuffers allocates one Buffer per requested size through a, stopping
// at the first allocation failure. On success it returns every buffer in
// order; on failure it returns nil and the triggering error. Buffers that
// were granted before the failing request are not individually returned,
// so a failure here leaks them in the manual-allocator sense described by
// [Buffer] — callers that cannot tolerate that should size their requests,
// or their allocator's budget, so a batch either fully succeeds or fails on
// its first request.
func TryNewBuffers(a alloc.Allocator, sizes []int) ([]Buffer, error) {
	return res.Collect(func(yield func(res.Result[Buffer]) bool) {
		for _, n := range sizes {
			if !yield(TryNewBufferWith(a, n)) {
				return
			}
		}
	})
}

// TryGetByte is [Buffer.GetByte] wrapped as a Result instead of a panic.
func (b Buffer) TryGetByte(i int) res.Result[byte] {
	if i < 0 || i >= b.size {
		return res.Err[byte](fmt.Errorf("buffer: index %d out of range [0,%d)", i, b.size))
	}

	return res.Ok(b.GetByte(i))
}

// GetByteOr returns the byte at index i, or def if i is out of bounds.
func (b Buffer) GetByteOr(i int, def byte) byte {
	return res.MapOr(b.TryGetByte(i), def, func(v byte) byte { return v })
}
