package alloc

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/flier/memcore/pkg/res"
	"github.com/flier/memcore/pkg/xunsafe"
	"github.com/flier/memcore/pkg/xunsafe/layout"
)

// ErrOutOfMemory is the error [TryAllocate] and [TryNew] wrap a nil result
// in. The core [Allocator] contract itself never returns an error — nil is
// the whole signal — this is ergonomic sugar for call sites that already
// speak in [res.Result].
var ErrOutOfMemory = errors.New("alloc: allocator returned nil")

// TryAllocate calls a.Allocate(n) and wraps the result as a [res.Result],
// turning a nil return into [ErrOutOfMemory] instead of requiring the
// caller to check for nil by hand.
func TryAllocate(a Allocator, n int) res.Result[unsafe.Pointer] {
	p := a.Allocate(n)
	if p == nil {
		return res.Err[unsafe.Pointer](fmt.Errorf("%w: %d bytes", ErrOutOfMemory, n))
	}

	return res.Ok(p)
}

// TryNew is [New] wrapped as a [res.Result]: it never panics, reporting
// allocator exhaustion as [ErrOutOfMemory] instead.
func TryNew[T any](value T) res.Result[*T] {
	a := Get()

	size := layout.Size[T]()

	p := a.Allocate(size)
	if p == nil {
		return res.Err[*T](fmt.Errorf("%w: %d bytes", ErrOutOfMemory, size))
	}

	v := xunsafe.Cast[T]((*byte)(p))
	*v = value

	return res.Ok(v)
}
