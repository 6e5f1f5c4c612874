package alloc

import (
	"unsafe"

	"github.com/flier/memcore/pkg/xunsafe"
	"github.com/flier/memcore/pkg/xunsafe/layout"
)

// Awarer is implemented by any type that remembers which allocator built it.
// Embedding [Aware] satisfies it.
type Awarer interface {
	GetAllocator() Allocator
}

// Aware is an opt-in base for types that need to remember, and reuse, the
// allocator that built them. A type embeds Aware, is constructed through
// [NewAware], and from then on its own methods can call GetAllocator to
// allocate through the same allocator its own storage came from.
type Aware struct {
	alloc Allocator
}

// BindAllocator returns an Aware bound to a. It is exported so types that
// embed Aware can construct it explicitly, outside of [NewAware], when they
// build their own zero value by hand.
func BindAllocator(a Allocator) Aware {
	return Aware{alloc: a}
}

// GetAllocator returns the allocator this value was bound to.
func (a Aware) GetAllocator() Allocator {
	return a.alloc
}

// New allocates storage for a T through the current goroutine's allocator
// (see [Get]), copies value into it, and returns a pointer to it. It does
// not thread the allocator into T; use [NewAware] for a type that needs to
// remember it. New returns nil, without copying value anywhere, if the
// allocator cannot satisfy the request — the same nil-on-failure contract
// [Allocator.Allocate] itself gives.
func New[T any](value T) *T {
	p := allocateZero[T](Get())
	if p == nil {
		return nil
	}

	*p = value

	return p
}

// NewAware allocates storage for a T through the current goroutine's
// allocator, then calls build with that same allocator so the value it
// returns — typically one embedding [Aware], bound via [BindAllocator] — is
// wired to use it for its own subsequent allocations too. NewAware returns
// nil without calling build if the allocator cannot satisfy the request.
func NewAware[T Awarer](build func(a Allocator) T) *T {
	a := Get()

	p := allocateZero[T](a)
	if p == nil {
		return nil
	}

	*p = build(a)

	return p
}

// Delete frees the storage behind p, which must have come from [New] or
// [NewAware]. If the pointed-to value is [Awarer], Delete frees it through
// the allocator it remembers; otherwise it frees through the current
// goroutine's allocator.
func Delete[T any](p *T) {
	if p == nil {
		return
	}

	var a Allocator = Get()
	if aware, ok := any(*p).(Awarer); ok {
		a = aware.GetAllocator()
	}

	a.Free(unsafe.Pointer(p))
}

// allocateZero returns storage sized for a T, or nil if a cannot satisfy
// the request.
func allocateZero[T any](a Allocator) *T {
	size := layout.Size[T]()

	p := a.Allocate(size)
	if p == nil {
		return nil
	}

	return xunsafe.Cast[T]((*byte)(p))
}
