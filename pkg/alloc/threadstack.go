package alloc

import (
	"github.com/timandy/routine"

	"github.com/flier/memcore/internal/debug"
)

var tls = routine.NewThreadLocal[[]Allocator]()

// Get returns the allocator at the top of the current goroutine's allocator
// stack, or a process-wide [StandardAllocator] if nothing has been pushed.
// Get never returns nil.
func Get() Allocator {
	stack := tls.Get()
	if len(stack) == 0 {
		return &defaultAllocator
	}

	return stack[len(stack)-1]
}

var defaultAllocator StandardAllocator

// Push sets the allocator that every subsequent [Get] on this goroutine
// returns, until a matching [Pop].
func Push(a Allocator) {
	stack := tls.Get()
	tls.Set(append(stack, a))
}

// Pop removes the allocator most recently pushed on this goroutine. It
// asserts that the stack is non-empty: a Pop without a matching Push is a
// bug at the call site, not a condition this package recovers from.
func Pop() Allocator {
	stack := tls.Get()

	debug.Assert(len(stack) > 0, "alloc: Pop called on an empty allocator stack")

	top := stack[len(stack)-1]
	tls.Set(stack[:len(stack)-1])

	return top
}

// ScopedAllocator pushes a and returns a function that pops it. The
// returned function is meant for defer, and is idempotent: only its first
// call pops, and later calls do nothing. Callers should defer it exactly
// once, immediately after pushing.
//
//	pop := alloc.ScopedAllocator(arena)
//	defer pop()
func ScopedAllocator(a Allocator) func() {
	Push(a)

	popped := false

	return func() {
		if popped {
			return
		}

		popped = true
		Pop()
	}
}

// WithAllocator runs fn with a pushed for the duration of the call,
// guaranteeing the matching pop runs even if fn panics.
func WithAllocator(a Allocator, fn func()) {
	Push(a)
	defer Pop()

	fn()
}
