// Package outcome provides [Outcome], a fallible result carrier: a value of
// type R on success, or a value of type E describing the failure.
//
// Outcome is shaped like an Either, narrowed to the fallible-call case and
// renamed to match it: R is the result of a successful call, E is whatever
// a given component uses to describe failure (an error, a status code, a
// reason string), and unlike a symmetric Either there is no ambiguity
// about which side means failure.
package outcome

import "fmt"

// Outcome holds either a result of type R or an error of type E. The
// discriminant is an explicit ok flag rather than a nil-vs-non-nil pointer:
// a zero-valued Outcome{} must read as an error state with a
// value-initialized E, and a flag defaulting to false is what makes that
// true for free, with no constructor call required.
type Outcome[R, E any] struct {
	result R
	err    E
	ok     bool
}

// Of constructs a successful Outcome holding result.
func Of[R, E any](result R) Outcome[R, E] {
	return Outcome[R, E]{result: result, ok: true}
}

// OfError constructs a failed Outcome holding err.
func OfError[R, E any](err E) Outcome[R, E] {
	return Outcome[R, E]{err: err}
}

func (o Outcome[R, E]) String() string {
	if o.HasError() {
		return fmt.Sprintf("Error(%v)", o.err)
	}

	return fmt.Sprintf("Result(%v)", o.result)
}

// HasError reports whether this Outcome holds an error rather than a
// result. A zero-valued Outcome{} has HasError() == true, matching the
// "default construction yields an error state" contract.
func (o Outcome[R, E]) HasError() bool { return !o.ok }

// GetResult returns the held result. It panics if this Outcome holds an
// error instead; callers that have not already checked [Outcome.HasError]
// should use [Outcome.GetResultOr] or [Outcome.GetResultOrElse].
func (o Outcome[R, E]) GetResult() R {
	if o.HasError() {
		panic(fmt.Sprintf("outcome: GetResult called on an error outcome: %v", o.err))
	}

	return o.result
}

// GetResultOr returns the held result, or def if this Outcome holds an
// error.
func (o Outcome[R, E]) GetResultOr(def R) R {
	if o.HasError() {
		return def
	}

	return o.result
}

// GetResultOrElse returns the held result, or the result of calling f if
// this Outcome holds an error.
func (o Outcome[R, E]) GetResultOrElse(f func(E) R) R {
	if o.HasError() {
		return f(o.err)
	}

	return o.result
}

// GetError returns the held error, or the zero value of E if this Outcome
// holds a result.
func (o Outcome[R, E]) GetError() E {
	if o.HasError() {
		return o.err
	}

	var zero E

	return zero
}
