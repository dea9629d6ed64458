// Package value provides literal-or-computed field resolution for settings.
//
// Most descriptive fields on a setting item may be supplied either as a
// plain literal or as a zero-argument computation. A Value carries either
// form and evaluates computations fresh on every Resolve call, so a
// computed field may legitimately vary between reads.
package value

// Value holds either a literal of type T or a zero-argument computation
// producing a T. The zero Value resolves to the zero value of T.
type Value[T any] struct {
	literal  T
	compute  func() T
	computed bool
}

// Lit wraps a literal.
func Lit[T any](v T) Value[T] {
	return Value[T]{literal: v}
}

// Func wraps a zero-argument computation. The computation is never invoked
// at construction time; it runs once per Resolve call.
func Func[T any](fn func() T) Value[T] {
	return Value[T]{compute: fn, computed: true}
}

// Resolve returns the literal, or invokes the computation and returns its
// result. A computed Value with a nil function resolves to the zero T.
func (v Value[T]) Resolve() T {
	if v.computed {
		if v.compute == nil {
			var zero T
			return zero
		}
		return v.compute()
	}
	return v.literal
}

// IsComputed reports whether the Value wraps a computation rather than a
// literal.
func (v Value[T]) IsComputed() bool {
	return v.computed
}
