package calendar

import "slices"

// Maybe holds an optional value. The zero value is None.
type Maybe[T comparable] struct {
	value T
	ok    bool
}

// Some wraps v as a present value.
func Some[T comparable](v T) Maybe[T] { return Maybe[T]{value: v, ok: true} }

// None returns an absent value.
func None[T comparable]() Maybe[T] { return Maybe[T]{} }

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) { return m.value, m.ok }

// IsSome reports whether a value is present.
func (m Maybe[T]) IsSome() bool { return m.ok }

// Equal reports whether both are absent, or both present and equal.
func (m Maybe[T]) Equal(o Maybe[T]) bool {
	if m.ok != o.ok {
		return false
	}
	return !m.ok || m.value == o.value
}

// orFallback returns preferred when it is one of options, otherwise the
// last option, otherwise None.
func orFallback[T comparable](options []T, preferred Maybe[T]) Maybe[T] {
	if len(options) == 0 {
		return None[T]()
	}
	if v, ok := preferred.Get(); ok && slices.Contains(options, v) {
		return preferred
	}
	return Some(options[len(options)-1])
}
