package tiler

import "slices"

// ForEach executes the action on each element.
func (s Stream[T]) ForEach(action func(T)) {
	for v := range s.seq {
		action(v)
	}
}

// Collect gathers all elements into a slice.
func (s Stream[T]) Collect() []T {
	return slices.Collect(s.seq)
}

// First returns the first element as an Optional.
func (s Stream[T]) First() Optional[T] {
	for v := range s.seq {
		return Some(v)
	}
	return None[T]()
}

// IsEmpty returns true if the stream has no elements.
func (s Stream[T]) IsEmpty() bool {
	for range s.seq {
		return false
	}
	return true
}
