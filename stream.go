package tiler

import (
	"iter"
	"slices"
)

// Stream is a lazy sequence of elements.
// It wraps iter.Seq[T] and provides a small set of fluent operations:
// Filter/Map/MapTo for element shaping and DistinctUntilChanged(By) for
// collapsing adjacent duplicates.
type Stream[T any] struct {
	seq iter.Seq[T]
}

// From creates a Stream from an iter.Seq.
// This provides interoperability with the standard library.
func From[T any](seq iter.Seq[T]) Stream[T] {
	return Stream[T]{seq: seq}
}

// Of creates a Stream from variadic values.
func Of[T any](values ...T) Stream[T] {
	return Stream[T]{seq: slices.Values(values)}
}

// FromSlice creates a Stream from a slice.
func FromSlice[T any](s []T) Stream[T] {
	return Stream[T]{seq: slices.Values(s)}
}

// FromChannel creates a Stream from a receive-only channel.
// The stream consumes all values from the channel until it is closed,
// bridging a goroutine-driven producer to a pull-based Stream.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			for v := range ch {
				if !yield(v) {
					return
				}
			}
		},
	}
}

// Empty returns an empty Stream.
func Empty[T any]() Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {},
	}
}

// Seq returns the underlying iter.Seq for stdlib interop.
func (s Stream[T]) Seq() iter.Seq[T] {
	return s.seq
}

// --- Intermediate Operations (return Stream, lazy) ---

// Filter returns a Stream containing only elements that match the predicate.
func (s Stream[T]) Filter(pred func(T) bool) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			for v := range s.seq {
				if pred(v) && !yield(v) {
					return
				}
			}
		},
	}
}

// Map transforms each element using the given function.
// For type-changing transformations, use the MapTo function instead.
func (s Stream[T]) Map(fn func(T) T) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			for v := range s.seq {
				if !yield(fn(v)) {
					return
				}
			}
		},
	}
}

// MapTo transforms Stream[T] to Stream[U].
// Use this when the transformation changes the element type.
func MapTo[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	return Stream[U]{
		seq: func(yield func(U) bool) {
			for v := range s.seq {
				if !yield(fn(v)) {
					return
				}
			}
		},
	}
}

// DistinctUntilChanged returns a Stream that removes consecutive duplicate
// elements. Only adjacent duplicates are removed; the same value appearing
// later (after a different value) is kept.
func DistinctUntilChanged[T comparable](s Stream[T]) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			var (
				prev  T
				first = true
			)
			for v := range s.seq {
				if first || prev != v {
					if !yield(v) {
						return
					}
					prev, first = v, false
				}
			}
		},
	}
}

// DistinctUntilChangedBy returns a Stream that removes consecutive elements
// that eq reports as equal. The Valve (§4.3) applies the same rule to its
// control signals inline rather than through this function.
func DistinctUntilChangedBy[T any](s Stream[T], eq func(a, b T) bool) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			var (
				prev  T
				first = true
			)
			for v := range s.seq {
				if first || !eq(prev, v) {
					if !yield(v) {
						return
					}
					prev, first = v, false
				}
			}
		},
	}
}
