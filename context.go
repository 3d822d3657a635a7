package tiler

import (
	"context"
)

// WithContext wraps a Stream to respect context cancellation.
// When the context is cancelled, the stream stops yielding elements.
func WithContext[T any](ctx context.Context, s Stream[T]) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			for v := range s.seq {
				select {
				case <-ctx.Done():
					return
				default:
					if !yield(v) {
						return
					}
				}
			}
		},
	}
}

// FromChannelCtx creates a Stream from a channel, stopping early if ctx is
// cancelled, so a reader blocked on an open channel is released by
// cancellation.
func FromChannelCtx[T any](ctx context.Context, ch <-chan T) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						return
					}
					if !yield(v) {
						return
					}
				}
			}
		},
	}
}
