package tiler

import (
	"context"
	"sync"
	"sync/atomic"
)

// mergeUnbounded flattens a stream of streams into one stream, pulling
// from every incoming child stream concurrently. Unlike a worker-pool
// based flat-map, a new child stream never waits for a free slot: a
// goroutine is spawned per incoming stream, so the fan-in is unbounded.
//
// Grounded on the done-channel/atomic-bool/WaitGroup fan-in idiom used by
// parallelFlatMapUnordered, adapted from a fixed worker pool reading a
// bounded input channel to one goroutine per child stream.
func mergeUnbounded[T any](ctx context.Context, streams <-chan Stream[T]) Stream[T] {
	return Stream[T]{
		seq: func(yield func(T) bool) {
			var (
				outputCh = make(chan T)
				done     = make(chan struct{})
				closed   atomic.Bool
				wg       sync.WaitGroup
			)

			stop := func() {
				if closed.CompareAndSwap(false, true) {
					close(done)
				}
			}

			go func() {
				select {
				case <-ctx.Done():
					stop()
				case <-done:
				}
			}()

			feederDone := make(chan struct{})
			go func() {
				defer close(feederDone)
				for {
					select {
					case <-done:
						return
					case s, ok := <-streams:
						if !ok {
							return
						}
						wg.Go(func() {
							for v := range s.seq {
								select {
								case <-done:
									return
								case outputCh <- v:
								}
							}
						})
					}
				}
			}()

			go func() {
				<-feederDone
				wg.Wait()
				close(outputCh)
			}()

			defer stop()

			for v := range outputCh {
				if !yield(v) {
					stop()
					return
				}
			}
		},
	}
}
