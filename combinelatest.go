package tiler

import (
	"context"
	"sync"
)

// combineLatest2 emits a new Pair every time either a or b produces a
// value, once both sides have produced at least one. This is the pivot
// planner's "combine the latest query and the latest pivot request"
// primitive (equivalent to the outer product debounced on each side's
// last value).
//
// Grounded on Zip's two-stream parallel-consumption shape and Debounce's
// goroutine-plus-guarded-latest-value idiom, combined: each side runs its
// own feeder goroutine into a shared, mutex-guarded latest-value pair.
func combineLatest2[A, B any](ctx context.Context, a Stream[A], b Stream[B]) Stream[Pair[A, B]] {
	return Stream[Pair[A, B]]{
		seq: func(yield func(Pair[A, B]) bool) {
			var (
				mu        sync.Mutex
				latestA   A
				latestB   B
				haveA     bool
				haveB     bool
				outputCh  = make(chan Pair[A, B])
				done      = make(chan struct{})
				closeOnce sync.Once
				wg        sync.WaitGroup
			)

			stop := func() {
				closeOnce.Do(func() { close(done) })
			}

			emit := func() {
				mu.Lock()
				ready := haveA && haveB
				var pair Pair[A, B]
				if ready {
					pair = NewPair(latestA, latestB)
				}
				mu.Unlock()
				if !ready {
					return
				}
				select {
				case outputCh <- pair:
				case <-done:
				}
			}

			wg.Go(func() {
				for v := range a.seq {
					select {
					case <-done:
						return
					default:
					}
					mu.Lock()
					latestA = v
					haveA = true
					mu.Unlock()
					emit()
				}
			})

			wg.Go(func() {
				for v := range b.seq {
					select {
					case <-done:
						return
					default:
					}
					mu.Lock()
					latestB = v
					haveB = true
					mu.Unlock()
					emit()
				}
			})

			go func() {
				select {
				case <-ctx.Done():
					stop()
				case <-done:
				}
			}()

			go func() {
				wg.Wait()
				close(outputCh)
			}()

			defer stop()

			for pair := range outputCh {
				if !yield(pair) {
					stop()
					return
				}
			}
		},
	}
}
