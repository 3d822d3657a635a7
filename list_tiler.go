package tiler

import "context"

// ListTiler wires the dispatcher, the unbounded merge, and the tiler
// state machine into a single pipeline: Stream<Input> → dispatcher →
// Stream<Stream<Output>> → mergeUnbounded → Stream<Output> → tiler state
// machine → Stream<Result<TiledList>>.
type ListTiler[Q comparable, I any] struct {
	order   Order[Q]
	limiter Limiter
	fetcher func(context.Context, Q) Stream[Result[[]I]]
}

// NewListTiler constructs a ListTiler with its initial order and limiter
// and the caller's fetcher. fetcher must be idempotent across invocations:
// every subscription is independent, and errors surface via the returned
// stream.
func NewListTiler[Q comparable, I any](order Order[Q], limiter Limiter, fetcher func(context.Context, Q) Stream[Result[[]I]]) *ListTiler[Q, I] {
	return &ListTiler[Q, I]{order: order, limiter: limiter, fetcher: fetcher}
}

// Process wires the pipeline for one subscription. Dropping the consumer
// of the returned stream cancels the tiler task, which cancels every live
// valve, which cancels its fetcher subscription in turn.
//
// A fetcher failure always yields an Err(*FetchError[Q]), regardless of
// whether the failed query was visible; the cache drop it triggers (§7)
// additionally yields an Ok snapshot when that drop changes what's
// visible, same as any other state transition.
func (lt *ListTiler[Q, I]) Process(ctx context.Context, inputs Stream[Input[Q]]) Stream[Result[TiledList[Q, I]]] {
	return Stream[Result[TiledList[Q, I]]]{
		seq: func(yield func(Result[TiledList[Q, I]]) bool) {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			d := newDispatcher[Q, I](lt.fetcher)
			childStreams := make(chan Stream[Output[Q, I]])

			go func() {
				defer close(childStreams)
				d.run(runCtx, inputs, childStreams)
			}()

			merged := mergeUnbounded(runCtx, childStreams)
			state := newTilerState[Q, I](lt.order, lt.limiter)

			for out := range merged.seq {
				if out.tag == outputFailed {
					fetchErr := &FetchError[Q]{Query: out.query, Err: out.err}
					if !yield(Err[TiledList[Q, I]](fetchErr)) {
						return
					}
				}

				snapshot, emit := state.apply(out)
				if emit {
					if !yield(Ok(snapshot)) {
						return
					}
				}
			}
		},
	}
}
