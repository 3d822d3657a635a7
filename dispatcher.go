package tiler

import "context"

// dispatcher multiplexes a single Input stream into one Valve per live
// query, emitting each valve's outbound event stream onto a channel that
// the caller merges with unbounded concurrency (mergeUnbounded).
//
// The dispatcher owns the live map exclusively; it runs in the context of
// whoever subscribes to the pipeline and processes inputs strictly in
// arrival order, so a control action and its acknowledgement on the
// output stream preserve relative order even though data events across
// distinct queries may interleave freely once merged.
type dispatcher[Q comparable, I any] struct {
	fetcher func(context.Context, Q) Stream[Result[[]I]]
	live    map[Q]*valve[Q, I]
}

func newDispatcher[Q comparable, I any](fetcher func(context.Context, Q) Stream[Result[[]I]]) *dispatcher[Q, I] {
	return &dispatcher[Q, I]{
		fetcher: fetcher,
		live:    make(map[Q]*valve[Q, I]),
	}
}

// run consumes inputs and feeds child streams to childStreams, an
// unbuffered channel expected to be read by mergeUnbounded. It returns
// once inputs is exhausted or ctx is cancelled.
func (d *dispatcher[Q, I]) run(ctx context.Context, inputs Stream[Input[Q]], childStreams chan<- Stream[Output[Q, I]]) {
	emit := func(o Output[Q, I]) {
		select {
		case childStreams <- Of(o):
		case <-ctx.Done():
		}
	}

	for in := range inputs.seq {
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch in.tag {
		case inputRequest:
			d.handleRequest(ctx, in.request, childStreams, emit)
		case inputSetOrder:
			emit(orderChangedOutput[Q, I](in.order))
		case inputSetLimiter:
			emit(limiterChangedOutput[Q, I](in.limiter))
		case inputPivotBatch:
			d.handlePivotBatch(ctx, in.batch, childStreams, emit)
		}
	}
}

func (d *dispatcher[Q, I]) handleRequest(ctx context.Context, req Request[Q], childStreams chan<- Stream[Output[Q, I]], emit func(Output[Q, I])) {
	switch req.kind {
	case requestOn:
		v, exists := d.live[req.query]
		if !exists {
			v = newValve(req.query, d.fetcher)
			d.live[req.query] = v
			select {
			case childStreams <- v.outbound(ctx):
			case <-ctx.Done():
				return
			}
		}
		v.On()
	case requestOff:
		if v, exists := d.live[req.query]; exists {
			v.Off()
		}
	case requestEvict:
		d.evict(req.query, emit)
	}
}

func (d *dispatcher[Q, I]) evict(q Q, emit func(Output[Q, I])) {
	v, exists := d.live[q]
	if !exists {
		return
	}
	delete(d.live, q)
	v.Terminate()
	emit(evictedOutput[Q, I](q))
}

func (d *dispatcher[Q, I]) handlePivotBatch(ctx context.Context, b PivotBatch[Q], childStreams chan<- Stream[Output[Q, I]], emit func(Output[Q, I])) {
	for _, q := range b.Evict {
		d.evict(q, emit)
	}
	for _, q := range b.Off {
		if v, exists := d.live[q]; exists {
			v.Off()
		}
	}
	for _, q := range b.On {
		d.handleRequest(ctx, Request[Q]{query: q, kind: requestOn}, childStreams, emit)
	}
	emit(orderChangedOutput[Q, I](b.NewOrder))
}
