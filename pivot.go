package tiler

import "context"

// PivotRequest describes how wide a pivot window should grow around a
// focus query: on_count queries actively fetch ("hot"), off_count more
// stay cached but paused ("warm"), and next/prev walk the total order in
// either direction, returning None at either edge.
type PivotRequest[Q comparable] struct {
	onCount  int
	offCount int
	cmp      Comparator[Q]
	next     func(Q) Optional[Q]
	prev     func(Q) Optional[Q]
}

// NewPivotRequest validates and constructs a PivotRequest. on_count must
// be at least 3; this is a configuration error, reported eagerly rather
// than silently producing an empty plan.
func NewPivotRequest[Q comparable](onCount, offCount int, cmp Comparator[Q], next, prev func(Q) Optional[Q]) (PivotRequest[Q], error) {
	if onCount < 3 {
		return PivotRequest[Q]{}, &invalidOnCountError{onCount: onCount}
	}
	return PivotRequest[Q]{onCount: onCount, offCount: offCount, cmp: cmp, next: next, prev: prev}, nil
}

// pivotPlan is one planner iteration's window state, retained so the next
// combined (focus, request) pair can compute evict as prevKept \ keep.
type pivotPlan[Q comparable] struct {
	on  []Q
	off []Q
}

func (p pivotPlan[Q]) kept() map[Q]struct{} {
	kept := make(map[Q]struct{}, len(p.on)+len(p.off))
	for _, q := range p.on {
		kept[q] = struct{}{}
	}
	for _, q := range p.off {
		kept[q] = struct{}{}
	}
	return kept
}

// plan computes the next pivot window. on is ordered with the pivot last,
// so the dispatcher's sequential processing of On commands makes the
// pivot the last (and therefore dominant) signal under the valve's
// distinct-until-changed control dedup.
func plan[Q comparable](pivot Q, req PivotRequest[Q], prev pivotPlan[Q]) (pivotPlan[Q], PivotBatch[Q]) {
	on := growWindow(pivot, req.onCount, req.next, req.prev)
	off := growEdges(on, req.offCount, req.next, req.prev)

	next := pivotPlan[Q]{on: on, off: off}

	keep := next.kept()
	prevKept := prev.kept()
	var evict []Q
	for q := range prevKept {
		if _, stillKept := keep[q]; !stillKept {
			evict = append(evict, q)
		}
	}

	batch := PivotBatch[Q]{
		Evict:    evict,
		Off:      off,
		On:       withPivotLast(on, pivot),
		NewOrder: PivotSorted(pivot, req.cmp),
	}
	return next, batch
}

// growWindow builds the on-window: pivot first, then alternating prev/next
// expansion until count elements are collected or both sides exhaust. The
// returned slice is ordered left to right (prev side, pivot, next side);
// withPivotLast is applied separately by plan to produce the
// dispatcher-facing order.
func growWindow[Q comparable](pivot Q, count int, next, prev func(Q) Optional[Q]) []Q {
	window := []Q{pivot}
	left, right := pivot, pivot
	leftOk, rightOk := true, true

	for len(window) < count && (leftOk || rightOk) {
		if leftOk {
			if p := prev(left); p.IsPresent() {
				window = append([]Q{p.Get()}, window...)
				left = p.Get()
				if len(window) >= count {
					break
				}
			} else {
				leftOk = false
			}
		}
		if rightOk {
			if n := next(right); n.IsPresent() {
				window = append(window, n.Get())
				right = n.Get()
				if len(window) >= count {
					break
				}
			} else {
				rightOk = false
			}
		}
	}
	return window
}

// growEdges extends count more queries outward from the edges of on,
// without reordering on.
func growEdges[Q comparable](on []Q, count int, next, prev func(Q) Optional[Q]) []Q {
	if len(on) == 0 || count <= 0 {
		return nil
	}
	var off []Q
	left, right := on[0], on[len(on)-1]
	leftOk, rightOk := true, true

	for len(off) < count && (leftOk || rightOk) {
		if leftOk {
			if p := prev(left); p.IsPresent() {
				off = append([]Q{p.Get()}, off...)
				left = p.Get()
				if len(off) >= count {
					break
				}
			} else {
				leftOk = false
			}
		}
		if rightOk {
			if n := next(right); n.IsPresent() {
				off = append(off, n.Get())
				right = n.Get()
				if len(off) >= count {
					break
				}
			} else {
				rightOk = false
			}
		}
	}
	return off
}

// withPivotLast reorders on so pivot is the final element, preserving the
// relative order of everything else.
func withPivotLast[Q comparable](on []Q, pivot Q) []Q {
	out := make([]Q, 0, len(on))
	for _, q := range on {
		if q != pivot {
			out = append(out, q)
		}
	}
	return append(out, pivot)
}

// ToPivotedTileInputs turns a stream of focus queries and a stream of
// pivot requests into a stream of Input events realizing a sliding window
// around the focus. The two input streams are combined with
// combineLatest2 semantics: a new PivotBatch is produced whenever either
// side produces a fresh value, once both have produced at least one.
func ToPivotedTileInputs[Q comparable](ctx context.Context, queries Stream[Q], pivotRequests Stream[PivotRequest[Q]]) Stream[Input[Q]] {
	combined := combineLatest2(ctx, queries, pivotRequests)

	return Stream[Input[Q]]{
		seq: func(yield func(Input[Q]) bool) {
			var prev pivotPlan[Q]
			for pair := range combined.seq {
				focus, req := pair.Unpack()
				next, batch := plan(focus, req, prev)
				prev = next
				if !yield(NewPivotBatchInput(batch)) {
					return
				}
			}
		},
	}
}
