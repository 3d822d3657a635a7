package tiler

import "sort"

// queryRange is a disjoint [start, end) index range mapped to a query, the
// sparse incremental variant of the query index/range structure (path 2).
// It is used to assemble a TiledList externally, one append/insert/delete
// at a time, rather than all at once from a fixed set of ordered queries.
type queryRange[Q comparable] struct {
	start, end uint32
	query      Q
	deleted    bool
}

// queryRangeBuilder incrementally assembles a sequence of (start,end)→Q
// ranges. Ranges are kept disjoint and sorted by start; adjacent ranges
// for the same query are merged rather than duplicated.
type queryRangeBuilder[Q comparable] struct {
	ranges []queryRange[Q]
}

func newQueryRangeBuilder[Q comparable]() *queryRangeBuilder[Q] {
	return &queryRangeBuilder[Q]{}
}

// Append adds n items for query at the end of the range sequence, merging
// into the last range if it already belongs to query.
func (b *queryRangeBuilder[Q]) Append(query Q, n int) {
	if n <= 0 {
		return
	}
	if last := len(b.ranges) - 1; last >= 0 && !b.ranges[last].deleted && b.ranges[last].query == query {
		b.ranges[last].end += uint32(n)
		return
	}
	var prevEnd uint32
	if len(b.ranges) > 0 {
		prevEnd = b.ranges[len(b.ranges)-1].end
	}
	b.ranges = append(b.ranges, queryRange[Q]{start: prevEnd, end: prevEnd + uint32(n), query: query})
}

// Insert adds n items for query at global index, merging with the range
// already occupying that boundary when possible, else splitting the range
// sequence and shifting every later range by +n.
func (b *queryRangeBuilder[Q]) Insert(index int, query Q, n int) {
	if n <= 0 {
		return
	}
	pos := sort.Search(len(b.ranges), func(i int) bool {
		return int(b.ranges[i].end) > index
	})
	if pos < len(b.ranges) && !b.ranges[pos].deleted && b.ranges[pos].query == query {
		b.ranges[pos].end += uint32(n)
		b.shiftFrom(pos+1, n)
		return
	}
	inserted := queryRange[Q]{start: uint32(index), end: uint32(index + n), query: query}
	b.ranges = append(b.ranges, queryRange[Q]{})
	copy(b.ranges[pos+1:], b.ranges[pos:])
	b.ranges[pos] = inserted
	b.shiftFrom(pos+1, n)
}

// Delete removes one item at global index: the owning range's end is
// decremented; if the range becomes empty it is marked deleted and kept
// in place as a zero-width range. Deleted ranges are never reclaimed.
func (b *queryRangeBuilder[Q]) Delete(index int) {
	pos := sort.Search(len(b.ranges), func(i int) bool {
		return int(b.ranges[i].end) > index
	})
	if pos >= len(b.ranges) {
		return
	}
	b.ranges[pos].end--
	b.shiftFrom(pos+1, -1)
	if b.ranges[pos].end <= b.ranges[pos].start {
		b.ranges[pos].deleted = true
	}
}

func (b *queryRangeBuilder[Q]) shiftFrom(start int, delta int) {
	for i := start; i < len(b.ranges); i++ {
		b.ranges[i].start = uint32(int(b.ranges[i].start) + delta)
		b.ranges[i].end = uint32(int(b.ranges[i].end) + delta)
	}
}

// QueryAt returns the query owning global index, via binary search over
// range end bounds.
func (b *queryRangeBuilder[Q]) QueryAt(index int) (Q, bool) {
	pos := sort.Search(len(b.ranges), func(i int) bool {
		return int(b.ranges[i].end) > index
	})
	if pos >= len(b.ranges) || b.ranges[pos].deleted || uint32(index) < b.ranges[pos].start {
		var zero Q
		return zero, false
	}
	return b.ranges[pos].query, true
}

// Len returns the total number of live (non-deleted) indices spanned.
func (b *queryRangeBuilder[Q]) Len() int {
	if len(b.ranges) == 0 {
		return 0
	}
	return int(b.ranges[len(b.ranges)-1].end)
}
