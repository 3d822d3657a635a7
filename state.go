package tiler

import (
	"sort"

	"github.com/ilxqx/go-collections"
)

// tilerState accumulates the merged Output stream into the cache, the
// ordered-query vector, the order policy, and the limiter, and computes
// which tiles are currently visible. It is owned by a single goroutine
// (the "tiler task"); no locking is required (§5, Shared resources).
type tilerState[Q comparable, I any] struct {
	cache          collections.Map[Q, []I]
	orderedQueries []Q
	order          Order[Q]
	limiter        Limiter
	lastIndices    []int
	lastSnapshot   TiledList[Q, I]
	haveSnapshot   bool
}

func newTilerState[Q comparable, I any](order Order[Q], limiter Limiter) *tilerState[Q, I] {
	return &tilerState[Q, I]{
		cache:   collections.NewHashMap[Q, []I](),
		order:   order,
		limiter: limiter,
	}
}

// apply folds one Output event into the state and returns the new
// snapshot along with whether it should be emitted (the emission gate,
// §4.5).
func (s *tilerState[Q, I]) apply(out Output[Q, I]) (TiledList[Q, I], bool) {
	switch out.tag {
	case outputData:
		return s.onData(out.query, out.items)
	case outputEvicted, outputFailed:
		return s.onEvicted(out.query)
	case outputOrderChanged:
		return s.onOrderChanged(out.order)
	case outputLimiterChanged:
		return s.onLimiterChanged(out.limiter)
	}
	return s.lastSnapshot, false
}

func (s *tilerState[Q, I]) onData(query Q, items []I) (TiledList[Q, I], bool) {
	wasVisible := s.indexVisible(query)
	if _, exists := s.cache.Get(query); !exists {
		s.insertOrdered(query)
	}
	s.cache.Put(query, items)

	prevEmpty := !s.haveSnapshot || s.lastSnapshot.Len() == 0
	s.recomputeIndices()
	nowVisible := s.indexVisible(query)
	nowNonEmpty := len(s.lastIndices) > 0

	emit := s.order.kind == orderSorted || wasVisible || nowVisible || (prevEmpty && nowNonEmpty)
	return s.snapshot(), emit
}

func (s *tilerState[Q, I]) onEvicted(query Q) (TiledList[Q, I], bool) {
	wasVisible := s.indexVisible(query)
	s.removeOrdered(query)
	s.cache.Remove(query)
	s.recomputeIndices()
	return s.snapshot(), wasVisible
}

func (s *tilerState[Q, I]) onOrderChanged(order Order[Q]) (TiledList[Q, I], bool) {
	s.order = order
	s.resortOrdered()
	prevIndices := s.lastIndices
	cacheNonEmpty := s.cache.Size() > 0
	s.recomputeIndices()
	return s.snapshot(), cacheNonEmpty && !sameIndices(prevIndices, s.lastIndices)
}

func (s *tilerState[Q, I]) onLimiterChanged(limiter Limiter) (TiledList[Q, I], bool) {
	s.limiter = limiter
	prevIndices := s.lastIndices
	s.recomputeIndices()
	return s.snapshot(), !sameIndices(prevIndices, s.lastIndices)
}

// indexVisible reports whether query currently occupies a visible slot.
func (s *tilerState[Q, I]) indexVisible(query Q) bool {
	pos := s.positionOf(query)
	if pos < 0 {
		return false
	}
	for _, idx := range s.lastIndices {
		if idx == pos {
			return true
		}
	}
	return false
}

func (s *tilerState[Q, I]) positionOf(query Q) int {
	cmp := s.order.cmp
	i := sort.Search(len(s.orderedQueries), func(i int) bool {
		return cmp(s.orderedQueries[i], query) >= 0
	})
	if i < len(s.orderedQueries) && s.orderedQueries[i] == query {
		return i
	}
	return -1
}

func (s *tilerState[Q, I]) insertOrdered(query Q) {
	cmp := s.order.cmp
	i := sort.Search(len(s.orderedQueries), func(i int) bool {
		return cmp(s.orderedQueries[i], query) >= 0
	})
	if i < len(s.orderedQueries) && s.orderedQueries[i] == query {
		return
	}
	s.orderedQueries = append(s.orderedQueries, query)
	copy(s.orderedQueries[i+1:], s.orderedQueries[i:])
	s.orderedQueries[i] = query
}

func (s *tilerState[Q, I]) removeOrdered(query Q) {
	pos := s.positionOf(query)
	if pos < 0 {
		return
	}
	s.orderedQueries = append(s.orderedQueries[:pos], s.orderedQueries[pos+1:]...)
}

func (s *tilerState[Q, I]) resortOrdered() {
	cmp := s.order.cmp
	sort.SliceStable(s.orderedQueries, func(i, j int) bool {
		return cmp(s.orderedQueries[i], s.orderedQueries[j]) < 0
	})
}

// recomputeIndices recomputes lastIndices under the current order,
// limiter, ordered_queries, and cache (§4.5).
func (s *tilerState[Q, I]) recomputeIndices() {
	maxChunks := len(s.orderedQueries)
	if s.limiter.HasMaxQueries() && s.limiter.MaxQueries < maxChunks {
		maxChunks = s.limiter.MaxQueries
	}

	if s.order.kind == orderSorted {
		s.lastIndices = s.sortedIndices(maxChunks)
		return
	}
	s.lastIndices = s.pivotIndices(maxChunks)
}

func (s *tilerState[Q, I]) sortedIndices(maxChunks int) []int {
	var indices []int
	for i, q := range s.orderedQueries {
		if len(indices) >= maxChunks {
			break
		}
		if items, ok := s.cache.Get(q); ok && len(items) > 0 {
			indices = append(indices, i)
		}
	}
	return indices
}

func (s *tilerState[Q, I]) pivotIndices(maxChunks int) []int {
	pivot, _ := s.order.Pivot()
	start := s.positionOf(pivot)
	if start < 0 {
		return nil
	}

	var indices []int
	nonEmptyAt := func(i int) bool {
		if i < 0 || i >= len(s.orderedQueries) {
			return false
		}
		items, ok := s.cache.Get(s.orderedQueries[i])
		return ok && len(items) > 0
	}

	if nonEmptyAt(start) {
		indices = append(indices, start)
	}

	left, right := start-1, start+1
	for len(indices) < maxChunks && (left >= 0 || right < len(s.orderedQueries)) {
		if left >= 0 {
			if nonEmptyAt(left) && len(indices) < maxChunks {
				indices = append([]int{left}, indices...)
			}
			left--
		}
		if right < len(s.orderedQueries) {
			if nonEmptyAt(right) && len(indices) < maxChunks {
				indices = append(indices, right)
			}
			right++
		}
		if left < 0 && right >= len(s.orderedQueries) {
			break
		}
	}
	return indices
}

func (s *tilerState[Q, I]) snapshot() TiledList[Q, I] {
	selected := make([]Q, len(s.lastIndices))
	for i, idx := range s.lastIndices {
		selected[i] = s.orderedQueries[idx]
	}
	cache := make(map[Q][]I, s.cache.Size())
	for q, items := range s.cache.Seq() {
		cache[q] = items
	}

	snap := newTiledList[Q, I](selected, cache, s.limiter.ItemSizeHint)
	s.lastSnapshot = snap
	s.haveSnapshot = true
	return snap
}

func sameIndices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
