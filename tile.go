package tiler

import (
	"reflect"
	"sort"
)

// Tile describes a half-open index range [Start, End) within a TiledList
// whose items all came from the same query.
type Tile struct {
	Start uint32
	End   uint32
}

// Len returns the number of items the tile spans.
func (t Tile) Len() int {
	return int(t.End - t.Start)
}

// TiledList is an immutable, indexable snapshot of items drawn from
// multiple queries, partitioned into contiguous tiles. Consecutive indices
// inside one tile came from the same query; queries across tiles, read
// left to right, follow the Order that produced the snapshot.
type TiledList[Q comparable, I any] struct {
	queries         []Q
	tiles           []Tile
	items           []I
	cumulativeSizes []int
	chunkSizeHint   int
}

// newTiledList builds a chunked snapshot (query index/range structure
// path 1) from the ordered queries selected for output, the cache backing
// them, and an optional fixed chunk-size hint.
func newTiledList[Q comparable, I any](selected []Q, cache map[Q][]I, chunkSizeHint int) TiledList[Q, I] {
	l := TiledList[Q, I]{
		queries:         make([]Q, 0, len(selected)),
		tiles:           make([]Tile, 0, len(selected)),
		cumulativeSizes: make([]int, 0, len(selected)),
		chunkSizeHint:   chunkSizeHint,
	}

	var running uint32
	for _, q := range selected {
		items := cache[q]
		if len(items) == 0 {
			continue
		}
		start := running
		end := running + uint32(len(items))
		l.queries = append(l.queries, q)
		l.tiles = append(l.tiles, Tile{Start: start, End: end})
		l.items = append(l.items, items...)
		l.cumulativeSizes = append(l.cumulativeSizes, int(end))
		running = end
	}

	return l
}

// Len returns the total number of items across all tiles.
func (l TiledList[Q, I]) Len() int {
	return len(l.items)
}

// TileCount returns the number of tiles in the snapshot.
func (l TiledList[Q, I]) TileCount() int {
	return len(l.tiles)
}

// Get returns the item at global index i. Panics if i is out of bounds;
// this is a programming error, not a runtime condition.
func (l TiledList[Q, I]) Get(i int) I {
	if i < 0 || i >= len(l.items) {
		panic("tiler: TiledList.Get index out of range")
	}
	return l.items[i]
}

// QueryAt returns the query that produced the item at global index i.
func (l TiledList[Q, I]) QueryAt(i int) Q {
	t := l.tileIndexAt(i)
	return l.queries[t]
}

// TileAt returns the tile at tile-index t.
func (l TiledList[Q, I]) TileAt(t int) Tile {
	if t < 0 || t >= len(l.tiles) {
		panic("tiler: TiledList.TileAt index out of range")
	}
	return l.tiles[t]
}

// QueryAtTile returns the query owning tile-index t.
func (l TiledList[Q, I]) QueryAtTile(t int) Q {
	if t < 0 || t >= len(l.queries) {
		panic("tiler: TiledList.QueryAtTile index out of range")
	}
	return l.queries[t]
}

// Items returns every item in the snapshot, in index order.
func (l TiledList[Q, I]) Items() []I {
	out := make([]I, len(l.items))
	copy(out, l.items)
	return out
}

// Queries returns the per-tile queries, in tile order.
func (l TiledList[Q, I]) Queries() []Q {
	out := make([]Q, len(l.queries))
	copy(out, l.queries)
	return out
}

// Equal reports structural equality: same length, same item sequence,
// same query at each index.
func (l TiledList[Q, I]) Equal(other TiledList[Q, I]) bool {
	if l.Len() != other.Len() {
		return false
	}
	for i := range l.items {
		if l.QueryAt(i) != other.QueryAt(i) {
			return false
		}
		if !reflect.DeepEqual(l.items[i], other.items[i]) {
			return false
		}
	}
	return true
}

// tileIndexAt locates the tile owning global index i: O(1) when a fixed
// chunk-size hint is set, otherwise a binary search over cumulative
// sizes (O(log tile_count)).
func (l TiledList[Q, I]) tileIndexAt(i int) int {
	if i < 0 || i >= len(l.items) {
		panic("tiler: TiledList index out of range")
	}
	if l.chunkSizeHint > 0 {
		return i / l.chunkSizeHint
	}
	return sort.SearchInts(l.cumulativeSizes, i+1)
}
