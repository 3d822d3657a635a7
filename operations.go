package tiler

// Filter returns a new TiledList containing only the items matching pred,
// preserving the query-at-index association of surviving items. Tiles are
// rebuilt around the surviving runs; a tile that loses all its items is
// dropped.
func (l TiledList[Q, I]) Filter(pred func(I) bool) TiledList[Q, I] {
	// Surviving tiles may be shorter than the source's chunk-size hint, so
	// the result falls back to the binary-search lookup.
	b := newTiledListBuilder[Q, I](0)
	for t, tile := range l.tiles {
		query := l.queries[t]
		var kept []I
		for i := int(tile.Start); i < int(tile.End); i++ {
			if pred(l.items[i]) {
				kept = append(kept, l.items[i])
			}
		}
		if len(kept) > 0 {
			b.addTile(query, kept)
		}
	}
	return b.build()
}

// MapTiledList transforms every item in l via fn, preserving tile and
// query structure exactly (1:1 element transform, so no tile can become
// empty).
func MapTiledList[Q comparable, I, J any](l TiledList[Q, I], fn func(I) J) TiledList[Q, J] {
	b := newTiledListBuilder[Q, J](l.chunkSizeHint)
	for t, tile := range l.tiles {
		query := l.queries[t]
		mapped := make([]J, 0, tile.Len())
		for i := int(tile.Start); i < int(tile.End); i++ {
			mapped = append(mapped, fn(l.items[i]))
		}
		b.addTile(query, mapped)
	}
	return b.build()
}

// DistinctBy returns a new TiledList keeping only the first item for each
// key, in encounter order, preserving query-at-index association.
func (l TiledList[Q, I]) DistinctBy(keyFn func(I) any) TiledList[Q, I] {
	seen := make(map[any]struct{})
	b := newTiledListBuilder[Q, I](0)
	for t, tile := range l.tiles {
		query := l.queries[t]
		var kept []I
		for i := int(tile.Start); i < int(tile.End); i++ {
			key := keyFn(l.items[i])
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			kept = append(kept, l.items[i])
		}
		if len(kept) > 0 {
			b.addTile(query, kept)
		}
	}
	return b.build()
}

// tiledListBuilder assembles a TiledList tile by tile, used by the
// TiledList-to-TiledList operations above so they never need to round-trip
// through the cache-keyed constructor in tile.go.
type tiledListBuilder[Q comparable, I any] struct {
	l TiledList[Q, I]
}

func newTiledListBuilder[Q comparable, I any](chunkSizeHint int) *tiledListBuilder[Q, I] {
	return &tiledListBuilder[Q, I]{l: TiledList[Q, I]{chunkSizeHint: chunkSizeHint}}
}

func (b *tiledListBuilder[Q, I]) addTile(query Q, items []I) {
	start := uint32(len(b.l.items))
	end := start + uint32(len(items))
	b.l.queries = append(b.l.queries, query)
	b.l.tiles = append(b.l.tiles, Tile{Start: start, End: end})
	b.l.items = append(b.l.items, items...)
	b.l.cumulativeSizes = append(b.l.cumulativeSizes, int(end))
}

func (b *tiledListBuilder[Q, I]) build() TiledList[Q, I] {
	return b.l
}
