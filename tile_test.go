package tiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTiledList(t *testing.T) {
	t.Parallel()

	t.Run("SimpleSort", func(t *testing.T) {
		t.Parallel()
		cache := map[int][]int{
			0: seqInts(0, 50),
			1: seqInts(50, 100),
			2: seqInts(100, 150),
		}
		l := newTiledList([]int{0, 1, 2}, cache, 0)

		assert.Equal(t, 150, l.Len())
		assert.Equal(t, 3, l.TileCount())
		assert.Equal(t, 0, l.QueryAt(0))
		assert.Equal(t, 0, l.QueryAt(49))
		assert.Equal(t, 1, l.QueryAt(50))
		assert.Equal(t, 2, l.QueryAt(149))
	})

	t.Run("EmptyChunkSkipping", func(t *testing.T) {
		t.Parallel()
		cache := map[int][]string{
			0: {},
			1: {"a"},
			2: {"b", "c"},
		}
		l := newTiledList([]int{0, 1, 2}, cache, 0)

		assert.Equal(t, 2, l.TileCount())
		assert.Equal(t, 1, l.QueryAt(0))
		assert.Equal(t, 2, l.QueryAt(1))
		assert.Equal(t, 2, l.QueryAt(2))
	})

	t.Run("ChunkSizeHintEnablesO1Index", func(t *testing.T) {
		t.Parallel()
		cache := map[int][]int{
			0: {1, 2, 3},
			1: {4, 5, 6},
		}
		l := newTiledList([]int{0, 1}, cache, 3)
		assert.Equal(t, 0, l.QueryAt(0))
		assert.Equal(t, 1, l.QueryAt(3))
		assert.Equal(t, 5, l.Get(4))
	})

	t.Run("GetOutOfBoundsPanics", func(t *testing.T) {
		t.Parallel()
		l := newTiledList([]int{0}, map[int][]int{0: {1, 2}}, 0)
		assert.Panics(t, func() { l.Get(2) })
		assert.Panics(t, func() { l.Get(-1) })
	})

	t.Run("PartitionInvariant", func(t *testing.T) {
		t.Parallel()
		cache := map[int][]int{0: {1, 2}, 1: {3, 4, 5}}
		l := newTiledList([]int{0, 1}, cache, 0)
		total := 0
		for i := range l.TileCount() {
			tile := l.TileAt(i)
			assert.Greater(t, tile.End, tile.Start)
			total += tile.Len()
		}
		assert.Equal(t, l.Len(), total)
	})

	t.Run("QueryConsistency", func(t *testing.T) {
		t.Parallel()
		cache := map[int][]int{0: {1, 2}, 1: {3, 4, 5}}
		l := newTiledList([]int{0, 1}, cache, 0)
		for ti := range l.TileCount() {
			tile := l.TileAt(ti)
			for i := int(tile.Start); i < int(tile.End); i++ {
				assert.Equal(t, l.QueryAtTile(ti), l.QueryAt(i))
			}
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		cache := map[int][]int{0: {1, 2}, 1: {3, 4, 5}}
		l := newTiledList([]int{0, 1}, cache, 0)

		rebuiltCache := make(map[int][]int)
		for ti := range l.TileCount() {
			tile := l.TileAt(ti)
			q := l.QueryAtTile(ti)
			for i := int(tile.Start); i < int(tile.End); i++ {
				rebuiltCache[q] = append(rebuiltCache[q], l.Get(i))
			}
		}
		rebuilt := newTiledList(l.Queries(), rebuiltCache, 0)
		assert.True(t, l.Equal(rebuilt))
	})
}

func seqInts(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
