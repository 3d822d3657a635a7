package tiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminators(t *testing.T) {
	t.Parallel()

	t.Run("ForEach", func(t *testing.T) {
		t.Parallel()
		var collected []int
		Of(1, 2, 3).ForEach(func(n int) {
			collected = append(collected, n)
		})
		assert.Equal(t, []int{1, 2, 3}, collected)
	})

	t.Run("Collect", func(t *testing.T) {
		t.Parallel()
		result := Of(1, 2, 3).Collect()
		assert.Equal(t, []int{1, 2, 3}, result)
	})

	t.Run("CollectEmpty", func(t *testing.T) {
		t.Parallel()
		result := Empty[int]().Collect()
		assert.Empty(t, result)
	})

	t.Run("First", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1, Of(1, 2, 3).First().Get())
		assert.True(t, Empty[int]().First().IsEmpty())
	})

	t.Run("IsEmpty", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Empty[int]().IsEmpty())
		assert.False(t, Of(1).IsEmpty())
	})
}
