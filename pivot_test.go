package tiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intWalkers(lo, hi int) (next, prev func(int) Optional[int]) {
	next = func(q int) Optional[int] {
		if q+1 > hi {
			return None[int]()
		}
		return Some(q + 1)
	}
	prev = func(q int) Optional[int] {
		if q-1 < lo {
			return None[int]()
		}
		return Some(q - 1)
	}
	return
}

func TestNewPivotRequestValidation(t *testing.T) {
	t.Parallel()
	next, prev := intWalkers(0, 100)

	_, err := NewPivotRequest(2, 1, intCmp, next, prev)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPivotRequest)

	req, err := NewPivotRequest(3, 2, intCmp, next, prev)
	require.NoError(t, err)
	assert.Equal(t, 3, req.onCount)
}

func TestPlanPivotWindow(t *testing.T) {
	t.Parallel()
	next, prev := intWalkers(0, 100)
	req, err := NewPivotRequest(3, 2, intCmp, next, prev)
	require.NoError(t, err)

	nextPlan, batch := plan(5, req, pivotPlan[int]{})
	assert.ElementsMatch(t, []int{4, 5, 6}, nextPlan.on)
	assert.ElementsMatch(t, []int{3, 7}, nextPlan.off)
	assert.Empty(t, batch.Evict)
	assert.ElementsMatch(t, []int{3, 7}, batch.Off)
	assert.ElementsMatch(t, []int{4, 5, 6}, batch.On)
	assert.Equal(t, 5, batch.On[len(batch.On)-1])

	_, batch2 := plan(8, req, nextPlan)
	assert.ElementsMatch(t, []int{3, 4, 5}, batch2.Evict)
	assert.ElementsMatch(t, []int{6, 10}, batch2.Off)
	assert.ElementsMatch(t, []int{7, 8, 9}, batch2.On)
}

func TestGrowWindowStopsAtBoundary(t *testing.T) {
	t.Parallel()
	next, prev := intWalkers(0, 3)
	window := growWindow(1, 5, next, prev)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, window)
}

func TestWithPivotLast(t *testing.T) {
	t.Parallel()
	out := withPivotLast([]int{4, 5, 6}, 5)
	assert.Equal(t, []int{4, 6, 5}, out)
}

func TestToPivotedTileInputs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	next, prev := intWalkers(0, 100)
	req, err := NewPivotRequest(3, 2, intCmp, next, prev)
	require.NoError(t, err)

	// The focus stream waits until the request has been delivered, so each
	// focus is combined with it and two batches come out.
	reqDelivered := make(chan struct{})
	requests := From(func(yield func(PivotRequest[int]) bool) {
		yield(req)
		close(reqDelivered)
	})
	focuses := From(func(yield func(int) bool) {
		<-reqDelivered
		if yield(5) {
			yield(8)
		}
	})

	inputs := ToPivotedTileInputs(ctx, focuses, requests).Collect()
	require.Len(t, inputs, 2)
	assert.Equal(t, inputPivotBatch, inputs[0].tag)
	assert.Empty(t, inputs[0].batch.Evict)
	assert.ElementsMatch(t, []int{3, 4, 5}, inputs[1].batch.Evict)
}
