package tiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidOnCountError(t *testing.T) {
	t.Parallel()
	_, err := NewPivotRequest[int](2, 0, intCmp, nil, nil)
	require := assert.New(t)
	require.Error(err)
	require.True(errors.Is(err, ErrInvalidPivotRequest))
}

func TestFetchError(t *testing.T) {
	t.Parallel()
	underlying := errors.New("boom")
	err := &FetchError[int]{Query: 7, Err: underlying}
	assert.Contains(t, err.Error(), "7")
	assert.Equal(t, underlying, errors.Unwrap(err))
}
