package tiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	t.Parallel()

	t.Run("Ok", func(t *testing.T) {
		t.Parallel()
		r := Ok(42)
		assert.True(t, r.IsOk())
		assert.False(t, r.IsErr())
		assert.Equal(t, 42, r.Unwrap())
		assert.Equal(t, 42, r.Value())
		assert.Nil(t, r.Error())
	})

	t.Run("Err", func(t *testing.T) {
		t.Parallel()
		err := errors.New("fetch failed")
		r := Err[[]int](err)
		assert.False(t, r.IsOk())
		assert.True(t, r.IsErr())
		assert.Equal(t, err, r.Error())
		assert.Nil(t, r.Value())
	})

	t.Run("UnwrapOr", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 42, Ok(42).UnwrapOr(0))
		assert.Equal(t, 0, Err[int](errors.New("x")).UnwrapOr(0))
	})

	t.Run("UnwrapPanicsOnErr", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			Err[int](errors.New("boom")).Unwrap()
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Parallel()
		v, err := Ok("hi").Get()
		assert.Equal(t, "hi", v)
		assert.NoError(t, err)

		boom := errors.New("boom")
		v2, err2 := Err[string](boom).Get()
		assert.Equal(t, "", v2)
		assert.Equal(t, boom, err2)
	})
}
