package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetLength(t *testing.T) {
	pool := DefaultBufferPool()
	for _, size := range []int{1, 127, 128, 129, 4096, 100000} {
		buf := pool.Get(size)
		require.NotNil(t, buf)
		assert.Len(t, *buf, size)
		assert.GreaterOrEqual(t, cap(*buf), size)
		pool.Put(buf)
	}
}

func TestPoolGetZeroAndNegative(t *testing.T) {
	pool := DefaultBufferPool()
	for _, size := range []int{0, -1} {
		buf := pool.Get(size)
		require.NotNil(t, buf)
		assert.Empty(t, *buf)
	}
}

func TestPoolOversizedAllocatesDirectly(t *testing.T) {
	pool := newTieredPool()
	size := pool.maxSize + 1
	buf := pool.Get(size)
	assert.Len(t, *buf, size)
	// Returning it must not panic even though no class fits.
	pool.Put(buf)
}

func TestPoolPutNil(t *testing.T) {
	assert.NotPanics(t, func() { DefaultBufferPool().Put(nil) })
}

func TestPoolReuseKeepsCapacity(t *testing.T) {
	pool := newTieredPool()
	buf := pool.Get(512)
	c := cap(*buf)
	pool.Put(buf)

	again := pool.Get(512)
	assert.Len(t, *again, 512)
	assert.GreaterOrEqual(t, cap(*again), c)
}
