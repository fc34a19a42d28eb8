// Package mem provides the buffer pool the transport layer allocates its
// working byte slices from. The framing codec never holds pooled memory
// itself; it borrows the transport's buffers read-only and copies payloads
// out before they can be recycled.
package mem

import "sync"

// BufferPool is a self-managed pool with various buffer sizes.
type BufferPool interface {
	// Get returns a buffer with length size. Its capacity may be larger.
	Get(size int) *[]byte
	// Put returns the buffer back to the pool.
	Put(buffer *[]byte)
}

// Size classes from 128B up to 4MB, doubling. Requests above the largest
// class are allocated directly and never pooled.
var poolSizes = []int{
	1 << 7,
	1 << 8,
	1 << 9,
	1 << 10,
	1 << 11,
	1 << 12,
	1 << 13,
	1 << 14,
	1 << 15,
	1 << 16,
	1 << 17,
	1 << 18,
	1 << 19,
	1 << 20,
	1 << 21,
	1 << 22,
}

type tieredPool struct {
	pools   []*sync.Pool
	maxSize int
}

var defaultPool = newTieredPool()

// DefaultBufferPool returns the shared process-wide pool.
func DefaultBufferPool() BufferPool {
	return defaultPool
}

func newTieredPool() *tieredPool {
	p := &tieredPool{
		pools:   make([]*sync.Pool, len(poolSizes)),
		maxSize: poolSizes[len(poolSizes)-1],
	}
	for i := range poolSizes {
		size := poolSizes[i]
		p.pools[i] = &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, 0, size)
				return &buf
			},
		}
	}
	return p
}

// Get returns a buffer with length size.
func (p *tieredPool) Get(size int) *[]byte {
	if size <= 0 {
		return &[]byte{}
	}
	if i := p.classFor(size); i >= 0 {
		buf := p.pools[i].Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	}
	buf := make([]byte, size)
	return &buf
}

// Put returns the buffer to the pool it was drawn from. Buffers larger than
// the biggest size class are dropped for the GC to reclaim.
func (p *tieredPool) Put(buffer *[]byte) {
	if buffer == nil {
		return
	}
	size := cap(*buffer)
	if size <= 0 || size > p.maxSize {
		return
	}
	*buffer = (*buffer)[:0]
	// A buffer of capacity c can serve any class <= c; file it under the
	// largest class that still fits so Get's length reslice stays in range.
	for i := len(poolSizes) - 1; i >= 0; i-- {
		if size >= poolSizes[i] {
			p.pools[i].Put(buffer)
			return
		}
	}
}

// classFor returns the index of the smallest size class holding size, or -1
// when size exceeds every class.
func (p *tieredPool) classFor(size int) int {
	for i, poolSize := range poolSizes {
		if size <= poolSize {
			return i
		}
	}
	return -1
}
