package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crazyfrankie/gwire/mem"
	"github.com/crazyfrankie/gwire/protocol"
)

var _ protocol.Sink = (*StreamSink)(nil)

// StreamSink adapts an io.Writer into a protocol.Sink. Frames are staged in
// a pooled growable buffer; nothing reaches the writer until Flush. Flushes
// are serialized by a mutex so a sink may be shared across sequential write
// operations, but a single reserve/commit sequence belongs to one caller.
type StreamSink struct {
	mu   sync.Mutex
	w    io.Writer
	pool mem.BufferPool
	opt  *transportOpt

	// buf holds committed bytes; reserved is the size of the outstanding
	// reservation past len(*buf), invisible to Flush until committed.
	buf      *[]byte
	reserved int
}

// NewSink returns a StreamSink staging frames for w. If pool is nil the
// shared default pool is used.
func NewSink(w io.Writer, pool mem.BufferPool, opts ...Option) *StreamSink {
	opt := defaultOpt()
	for _, o := range opts {
		o(opt)
	}
	if pool == nil {
		pool = mem.DefaultBufferPool()
	}

	buf := pool.Get(opt.writeBufferSize)
	*buf = (*buf)[:0]
	return &StreamSink{
		w:    w,
		pool: pool,
		opt:  opt,
		buf:  buf,
	}
}

// Reserve returns a writable region of n contiguous bytes positioned after
// the committed bytes. The region stays invisible to Flush until Commit.
func (s *StreamSink) Reserve(n int) []byte {
	s.grow(n)
	b := *s.buf
	s.reserved = n
	return b[len(b) : len(b)+n]
}

// Commit makes the first m bytes of the most recent reservation visible.
func (s *StreamSink) Commit(m int) {
	if m < 0 || m > s.reserved {
		panic("gwire: commit beyond reservation")
	}
	*s.buf = (*s.buf)[:len(*s.buf)+m]
	s.reserved = 0
}

// Write appends p verbatim to the staged bytes. Any outstanding reservation
// must be committed first.
func (s *StreamSink) Write(p []byte) (int, error) {
	if s.reserved != 0 {
		panic("gwire: write with uncommitted reservation")
	}
	s.grow(len(p))
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}

// Buffered returns the number of staged bytes not yet flushed.
func (s *StreamSink) Buffered() int {
	return len(*s.buf)
}

// Flush hands all staged bytes to the writer, blocking until the write
// completes. A cancelled context fails the flush before any bytes move.
func (s *StreamSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	b := *s.buf
	if len(b) == 0 {
		return nil
	}

	if conn, ok := s.w.(net.Conn); ok && s.opt.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.opt.writeTimeout))
	}
	if _, err := s.w.Write(b); err != nil {
		zap.L().Debug("gwire: transport flush failed", zap.Error(err))
		return err
	}
	*s.buf = b[:0]
	return nil
}

// grow ensures capacity for n more bytes past the committed length,
// swapping to a larger pooled buffer when needed.
func (s *StreamSink) grow(n int) {
	b := *s.buf
	if cap(b)-len(b) >= n {
		return
	}
	want := len(b) + n
	if doubled := 2 * cap(b); doubled > want {
		want = doubled
	}
	next := s.pool.Get(want)
	*next = (*next)[:len(b)]
	copy(*next, b)
	old := s.buf
	s.buf = next
	s.pool.Put(old)
}
