// Package transport binds the framing protocol's byte source and sink
// contracts to io streams. It owns the buffer pool the bindings allocate
// from; the protocol layer only borrows through it.
package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/crazyfrankie/gwire/mem"
	"github.com/crazyfrankie/gwire/protocol"
)

var _ protocol.Source = (*StreamSource)(nil)

// StreamSource adapts an io.Reader into a protocol.Source. Reads run on a
// dedicated goroutine into pooled chunk buffers so Pull can honor context
// cancellation without losing bytes: a cancelled pull leaves the retained
// window exactly as it was.
//
// Not safe for concurrent use; one logical call chain owns the source.
type StreamSource struct {
	pool   mem.BufferPool
	chunks chan sourceChunk
	done   chan struct{}
	closer io.Closer

	// window holds every received-but-unconsumed byte. start is the
	// consumed pointer; examined marks how far the last Pull served, so
	// Pull knows whether it must suspend for new data.
	window   []byte
	start    int
	examined int
	err      error
}

type sourceChunk struct {
	buf *[]byte
	err error
}

// NewSource returns a StreamSource reading from r. If pool is nil the
// shared default pool is used. The source owns a reader goroutine until r
// fails, ends, or Close is called.
func NewSource(r io.Reader, pool mem.BufferPool, opts ...Option) *StreamSource {
	opt := defaultOpt()
	for _, o := range opts {
		o(opt)
	}
	if pool == nil {
		pool = mem.DefaultBufferPool()
	}

	s := &StreamSource{
		pool:   pool,
		chunks: make(chan sourceChunk, 1),
		done:   make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	go s.readLoop(r, opt)
	return s
}

func (s *StreamSource) readLoop(r io.Reader, opt *transportOpt) {
	conn, _ := r.(net.Conn)
	for {
		if conn != nil && opt.readTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(opt.readTimeout))
		}

		buf := s.pool.Get(opt.readChunkSize)
		n, err := r.Read(*buf)
		if n > 0 {
			*buf = (*buf)[:n]
		} else {
			s.pool.Put(buf)
			buf = nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			zap.L().Debug("gwire: transport read failed", zap.Error(err))
		}

		select {
		case s.chunks <- sourceChunk{buf: buf, err: err}:
		case <-s.done:
			if buf != nil {
				s.pool.Put(buf)
			}
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *StreamSource) absorb(c sourceChunk) {
	if c.buf != nil {
		s.window = append(s.window, (*c.buf)...)
		s.pool.Put(c.buf)
	}
	if c.err != nil {
		s.err = c.err
	}
}

// Pull returns the unconsumed window, suspending only while it holds
// nothing the caller has not already seen. Once the stream ends, Pull
// returns the remaining window together with io.EOF.
func (s *StreamSource) Pull(ctx context.Context) ([]byte, error) {
	// Fold in chunks that arrived since the last pull.
	for s.err == nil {
		select {
		case c := <-s.chunks:
			s.absorb(c)
			continue
		default:
		}
		break
	}

	for s.err == nil && len(s.window) == s.examined {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case c := <-s.chunks:
			s.absorb(c)
		}
	}

	s.examined = len(s.window)
	tail := s.window[s.start:]
	if s.err != nil {
		return tail, s.err
	}
	return tail, nil
}

// Consume marks the first n bytes of the window as extracted. The remaining
// tail counts as unseen again, so the next Pull returns it without
// suspending.
func (s *StreamSource) Consume(n int) {
	if n < 0 || s.start+n > len(s.window) {
		panic("gwire: consume beyond examined window")
	}
	s.start += n
	if s.start == len(s.window) {
		s.window = s.window[:0]
		s.start = 0
	}
	s.examined = s.start
}

// Close stops the reader goroutine and closes the underlying stream when it
// implements io.Closer. Safe to call once.
func (s *StreamSource) Close() error {
	close(s.done)
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
