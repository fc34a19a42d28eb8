package transport

import "time"

const (
	defaultReadChunkSize   = 32 * 1024
	defaultWriteBufferSize = 4 * 1024
)

type transportOpt struct {
	readChunkSize   int
	writeBufferSize int
	readTimeout     time.Duration
	writeTimeout    time.Duration
}

func defaultOpt() *transportOpt {
	return &transportOpt{
		readChunkSize:   defaultReadChunkSize,
		writeBufferSize: defaultWriteBufferSize,
	}
}

type Option func(*transportOpt)

// WithReadChunkSize sets the size of the pooled buffers the source reads
// transport chunks into.
func WithReadChunkSize(n int) Option {
	return func(o *transportOpt) {
		if n > 0 {
			o.readChunkSize = n
		}
	}
}

// WithWriteBufferSize sets the initial capacity of the sink's staging buffer.
func WithWriteBufferSize(n int) Option {
	return func(o *transportOpt) {
		if n > 0 {
			o.writeBufferSize = n
		}
	}
}

// WithReadTimeout bounds each transport read when the underlying stream is a
// net.Conn. A tripped deadline ends the stream: the in-progress decode
// surfaces the conn's timeout error and no further chunks are read.
func WithReadTimeout(d time.Duration) Option {
	return func(o *transportOpt) { o.readTimeout = d }
}

// WithWriteTimeout bounds each flush when the underlying stream is a
// net.Conn.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *transportOpt) { o.writeTimeout = d }
}
