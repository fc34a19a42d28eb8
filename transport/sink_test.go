package transport

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkStagesUntilFlush(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out, nil)

	region := sink.Reserve(5)
	copy(region, []byte{0x00, 0x00, 0x00, 0x00, 0x01})
	sink.Commit(5)
	_, err := sink.Write([]byte{0xAB})
	require.NoError(t, err)

	assert.Equal(t, 6, sink.Buffered())
	assert.Zero(t, out.Len())

	require.NoError(t, sink.Flush(context.Background()))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0xAB}, out.Bytes())
	assert.Zero(t, sink.Buffered())
}

func TestSinkPartialCommit(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out, nil)

	region := sink.Reserve(8)
	copy(region, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	sink.Commit(3)

	assert.Equal(t, 3, sink.Buffered())
	require.NoError(t, sink.Flush(context.Background()))
	assert.Equal(t, []byte{1, 2, 3}, out.Bytes())
}

func TestSinkCommitBeyondReservationPanics(t *testing.T) {
	sink := NewSink(&bytes.Buffer{}, nil)
	sink.Reserve(2)
	assert.Panics(t, func() { sink.Commit(3) })
}

func TestSinkGrowsPastInitialCapacity(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out, nil, WithWriteBufferSize(8))

	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i)
	}
	region := sink.Reserve(5)
	copy(region, []byte{9, 9, 9, 9, 9})
	sink.Commit(5)
	_, err := sink.Write(payload)
	require.NoError(t, err)

	require.NoError(t, sink.Flush(context.Background()))
	require.Equal(t, 1005, out.Len())
	assert.Equal(t, []byte{9, 9, 9, 9, 9}, out.Bytes()[:5])
	assert.Equal(t, payload, out.Bytes()[5:])
}

func TestSinkFlushCancelledContext(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out, nil)
	_, err := sink.Write([]byte{0x01})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sink.Flush(ctx))

	// Nothing moved; a later flush still delivers the staged bytes.
	assert.Zero(t, out.Len())
	assert.Equal(t, 1, sink.Buffered())
	require.NoError(t, sink.Flush(context.Background()))
	assert.Equal(t, []byte{0x01}, out.Bytes())
}

func TestSinkFlushEmptyIsNoop(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out, nil)
	require.NoError(t, sink.Flush(context.Background()))
	assert.Zero(t, out.Len())
}
