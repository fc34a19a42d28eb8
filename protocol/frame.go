// Package protocol implements the gRPC wire-message framing protocol:
// length-delimited frames carried over a byte-oriented stream.
//
// Frame format:
//   - 1 byte: compression flag (0x00 uncompressed, 0x01 compressed)
//   - 4 bytes: big-endian unsigned 32-bit payload length, at most 2^31-1
//   - N bytes: opaque payload
//
// Compressed frames are rejected on decode and never produced on encode.
package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// HeaderSize is the fixed size of the frame prefix:
	// 1 compression flag byte plus 4 length bytes.
	HeaderSize = 5

	// MaxMessageSize is the largest payload length a frame may declare.
	// The length field is unsigned on the wire but must stay within the
	// signed 32-bit range.
	MaxMessageSize = math.MaxInt32

	flagUncompressed byte = 0x00
	flagCompressed   byte = 0x01
)

// Header is the fixed 5-byte frame prefix.
type Header [HeaderSize]byte

// SetCompressed sets the compression flag byte.
func (h *Header) SetCompressed(c bool) {
	if c {
		h[0] = flagCompressed
	} else {
		h[0] = flagUncompressed
	}
}

// Compressed decodes the compression flag byte.
func (h *Header) Compressed() (bool, error) {
	return ReadCompressionFlag(h[0])
}

// SetLength writes the payload length field.
func (h *Header) SetLength(length uint32) {
	binary.BigEndian.PutUint32(h[1:], length)
}

// Length decodes the payload length field.
func (h *Header) Length() (uint32, error) {
	return ReadLength(h[1:])
}

// AppendLength writes length into the first four bytes of dst as a
// big-endian unsigned 32-bit integer. The destination must hold at least
// four bytes; anything shorter is a caller bug and fails with
// ErrBufferTooSmall.
func AppendLength(dst []byte, length uint32) error {
	if len(dst) < 4 {
		return ErrBufferTooSmall
	}
	binary.BigEndian.PutUint32(dst[:4], length)
	return nil
}

// ReadLength decodes the first four bytes of src as a big-endian unsigned
// 32-bit integer. Values above MaxMessageSize fail with ErrMessageTooLarge
// even though they fit the unsigned field.
func ReadLength(src []byte) (uint32, error) {
	if len(src) < 4 {
		return 0, ErrBufferTooSmall
	}
	length := binary.BigEndian.Uint32(src[:4])
	if length > MaxMessageSize {
		return 0, fmt.Errorf("%w: declared length %d", ErrMessageTooLarge, length)
	}
	return length, nil
}

// ReadCompressionFlag decodes the compression flag byte. Any value other
// than 0 or 1 is a corrupted frame.
func ReadCompressionFlag(b byte) (bool, error) {
	switch b {
	case flagUncompressed:
		return false, nil
	case flagCompressed:
		return true, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x", ErrCorruptFrame, b)
	}
}
