package protocol

import "errors"

var (
	// ErrBufferTooSmall reports a destination or source slice shorter than a
	// fixed header field. It indicates a caller bug, not a wire problem.
	ErrBufferTooSmall = errors.New("gwire: buffer too small for header field")

	// ErrMessageTooLarge reports a declared payload length above the signed
	// 32-bit maximum. The stream should be considered corrupted.
	ErrMessageTooLarge = errors.New("gwire: message length exceeds maximum")

	// ErrCorruptFrame reports a compression flag byte that is neither 0 nor 1.
	ErrCorruptFrame = errors.New("gwire: unexpected compression flag value")

	// ErrUnsupportedCompression reports a frame with the compressed flag set.
	// No compression codec is implemented.
	ErrUnsupportedCompression = errors.New("gwire: compressed frames are not supported")

	// ErrIncompleteMessage reports a stream that ended before a complete
	// frame arrived, or carried trailing bytes after the single expected one.
	ErrIncompleteMessage = errors.New("gwire: stream ended with incomplete message")

	// ErrReadCancelled reports a pull that was cancelled before data arrived.
	// The source's consumed position is unchanged and a retry may proceed.
	ErrReadCancelled = errors.New("gwire: read cancelled")
)
