package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// A Reader decodes frames from a Source. It holds no state across calls
// beyond the Source binding itself; each ReadFrame is one logical read
// operation. Not safe for concurrent use.
type Reader struct {
	src Source
}

// NewReader returns a Reader decoding frames pulled from src.
func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// ReadFrame pulls bytes from the source until one complete frame can be
// decoded and returns its payload as a freshly allocated slice, independent
// of the source's internal buffers.
//
// In multi-message mode (multi=true) the first complete frame is returned
// immediately and any remaining bytes are left unconsumed for subsequent
// calls; a stream that ends cleanly on a frame boundary yields (nil, io.EOF).
//
// In single-message mode (multi=false) exactly one frame must fill the
// remaining stream: ReadFrame keeps reading after extracting it and any
// trailing bytes fail with ErrIncompleteMessage, as does a stream that ends
// before the frame completes.
//
// Cancellation while suspended fails with ErrReadCancelled and consumes
// nothing; the source position is unchanged.
func (r *Reader) ReadFrame(ctx context.Context, multi bool) ([]byte, error) {
	var (
		complete     []byte
		haveComplete bool
	)

	for {
		window, err := r.src.Pull(ctx)
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w", ErrReadCancelled, err)
			}
			return nil, err
		}

		if haveComplete {
			// Single-message mode, frame already extracted: the stream
			// must end here. Anything else is a protocol violation.
			if len(window) > 0 {
				return nil, fmt.Errorf("%w: %d trailing bytes after message", ErrIncompleteMessage, len(window))
			}
			if eof {
				return complete, nil
			}
			continue
		}

		if len(window) >= HeaderSize {
			compressed, ferr := ReadCompressionFlag(window[0])
			if ferr != nil {
				return nil, ferr
			}
			if compressed {
				return nil, ErrUnsupportedCompression
			}
			length, lerr := ReadLength(window[1:HeaderSize])
			if lerr != nil {
				return nil, lerr
			}

			// Widened so a near-maximum length cannot wrap int on
			// 32-bit platforms.
			if total := int64(HeaderSize) + int64(length); int64(len(window)) >= total {
				end := int(total)
				// The source's buffer may be recycled once consumed,
				// so the payload is copied out.
				payload := make([]byte, length)
				copy(payload, window[HeaderSize:end])
				r.src.Consume(end)

				if multi {
					return payload, nil
				}
				complete, haveComplete = payload, true
				if rest := len(window) - end; rest > 0 {
					return nil, fmt.Errorf("%w: %d trailing bytes after message", ErrIncompleteMessage, rest)
				}
				if eof {
					return complete, nil
				}
				continue
			}
		}

		if eof {
			if multi && len(window) == 0 {
				return nil, io.EOF
			}
			return nil, ErrIncompleteMessage
		}
	}
}
