package protocol

import "context"

// WriteFrame frames payload onto sink: a 5-byte header (uncompressed flag
// plus big-endian payload length) followed by the payload bytes verbatim.
//
// With flush=false the frame stays buffered in the sink; with flush=true
// WriteFrame suspends until the sink has handed its buffered bytes to the
// transport. The payload length must already satisfy MaxMessageSize; that
// cap is enforced by message-size limits upstream, not here.
func WriteFrame(ctx context.Context, sink Sink, payload []byte, flush bool) error {
	hdr := sink.Reserve(HeaderSize)
	hdr[0] = flagUncompressed
	if err := AppendLength(hdr[1:], uint32(len(payload))); err != nil {
		return err
	}
	sink.Commit(HeaderSize)

	if len(payload) > 0 {
		if _, err := sink.Write(payload); err != nil {
			return err
		}
	}

	if flush {
		return sink.Flush(ctx)
	}
	return nil
}
