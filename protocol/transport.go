package protocol

import "context"

// Source supplies raw bytes from the transport to the frame decoder.
//
// A Source retains a window of received-but-unconsumed bytes. Pull returns
// that whole window, starting at the consumed position and extending through
// everything received so far, suspending only when the window holds nothing
// the caller has not already seen. Pull returns io.EOF (possibly together
// with a final non-empty window) once the transport will deliver no more
// bytes, and the context's error if cancelled while suspended; a cancelled
// pull leaves the window intact for a later retry.
//
// Consume marks the first n bytes of the window as extracted so the
// transport may discard them. Bytes examined but not consumed survive
// across pulls without copying by the caller.
//
// A Source is owned by one logical call chain at a time; it is not safe for
// concurrent use.
type Source interface {
	Pull(ctx context.Context) ([]byte, error)
	Consume(n int)
}

// Sink accepts framed bytes from the frame encoder.
//
// Reserve returns a writable region of at least n contiguous bytes; Commit
// makes the first m bytes of the most recent reservation visible. Write
// appends p verbatim. Buffered bytes are handed to the transport only on
// Flush, which suspends until the hand-off completes.
//
// A Sink is exclusively owned by the calling write operation for its
// duration; no concurrent writers.
type Sink interface {
	Reserve(n int) []byte
	Commit(m int)
	Write(p []byte) (int, error)
	Flush(ctx context.Context) error
}
