package codechat

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving records.
	StreamStateComplete                     // Done marker seen or body exhausted.
	StreamStateError                        // Next() returned a non-EOF error.
	StreamStateClosed                       // Close() called before a terminal state.
)

// Stream is a pull-based iterator over decoded response records.
// Next() returns io.EOF when the stream completes normally; once the done
// marker has been seen, no further records are read from the underlying
// body. Cancellation flows through the context passed to Backend.Stream().
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}

// ChatRequest carries the user text for one send operation.
type ChatRequest struct {
	Message string
}

// Backend is a strategy interface for assistant backends.
type Backend interface {
	Stream(ctx context.Context, req ChatRequest) (Stream, error)
}
