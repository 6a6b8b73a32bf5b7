package codechat

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrEmptyMessage indicates Send was called with whitespace-only text.
	ErrEmptyMessage = errors.New("empty message")

	// ErrSendInFlight indicates a send was attempted while another was
	// already streaming.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrEmptyResponse indicates the stream ended without any content,
	// even though the HTTP call itself succeeded.
	ErrEmptyResponse = errors.New("no response received")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// UpstreamError is an explicit error reported by the backend inside the
// response stream (the "error" field of a record).
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "backend error: " + e.Message
}
