package local

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mfilipek/codechat"
)

// stream implements [codechat.Stream] by parsing newline-delimited records
// from an HTTP response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	logger  *slog.Logger
	state   codechat.StreamState
	done    bool  // a done marker arrived alongside content; emit EventDone on the next pull
	err     error // terminal error, if any
}

// Interface compliance check.
var _ codechat.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser, logger *slog.Logger) *stream {
	if logger == nil {
		logger = slog.Default()
	}
	return &stream{
		body:    body,
		scanner: bufio.NewScanner(body),
		ctx:     ctx,
		logger:  logger,
		state:   codechat.StreamStateNew,
	}
}

// Next reads the next semantic event from the response stream.
// Returns io.EOF when the stream completes normally. Once the server marks
// the response done, no further bytes are read from the connection.
func (s *stream) Next() (codechat.Event, error) {
	switch s.state {
	case codechat.StreamStateComplete:
		return nil, io.EOF
	case codechat.StreamStateError:
		return nil, s.err
	case codechat.StreamStateClosed:
		return nil, codechat.ErrStreamClosed
	}

	if s.done {
		s.state = codechat.StreamStateComplete
		return codechat.EventDone{}, nil
	}

	for {
		line, err := s.readLine()
		if err == io.EOF {
			// The server may just close the connection instead of sending
			// a done record. Treat exhaustion as normal completion.
			s.state = codechat.StreamStateComplete
			return codechat.EventDone{}, nil
		}
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}

		s.state = codechat.StreamStateStreaming

		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			// Blank lines and unprefixed noise are skipped.
			continue
		}

		var rec streamRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			// Malformed records are tolerated; the next record may be fine.
			s.logger.Debug("skipping malformed stream record", "payload", payload)
			continue
		}

		if rec.Error != "" {
			s.terminate(&codechat.UpstreamError{Message: rec.Error})
			return nil, s.err
		}

		if rec.Done {
			if rec.Content != "" {
				// Final record carries both: deliver the delta now, the
				// done event on the next pull.
				s.done = true
				return codechat.EventContentDelta{Delta: rec.Content}, nil
			}
			s.state = codechat.StreamStateComplete
			return codechat.EventDone{}, nil
		}

		if rec.Content != "" {
			return codechat.EventContentDelta{Delta: rec.Content}, nil
		}
		// Empty record, keep reading.
	}
}

// State returns the current stream state.
func (s *stream) State() codechat.StreamState {
	return s.state
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != codechat.StreamStateComplete && s.state != codechat.StreamStateError {
		s.state = codechat.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error and sets the appropriate state.
func (s *stream) terminate(err error) {
	s.state = codechat.StreamStateError
	if s.ctx.Err() != nil {
		s.err = s.ctx.Err()
		return
	}
	s.err = err
}

// readLine returns the next line from the response body. The scanner
// buffers partial lines, so a record split across network chunks is
// reassembled before it is parsed.
func (s *stream) readLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("local: %w", err)
	}
	return "", io.EOF
}
