package gemini

import (
	"fmt"
	"io"
	"iter"

	"github.com/mfilipek/codechat"
	"google.golang.org/genai"
)

// stream implements [codechat.Stream] by wrapping the genai SDK's
// streaming iterator. Iterator exhaustion marks normal completion.
type stream struct {
	pull  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()
	state codechat.StreamState
	err   error
}

// Interface compliance check.
var _ codechat.Stream = (*stream)(nil)

func newStream(iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{
		pull:  next,
		stop:  stop,
		state: codechat.StreamStateNew,
	}
}

func (s *stream) Next() (codechat.Event, error) {
	switch s.state {
	case codechat.StreamStateComplete:
		return nil, io.EOF
	case codechat.StreamStateError:
		return nil, s.err
	case codechat.StreamStateClosed:
		return nil, codechat.ErrStreamClosed
	}

	for {
		resp, err, ok := s.pull()
		if !ok {
			s.state = codechat.StreamStateComplete
			return codechat.EventDone{}, nil
		}
		if err != nil {
			s.state = codechat.StreamStateError
			s.err = fmt.Errorf("gemini: %w", err)
			return nil, s.err
		}

		s.state = codechat.StreamStateStreaming

		if text := responseText(resp); text != "" {
			return codechat.EventContentDelta{Delta: text}, nil
		}
		// Thought-only or empty chunk, keep pulling.
	}
}

func (s *stream) State() codechat.StreamState {
	return s.state
}

func (s *stream) Close() error {
	if s.state != codechat.StreamStateComplete && s.state != codechat.StreamStateError {
		s.state = codechat.StreamStateClosed
	}
	s.stop()
	return nil
}

// responseText concatenates the visible text parts of a response chunk.
// Thought parts are internal to the model and never shown.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		out += p.Text
	}
	return out
}
