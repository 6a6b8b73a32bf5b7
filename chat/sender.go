// Package chat coordinates a single send: it records the user message,
// streams the assistant response into history, and reports progress and
// failures through a [codechat.Notifier].
package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/mfilipek/codechat"
	"github.com/mfilipek/codechat/history"
)

// Apology replaces the assistant placeholder when a send fails, so a
// half-finished response never looks like a complete one.
const Apology = "Sorry, I encountered an error. Please try again."

// SendOption configures a single [Sender.Send] call.
type SendOption func(*sendConfig)

type sendConfig struct {
	onEvent func(codechat.Event)
}

// WithEventHandler registers a callback invoked for every stream event,
// on the calling goroutine, before history is updated.
func WithEventHandler(fn func(codechat.Event)) SendOption {
	return func(c *sendConfig) { c.onEvent = fn }
}

// Sender runs the request pipeline. At most one send is in flight at a
// time; concurrent calls fail fast with [codechat.ErrSendInFlight].
type Sender struct {
	backend  codechat.Backend
	history  *history.Manager
	notifier codechat.Notifier
	logger   *slog.Logger

	sending atomic.Bool
}

// New creates a [Sender]. A nil logger falls back to [slog.Default].
func New(backend codechat.Backend, hist *history.Manager, notifier codechat.Notifier, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		backend:  backend,
		history:  hist,
		notifier: notifier,
		logger:   logger,
	}
}

// Sending reports whether a send is currently in flight.
func (s *Sender) Sending() bool {
	return s.sending.Load()
}

// Send records the user message, streams the response into the current
// session, and returns once the response is complete or has failed.
// Whitespace-only input fails with [codechat.ErrEmptyMessage] before any
// state changes.
func (s *Sender) Send(ctx context.Context, text string, opts ...SendOption) error {
	var cfg sendConfig
	for _, o := range opts {
		o(&cfg)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return codechat.ErrEmptyMessage
	}

	if !s.sending.CompareAndSwap(false, true) {
		return codechat.ErrSendInFlight
	}
	defer s.sending.Store(false)

	if _, ok := s.history.AddMessage(ctx, trimmed, true); !ok {
		s.logger.Warn("send with no current session")
		return nil
	}

	dismiss := s.notifier.Progress("Thinking...")
	defer dismiss()

	// Placeholder the stream folds into.
	s.history.AddMessage(ctx, "", false)

	if err := s.streamResponse(ctx, trimmed, cfg.onEvent); err != nil {
		s.fail(ctx, err)
		return err
	}
	return nil
}

func (s *Sender) streamResponse(ctx context.Context, text string, onEvent func(codechat.Event)) error {
	stream, err := s.backend.Stream(ctx, codechat.ChatRequest{Message: text})
	if err != nil {
		return err
	}
	defer stream.Close()

	var acc strings.Builder
	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if onEvent != nil {
			onEvent(evt)
		}

		switch e := evt.(type) {
		case codechat.EventContentDelta:
			acc.WriteString(e.Delta)
			s.history.UpdateLastAssistantMessage(ctx, acc.String())
		case codechat.EventDone:
		}
	}

	if acc.Len() == 0 {
		return codechat.ErrEmptyResponse
	}
	return nil
}

// fail overwrites the assistant placeholder with the apology and surfaces
// a readable message. Partial content is discarded so the session never
// keeps a truncated response.
func (s *Sender) fail(ctx context.Context, err error) {
	s.logger.Warn("send failed", "error", err)
	s.notifier.Error(userMessage(err))
	s.history.UpdateLastAssistantMessage(ctx, Apology)
}

func userMessage(err error) string {
	var upstream *codechat.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return upstream.Message
	case errors.Is(err, codechat.ErrEmptyResponse):
		return "No response received from the assistant."
	default:
		return "Failed to reach the assistant. Make sure the backend is running."
	}
}
