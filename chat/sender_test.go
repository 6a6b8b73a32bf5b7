package chat_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mfilipek/codechat"
	"github.com/mfilipek/codechat/chat"
	"github.com/mfilipek/codechat/history"
	"github.com/mfilipek/codechat/local"
	"github.com/mfilipek/codechat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStream plays back a fixed sequence of events followed by io.EOF.
func scriptedStream(events ...codechat.Event) *mock.Stream {
	i := 0
	return &mock.Stream{
		NextFn: func() (codechat.Event, error) {
			if i >= len(events) {
				return nil, io.EOF
			}
			evt := events[i]
			i++
			return evt, nil
		},
	}
}

func scriptedBackend(events ...codechat.Event) *mock.Backend {
	return &mock.Backend{
		StreamFn: func(ctx context.Context, req codechat.ChatRequest) (codechat.Stream, error) {
			return scriptedStream(events...), nil
		},
	}
}

// recordingNotifier captures every notification for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	progress  []string
	dismissed int
}

func (n *recordingNotifier) mock() *mock.Notifier {
	return &mock.Notifier{
		SuccessFn: func(msg string) {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.successes = append(n.successes, msg)
		},
		ErrorFn: func(msg string) {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.errors = append(n.errors, msg)
		},
		ProgressFn: func(msg string) func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.progress = append(n.progress, msg)
			return func() {
				n.mu.Lock()
				defer n.mu.Unlock()
				n.dismissed++
			}
		},
	}
}

func newSender(t *testing.T, backend codechat.Backend) (*chat.Sender, *history.Manager, *recordingNotifier) {
	t.Helper()
	hist := history.New(mock.NewMemStore(), nil)
	hist.Initialize(context.Background())
	notifier := &recordingNotifier{}
	return chat.New(backend, hist, notifier.mock(), nil), hist, notifier
}

func TestSender_StreamedResponse(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(
		codechat.EventContentDelta{Delta: "Hel"},
		codechat.EventContentDelta{Delta: "lo"},
		codechat.EventDone{},
	)
	sender, hist, notifier := newSender(t, backend)

	err := sender.Send(context.Background(), "hi there")
	require.NoError(t, err)

	msgs := hist.CurrentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi there", msgs[0].Text)
	assert.True(t, msgs[0].IsUser)
	assert.Equal(t, "Hello", msgs[1].Text)
	assert.False(t, msgs[1].IsUser)

	assert.Equal(t, []string{"Thinking..."}, notifier.progress)
	assert.Equal(t, 1, notifier.dismissed)
	assert.Empty(t, notifier.errors)
}

// A server that closes the connection without a done record still produced
// a response. The accumulated content must be kept, not replaced by the
// apology.
func TestSender_StreamEndsWithoutDone(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"content\":\"Hel\"}\n")
		fmt.Fprint(w, "data: {\"content\":\"lo\"}\n")
	}))
	t.Cleanup(srv.Close)

	backend := local.New(local.WithBaseURL(srv.URL))
	sender, hist, notifier := newSender(t, backend)

	err := sender.Send(context.Background(), "hi")
	require.NoError(t, err)

	msgs := hist.CurrentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[1].Text)
	assert.Empty(t, notifier.errors)
	assert.Equal(t, 1, notifier.dismissed)
}

func TestSender_EmptyMessage(t *testing.T) {
	t.Parallel()

	sender, hist, notifier := newSender(t, scriptedBackend())

	err := sender.Send(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, codechat.ErrEmptyMessage)
	assert.Empty(t, hist.CurrentMessages())
	assert.Empty(t, notifier.progress)
}

func TestSender_TrimsInput(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(codechat.EventContentDelta{Delta: "ok"}, codechat.EventDone{})
	sender, hist, _ := newSender(t, backend)

	require.NoError(t, sender.Send(context.Background(), "  hello  "))

	assert.Equal(t, "hello", hist.CurrentMessages()[0].Text)
}

func TestSender_RejectsConcurrentSend(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	backend := &mock.Backend{
		StreamFn: func(ctx context.Context, req codechat.ChatRequest) (codechat.Stream, error) {
			first := true
			return &mock.Stream{
				NextFn: func() (codechat.Event, error) {
					if first {
						first = false
						close(started)
						<-release
						return codechat.EventContentDelta{Delta: "ok"}, nil
					}
					return nil, io.EOF
				},
			}, nil
		},
	}
	sender, _, _ := newSender(t, backend)

	done := make(chan error, 1)
	go func() {
		done <- sender.Send(context.Background(), "first")
	}()

	<-started
	assert.True(t, sender.Sending())
	err := sender.Send(context.Background(), "second")
	assert.ErrorIs(t, err, codechat.ErrSendInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, sender.Sending())
}

func TestSender_BackendUnreachable(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		StreamFn: func(ctx context.Context, req codechat.ChatRequest) (codechat.Stream, error) {
			return nil, assert.AnError
		},
	}
	sender, hist, notifier := newSender(t, backend)

	err := sender.Send(context.Background(), "hi")
	require.Error(t, err)

	msgs := hist.CurrentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Text, "user message is kept")
	assert.Equal(t, chat.Apology, msgs[1].Text)

	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "backend is running")
	assert.Equal(t, 1, notifier.dismissed)
}

func TestSender_UpstreamErrorMidStream(t *testing.T) {
	t.Parallel()

	upstream := &codechat.UpstreamError{Message: "model crashed"}
	events := []codechat.Event{codechat.EventContentDelta{Delta: "par"}}
	backend := &mock.Backend{
		StreamFn: func(ctx context.Context, req codechat.ChatRequest) (codechat.Stream, error) {
			i := 0
			return &mock.Stream{
				NextFn: func() (codechat.Event, error) {
					if i < len(events) {
						evt := events[i]
						i++
						return evt, nil
					}
					return nil, upstream
				},
			}, nil
		},
	}
	sender, hist, notifier := newSender(t, backend)

	err := sender.Send(context.Background(), "hi")
	require.ErrorIs(t, err, upstream)

	// Partial content is replaced by the apology.
	msgs := hist.CurrentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.Apology, msgs[1].Text)
	assert.Equal(t, []string{"model crashed"}, notifier.errors)
}

func TestSender_EmptyResponse(t *testing.T) {
	t.Parallel()

	sender, hist, notifier := newSender(t, scriptedBackend(codechat.EventDone{}))

	err := sender.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, codechat.ErrEmptyResponse)

	msgs := hist.CurrentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.Apology, msgs[1].Text)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "No response received")
}

func TestSender_EventHandler(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(
		codechat.EventContentDelta{Delta: "Hi"},
		codechat.EventDone{},
	)
	sender, _, _ := newSender(t, backend)

	var seen []codechat.Event
	err := sender.Send(context.Background(), "hello", chat.WithEventHandler(func(evt codechat.Event) {
		seen = append(seen, evt)
	}))
	require.NoError(t, err)

	assert.Equal(t, []codechat.Event{
		codechat.EventContentDelta{Delta: "Hi"},
		codechat.EventDone{},
	}, seen)
}

func TestSender_FirstMessageTitlesSession(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(codechat.EventContentDelta{Delta: "ok"}, codechat.EventDone{})
	sender, hist, _ := newSender(t, backend)

	require.NoError(t, sender.Send(context.Background(), "rename this function"))

	assert.Equal(t, "rename this function", hist.Sessions()[0].Title)
}
