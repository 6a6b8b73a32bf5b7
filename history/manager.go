// Package history owns the in-memory session list and the current-session
// selection. It is the only writer to the persistent store: every mutation
// re-saves the whole history once the initial load has completed.
package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mfilipek/codechat"
)

// Manager holds the session history and the id of the current session.
// All methods are safe for concurrent use; each operation is atomic with
// respect to the others.
type Manager struct {
	store  codechat.Store
	logger *slog.Logger

	mu          sync.Mutex
	sessions    []codechat.Session
	currentID   string
	loading     bool
	initialized bool
}

// New creates a Manager backed by store. A nil logger falls back to
// slog.Default(). The manager reports Loading() until Initialize completes.
func New(store codechat.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger, loading: true}
}

// Initialize loads the history from the store. A non-empty history selects
// its first (most recent) session; an empty one synthesizes a fresh session
// so the current-session reference is never dangling. Initialize runs at
// most once; later calls are no-ops.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return
	}
	m.initialized = true

	sessions, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("loading history failed, starting empty", "error", err)
		sessions = nil
	}
	if len(sessions) == 0 {
		sessions = []codechat.Session{codechat.NewSession()}
	}
	m.sessions = sessions
	m.currentID = sessions[0].ID
	m.loading = false
	m.persist(ctx)
}

// StartNewChat prepends a fresh session and makes it current.
func (m *Manager) StartNewChat(ctx context.Context) codechat.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := codechat.NewSession()
	m.sessions = append([]codechat.Session{s}, m.sessions...)
	m.currentID = s.ID
	m.persist(ctx)
	return s
}

// SelectSession makes id the current session. Existence is not validated:
// callers pass ids from the current list, and an unknown id simply yields an
// empty current-message view.
func (m *Manager) SelectSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentID = id
}

// AddMessage appends a message to the current session and refreshes its
// UpdatedAt. The first user message into an empty session also derives the
// session title. Reports whether a message was appended; without a current
// session this is a no-op.
func (m *Manager) AddMessage(ctx context.Context, text string, isUser bool) (codechat.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.currentIndex()
	if idx < 0 {
		return codechat.Message{}, false
	}

	msg := codechat.Message{
		ID:        codechat.NewMessageID(),
		Text:      text,
		IsUser:    isUser,
		Timestamp: time.Now(),
	}

	s := m.sessions[idx]
	wasEmpty := len(s.Messages) == 0
	s.Messages = append(snapshotMessages(s.Messages), msg)
	s.UpdatedAt = msg.Timestamp
	if wasEmpty && isUser {
		s.Title = codechat.DeriveTitle(text)
	}
	m.sessions[idx] = s
	m.persist(ctx)
	return msg, true
}

// UpdateLastAssistantMessage replaces the text and timestamp of the current
// session's last message, provided that message is assistant-authored. When
// the session is empty or ends with a user message this is a no-op: the
// pipeline always appends an assistant placeholder before patching.
func (m *Manager) UpdateLastAssistantMessage(ctx context.Context, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.currentIndex()
	if idx < 0 {
		return
	}
	s := m.sessions[idx]
	n := len(s.Messages)
	if n == 0 || s.Messages[n-1].IsUser {
		return
	}

	msgs := snapshotMessages(s.Messages)
	last := msgs[n-1]
	last.Text = text
	last.Timestamp = time.Now()
	msgs[n-1] = last
	s.Messages = msgs
	s.UpdatedAt = last.Timestamp
	m.sessions[idx] = s
	m.persist(ctx)
}

// Sessions returns a snapshot of all sessions, newest-created first.
func (m *Manager) Sessions() []codechat.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]codechat.Session(nil), m.sessions...)
}

// CurrentSessionID returns the id of the current session, or "" if none is
// selected.
func (m *Manager) CurrentSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// CurrentMessages returns the message sequence of the current session, or
// nil when no session matches the current id.
func (m *Manager) CurrentMessages() []codechat.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.currentIndex()
	if idx < 0 {
		return nil
	}
	return append([]codechat.Message(nil), m.sessions[idx].Messages...)
}

// Loading reports whether the initial load is still pending.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// currentIndex returns the position of the current session, or -1. Callers
// hold mu.
func (m *Manager) currentIndex() int {
	if m.currentID == "" {
		return -1
	}
	for i := range m.sessions {
		if m.sessions[i].ID == m.currentID {
			return i
		}
	}
	return -1
}

// persist re-saves the whole history. Callers hold mu. Failures are logged;
// storage problems never propagate to mutation callers.
func (m *Manager) persist(ctx context.Context) {
	if m.loading {
		return
	}
	if err := m.store.Save(ctx, append([]codechat.Session(nil), m.sessions...)); err != nil {
		m.logger.Warn("saving history failed", "error", err)
	}
}

// snapshotMessages copies a message slice so previously returned snapshots
// are never mutated through shared backing arrays.
func snapshotMessages(msgs []codechat.Message) []codechat.Message {
	out := make([]codechat.Message, len(msgs))
	copy(out, msgs)
	return out
}
