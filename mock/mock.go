// Package mock provides test doubles for codechat interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/mfilipek/codechat"
)

// Interface compliance checks.
var (
	_ codechat.Backend  = (*Backend)(nil)
	_ codechat.Stream   = (*Stream)(nil)
	_ codechat.Store    = (*Store)(nil)
	_ codechat.Notifier = (*Notifier)(nil)
)

// Backend is a test double for codechat.Backend.
// Set StreamFn before calling Stream.
type Backend struct {
	StreamFn func(ctx context.Context, req codechat.ChatRequest) (codechat.Stream, error)
}

// Stream delegates to StreamFn.
func (b *Backend) Stream(ctx context.Context, req codechat.ChatRequest) (codechat.Stream, error) {
	return b.StreamFn(ctx, req)
}

// Stream is a test double for codechat.Stream.
// NextFn panics when nil to catch missing setup. StateFn and CloseFn are
// nil-safe (zero value and no-op) because test code commonly calls
// defer stream.Close() and these methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (codechat.Event, error)
	StateFn func() codechat.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (codechat.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() codechat.StreamState {
	if s.StateFn == nil {
		return codechat.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Store is a test double for codechat.Store.
// Set the function fields for the methods you need; nil fields behave as an
// empty, always-succeeding store.
type Store struct {
	LoadFn func(ctx context.Context) ([]codechat.Session, error)
	SaveFn func(ctx context.Context, sessions []codechat.Session) error
}

// Load delegates to LoadFn. Returns an empty history when LoadFn is nil.
func (s *Store) Load(ctx context.Context) ([]codechat.Session, error) {
	if s.LoadFn == nil {
		return nil, nil
	}
	return s.LoadFn(ctx)
}

// Save delegates to SaveFn. Returns nil when SaveFn is not set.
func (s *Store) Save(ctx context.Context, sessions []codechat.Session) error {
	if s.SaveFn == nil {
		return nil
	}
	return s.SaveFn(ctx, sessions)
}

// Notifier is a test double for codechat.Notifier. Nil fields are no-ops.
type Notifier struct {
	SuccessFn  func(msg string)
	ErrorFn    func(msg string)
	ProgressFn func(msg string) func()
}

// Success delegates to SuccessFn.
func (n *Notifier) Success(msg string) {
	if n.SuccessFn != nil {
		n.SuccessFn(msg)
	}
}

// Error delegates to ErrorFn.
func (n *Notifier) Error(msg string) {
	if n.ErrorFn != nil {
		n.ErrorFn(msg)
	}
}

// Progress delegates to ProgressFn. Returns a no-op dismiss function when
// ProgressFn is not set.
func (n *Notifier) Progress(msg string) func() {
	if n.ProgressFn == nil {
		return func() {}
	}
	return n.ProgressFn(msg)
}
