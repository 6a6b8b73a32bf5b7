package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mfilipek/codechat"
	bt "github.com/mfilipek/codechat/bubbletea"
	"github.com/mfilipek/codechat/history"
	"github.com/mfilipek/codechat/mock"
	"github.com/stretchr/testify/require"
)

// newModel creates a model backed by an in-memory history with one empty
// session.
func newModel(t *testing.T, send bt.SendFunc) (bt.Model, *history.Manager) {
	t.Helper()
	hist := history.New(mock.NewMemStore(), nil)
	hist.Initialize(context.Background())
	m := bt.New(send, hist, bt.NewNotices(), codechat.DefaultTheme())
	return m, hist
}

// initModel additionally sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, send bt.SendFunc) (bt.Model, *history.Manager) {
	t.Helper()
	m, hist := newModel(t, send)
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24}), hist
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopSend is a send function that does nothing.
func nopSend(_ context.Context, _ string, _ func(codechat.Event)) error {
	return nil
}
