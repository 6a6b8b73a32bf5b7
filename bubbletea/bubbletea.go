// Package bubbletea provides the Bubble Tea TUI for the chat client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mfilipek/codechat"
)

// SendFunc runs one send through the request pipeline. The onEvent
// callback is called for each streaming event. The function blocks until
// the response completes or the context is cancelled.
type SendFunc func(ctx context.Context, text string, onEvent func(codechat.Event)) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown — when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the model.
type StreamEventMsg struct {
	Event codechat.Event
}

// SendDoneMsg signals that the send pipeline has completed.
type SendDoneMsg struct {
	Err error
}

// NoticeMsg delivers a notification raised outside the Update loop.
type NoticeMsg struct {
	Notice Notice
}
