package bubbletea

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/mfilipek/codechat"
	"github.com/mfilipek/codechat/history"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send    SendFunc
	history *history.Manager
	notices *Notices
	theme   codechat.Theme
	styles  Styles

	blocks []MessageBlock
	// active receives content deltas for the in-flight response.
	active *AssistantTextBlock

	running bool
	cancel  context.CancelFunc
	eventCh chan codechat.Event
	doneCh  chan error
	notice  *Notice
	ready   bool
}

// New creates a new TUI Model.
func New(send SendFunc, hist *history.Manager, notices *Notices, theme codechat.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your code..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:   ti,
		send:    send,
		history: hist,
		notices: notices,
		theme:   theme,
		styles:  NewStyles(theme),
	}
}

// Running returns whether a send is in flight.
func (m Model) Running() bool { return m.running }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForNotice(m.notices))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case SendDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		// History now holds the final text (or the apology), so rebuild
		// from it rather than trusting the streamed blocks.
		m = m.rebuildFromHistory()
		cmds = append(cmds, m.Input.Focus())
		return m, tea.Batch(cmds...)

	case NoticeMsg:
		if msg.Notice.Kind == noticeDismiss {
			if m.notice != nil && m.notice.Kind == NoticeProgress {
				m.notice = nil
			}
		} else {
			notice := msg.Notice
			m.notice = &notice
		}
		return m, listenForNotice(m.notices)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading chat history..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	const chromeHeight = 3 // status line, input line, separating newlines
	vpHeight := max(msg.Height-chromeHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.rebuildFromHistory()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyCtrlN:
		if !m.running {
			m.history.StartNewChat(context.Background())
			m = m.rebuildFromHistory()
			m.notice = &Notice{Kind: NoticeSuccess, Text: "Started a new chat"}
		}
		return m, nil

	case tea.KeyCtrlP:
		if !m.running {
			m = m.cycleSession()
		}
		return m, nil
	}

	// When idle, pass keys to both the input (for typing) and the viewport
	// (for scrolling). Character keys go only to the input.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.notice = nil

	// Optimistic render; history catches up through the pipeline.
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan codechat.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startSend(m.send, ctx, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// cycleSession selects the next session in the list, wrapping around.
func (m Model) cycleSession() Model {
	sessions := m.history.Sessions()
	if len(sessions) < 2 {
		return m
	}
	next := 0
	for i, s := range sessions {
		if s.ID == m.history.CurrentSessionID() {
			next = (i + 1) % len(sessions)
			break
		}
	}
	m.history.SelectSession(sessions[next].ID)
	return m.rebuildFromHistory()
}

// rebuildFromHistory replaces the block list with the current session's
// messages.
func (m Model) rebuildFromHistory() Model {
	m.blocks = nil
	m.active = nil
	for _, msg := range m.history.CurrentMessages() {
		if msg.IsUser {
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Text, m.styles))
			continue
		}
		block := NewAssistantTextBlock(m.theme)
		block.Append(msg.Text)
		m.blocks = append(m.blocks, block)
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	var parts []string
	for _, block := range m.blocks {
		if v := block.View(m.Viewport.Width); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) processEvent(evt codechat.Event) Model {
	if e, ok := evt.(codechat.EventContentDelta); ok {
		if m.active == nil {
			m.active = NewAssistantTextBlock(m.theme)
			m.blocks = append(m.blocks, m.active)
		}
		m.active.Append(e.Delta)
	}
	return m
}

func (m Model) statusLine() string {
	left := m.helpText()
	if m.notice != nil {
		switch m.notice.Kind {
		case NoticeError:
			left = m.styles.Error.Render(m.notice.Text)
		case NoticeSuccess:
			left = m.styles.Success.Render(m.notice.Text)
		case NoticeProgress:
			left = m.styles.Muted.Render(m.notice.Text)
		}
	} else if m.running {
		left = m.styles.Muted.Render("Generating...")
	}

	label := m.sessionLabel()
	if label == "" {
		return left
	}
	return left + " " + m.styles.Accent.Render(label)
}

func (m Model) helpText() string {
	return m.styles.Muted.Render("Enter send · Ctrl+N new chat · Ctrl+P switch · Ctrl+C quit")
}

// sessionLabel returns the current session title, truncated so the status
// line never wraps.
func (m Model) sessionLabel() string {
	for _, s := range m.history.Sessions() {
		if s.ID == m.history.CurrentSessionID() {
			maxWidth := max(m.Viewport.Width/3, 10)
			return "[" + runewidth.Truncate(s.Title, maxWidth, "…") + "]"
		}
	}
	return ""
}

// startSend runs the send pipeline in a goroutine and signals completion.
func startSend(send SendFunc, ctx context.Context, text string, eventCh chan<- codechat.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := send(ctx, text, func(e codechat.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes it reads the error from doneCh and returns SendDoneMsg.
func listenForEvent(ch <-chan codechat.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return SendDoneMsg{Err: <-doneCh}
		}
		return StreamEventMsg{Event: evt}
	}
}
