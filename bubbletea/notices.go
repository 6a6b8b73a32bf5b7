package bubbletea

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mfilipek/codechat"
)

// NoticeKind classifies a notification for styling.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
	NoticeProgress
	// noticeDismiss clears the current progress notice.
	noticeDismiss
)

// Notice is a transient status-line notification.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Interface compliance check.
var _ codechat.Notifier = (*Notices)(nil)

// Notices bridges [codechat.Notifier] calls from pipeline goroutines into
// the Bubble Tea update loop. Notifications are dropped rather than
// blocking when the program falls behind.
type Notices struct {
	ch chan Notice
}

// NewNotices creates a notification bridge.
func NewNotices() *Notices {
	return &Notices{ch: make(chan Notice, 16)}
}

// Success reports a completed action.
func (n *Notices) Success(msg string) { n.post(Notice{Kind: NoticeSuccess, Text: msg}) }

// Error reports a failure.
func (n *Notices) Error(msg string) { n.post(Notice{Kind: NoticeError, Text: msg}) }

// Progress reports a long-running action. The returned dismiss func clears
// the notice and is safe to call more than once.
func (n *Notices) Progress(msg string) func() {
	n.post(Notice{Kind: NoticeProgress, Text: msg})
	var once sync.Once
	return func() {
		once.Do(func() { n.post(Notice{Kind: noticeDismiss}) })
	}
}

func (n *Notices) post(notice Notice) {
	select {
	case n.ch <- notice:
	default:
	}
}

// listenForNotice waits for the next notification. The model re-arms it
// after every NoticeMsg.
func listenForNotice(n *Notices) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Notice: <-n.ch}
	}
}
