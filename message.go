package codechat

import "time"

// Message is a single conversation message. Messages are append-only and
// immutable once added, with one exception: while a stream is in progress,
// the text and timestamp of the session's most recent assistant message are
// patched in place as content arrives.
type Message struct {
	ID        string
	Text      string
	IsUser    bool
	Timestamp time.Time
}
