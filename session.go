package codechat

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// DefaultTitle is the placeholder title of a session that has no user
// messages yet.
const DefaultTitle = "New Chat"

// titleLimit is the number of grapheme clusters kept when deriving a session
// title from its first user message.
const titleLimit = 30

// Session is one conversation thread: an ordered list of messages plus
// metadata. Messages are chronological and append-only except for the
// last-message patch (see [Message]).
type Session struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveTitle derives a session title from its first user message: the first
// 30 characters, with "..." appended iff the message was truncated.
// Characters are counted as grapheme clusters so the cut never lands inside
// a combining sequence.
func DeriveTitle(text string) string {
	var b strings.Builder
	n := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		if n == titleLimit {
			return b.String() + "..."
		}
		b.WriteString(gr.Str())
		n++
	}
	return b.String()
}
