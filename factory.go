package codechat

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// NewSession returns a fresh empty session. The id embeds the current
// millisecond timestamp plus a short random suffix so sessions created
// within the same millisecond stay distinct; CreatedAt and UpdatedAt both
// equal the generation time.
func NewSession() Session {
	now := time.Now()
	return Session{
		ID:        fmt.Sprintf("session_%d_%s", now.UnixMilli(), randomSuffix()),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewMessageID returns a message identifier combining the current
// millisecond timestamp with a short base-36 random suffix. Uniqueness is
// best-effort: two calls within the same millisecond collide only when
// their suffixes do.
func NewMessageID() string {
	return fmt.Sprintf("msg_%d_%s", time.Now().UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	return strconv.FormatUint(uint64(rand.Uint32()), 36)
}
