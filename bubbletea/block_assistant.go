package bubbletea

import (
	"strings"

	"github.com/mfilipek/codechat"
	"github.com/mfilipek/codechat/markdown"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders streamed assistant text as markdown. The
// rendered output is cached and invalidated whenever the raw text grows or
// the width changes, so repaints between deltas stay cheap.
type AssistantTextBlock struct {
	content strings.Builder
	theme   codechat.Theme

	cachedWidth int
	cachedLen   int
	cached      string
}

// NewAssistantTextBlock creates a new block for streaming assistant text.
func NewAssistantTextBlock(theme codechat.Theme) *AssistantTextBlock {
	return &AssistantTextBlock{theme: theme, cachedWidth: -1}
}

// Append adds a text delta from the response stream.
func (b *AssistantTextBlock) Append(text string) {
	b.content.WriteString(text)
}

// Text returns the raw accumulated text.
func (b *AssistantTextBlock) Text() string {
	return b.content.String()
}

func (b *AssistantTextBlock) View(width int) string {
	raw := b.content.String()
	if raw == "" {
		return ""
	}
	if width == b.cachedWidth && len(raw) == b.cachedLen {
		return b.cached
	}

	// Close a mid-stream fence only for rendering, so a partially
	// streamed code block displays sanely.
	source := raw
	if hasUnclosedFence(source) {
		source += "\n```"
	}

	b.cached = markdown.Render(source, width, b.theme)
	b.cachedWidth = width
	b.cachedLen = len(raw)
	return b.cached
}

// hasUnclosedFence reports whether s ends inside a fenced code block,
// using a simple odd-count check on "```".
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
