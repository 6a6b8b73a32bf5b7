// Package markdown renders assistant responses to ANSI-styled terminal
// output, using goldmark for parsing and lipgloss for styling.
package markdown

import "github.com/mfilipek/codechat"

// Render parses markdown source and returns ANSI-styled terminal output.
// Prose is word-wrapped to width; code blocks keep their original line
// breaks.
func Render(source string, width int, theme codechat.Theme) string {
	if source == "" {
		return ""
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
