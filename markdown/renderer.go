package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mfilipek/codechat"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type renderer struct {
	heading   lipgloss.Style
	bold      lipgloss.Style
	italic    lipgloss.Style
	code      lipgloss.Style
	gutter    lipgloss.Style
	underline lipgloss.Style
}

func newRenderer(theme codechat.Theme) *renderer {
	return &renderer{
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		code:      lipgloss.NewStyle().Bold(true),
		gutter:    lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	r.blocks(doc, source, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func (r *renderer) blocks(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c, source, width, buf)
	}
}

func (r *renderer) block(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph:
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(r.inlines(n, source)))
		buf.WriteString("\n")
		r.blockGap(n, buf)

	case *ast.Heading:
		line := strings.Repeat("#", n.Level) + " " + r.inlines(n, source)
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(r.heading.Render(line)))
		buf.WriteString("\n")
		r.blockGap(n, buf)

	case *ast.FencedCodeBlock:
		r.codeBlock(n, string(n.Language(source)), source, buf)
		r.blockGap(n, buf)

	case *ast.CodeBlock:
		r.codeBlock(n, "", source, buf)
		r.blockGap(n, buf)

	case *ast.List:
		r.list(n, source, width, buf, 0)
		r.blockGap(n, buf)

	case *ast.ThematicBreak:
		buf.WriteString(r.gutter.Render(strings.Repeat("─", min(width, 40))))
		buf.WriteString("\n")
		r.blockGap(n, buf)

	default:
		// Blockquotes and anything unrecognized render their children
		// unstyled.
		r.blocks(node, source, width, buf)
	}
}

// blockGap separates adjacent top-level blocks with a blank line.
func (r *renderer) blockGap(node ast.Node, buf *bytes.Buffer) {
	if node.NextSibling() != nil {
		buf.WriteString("\n")
	}
}

// codeBlock renders code verbatim behind a muted gutter, with an optional
// language label above.
func (r *renderer) codeBlock(node interface{ Lines() *text.Segments }, lang string, source []byte, buf *bytes.Buffer) {
	if lang != "" {
		buf.WriteString(r.gutter.Render(lang))
		buf.WriteString("\n")
	}
	gutter := r.gutter.Render("│") + " "
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		content := strings.TrimRight(string(seg.Value(source)), "\n")
		buf.WriteString(gutter + content)
		buf.WriteString("\n")
	}
}

func (r *renderer) list(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	num := node.Start

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}

		var itemText strings.Builder
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				itemText.WriteString(r.inlines(in, source))
			case *ast.List:
				if itemText.Len() > 0 {
					r.listItem(buf, indent, marker, itemText.String(), width)
					itemText.Reset()
					marker = strings.Repeat(" ", len(marker))
				}
				r.list(in, source, width, buf, depth+1)
			default:
				var inner bytes.Buffer
				r.block(ic, source, width, &inner)
				itemText.WriteString(inner.String())
			}
		}
		if itemText.Len() > 0 {
			r.listItem(buf, indent, marker, itemText.String(), width)
		}
	}
}

// listItem writes one item, aligning wrapped continuation lines under the
// text rather than the marker.
func (r *renderer) listItem(buf *bytes.Buffer, indent, marker, content string, width int) {
	prefix := indent + marker
	itemWidth := max(width-len(prefix), 10)
	continuation := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(lipgloss.NewStyle().Width(itemWidth).Render(content), "\n") {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
		} else {
			buf.WriteString(continuation + line + "\n")
		}
	}
}

// inlines collects styled inline text from a node's children.
func (r *renderer) inlines(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c, source, &buf)
	}
	return buf.String()
}

func (r *renderer) inline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			buf.WriteByte(' ')
		}
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.inlines(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.code.Render(r.inlines(n, source)))

	case *ast.Link:
		buf.WriteString(r.underline.Render(r.inlines(n, source)))
		buf.WriteString(" ")
		buf.WriteString(r.gutter.Render("(" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		buf.WriteString(r.underline.Render(string(n.URL(source))))

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(c, source, buf)
		}
	}
}
