// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

func parser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// RenderMarkdown renders a ticket description as styled terminal text
// wrapped to width. Soft line breaks reflow as spaces; code keeps its
// line structure.
//
// Output always carries ANSI 256-color escapes, regardless of whether
// stdout is a terminal, so rendering is the same under test.
func RenderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := parser().Parser().Parse(text.NewReader(source))

	styles := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	styles.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source: source,
		theme:  theme,
		width:  width,
		styles: styles,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer accumulates the inline content of each block and
// wraps it when the block closes, which goldmark's streaming renderer
// interface does not allow.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int
	styles *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	prefix      string
	prefixWidth int
	prefixes    []int // widths pushed, for popping
	bullet      string

	bold, italic, strike int
	lists                []listState

	trailingNewlines int
}

type listState struct {
	ordered bool
	next    int
	tight   bool
}

func (r *markdownRenderer) style() lipgloss.Style { return r.styles.NewStyle() }

func (r *markdownRenderer) contentWidth() int {
	return max(10, r.width-r.prefixWidth)
}

func (r *markdownRenderer) push(prefix string) {
	r.prefixes = append(r.prefixes, len(prefix))
	r.prefix += prefix
	r.prefixWidth += ansi.StringWidth(prefix)
}

func (r *markdownRenderer) pop() {
	if len(r.prefixes) == 0 {
		return
	}
	size := r.prefixes[len(r.prefixes)-1]
	r.prefixes = r.prefixes[:len(r.prefixes)-1]
	removed := r.prefix[len(r.prefix)-size:]
	r.prefix = r.prefix[:len(r.prefix)-size]
	r.prefixWidth -= ansi.StringWidth(removed)
}

func (r *markdownRenderer) tight() bool {
	return len(r.lists) > 0 && r.lists[len(r.lists)-1].tight
}

func (r *markdownRenderer) write(s string) {
	if s == "" {
		return
	}
	r.output.WriteString(s)
	trimmed := strings.TrimRight(s, "\n")
	if trimmed == "" {
		r.trailingNewlines += len(s)
	} else {
		r.trailingNewlines = len(s) - len(trimmed)
	}
}

func (r *markdownRenderer) newline() {
	if r.output.Len() > 0 && r.trailingNewlines < 1 {
		r.write("\n")
	}
}

func (r *markdownRenderer) blankLine() {
	for r.output.Len() > 0 && r.trailingNewlines < 2 {
		r.write("\n")
	}
}

// linePrefix returns the pending list bullet for the first line of an
// item, and the plain prefix afterwards.
func (r *markdownRenderer) linePrefix() string {
	if r.bullet != "" {
		bullet := r.bullet
		r.bullet = ""
		return bullet
	}
	return r.prefix
}

func (r *markdownRenderer) prefixLines(content string) string {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if index == 0 {
			lines[index] = r.linePrefix() + line
		} else {
			lines[index] = r.prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func (r *markdownRenderer) flush() string {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return ""
	}
	return r.prefixLines(ansi.Wrap(content, r.contentWidth(), " ,.;-"))
}

func (r *markdownRenderer) styled(content string) string {
	style := r.style().Foreground(r.theme.NormalText)
	if r.bold > 0 {
		style = style.Bold(true)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	if r.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (r *markdownRenderer) faint(content string) string {
	return r.style().Foreground(r.theme.FaintText).Render(content)
}

func (r *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			r.inline.Reset()
			break
		}
		if flushed := r.flush(); flushed != "" {
			r.write(flushed)
			r.newline()
			if !r.tight() {
				r.blankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			r.inline.Reset()
			break
		}
		r.heading(node.(*ast.Heading))

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			r.codeBlock(node)
		}
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			r.push(r.style().Foreground(r.theme.BorderColor).Render("│") + " ")
		} else {
			r.pop()
			r.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			r.lists = append(r.lists, listState{ordered: list.IsOrdered(), next: list.Start, tight: list.IsTight})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if !r.tight() {
				r.blankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			r.listItem()
		} else {
			r.pop()
			if r.tight() {
				r.newline()
			} else {
				r.blankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := r.style().Foreground(r.theme.BorderColor).Render(strings.Repeat("─", r.contentWidth()))
			r.blankLine()
			r.write(r.prefixLines(rule))
			r.newline()
			r.blankLine()
		}

	case ast.KindHTMLBlock, ast.KindRawHTML:
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			r.inline.WriteString(r.styled(string(textNode.Segment.Value(r.source))))
			switch {
			case textNode.HardLineBreak():
				r.inline.WriteString("\n")
			case textNode.SoftLineBreak():
				r.inline.WriteString(" ")
			}
		}

	case ast.KindString:
		if entering {
			r.inline.WriteString(r.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		delta := -1
		if entering {
			delta = 1
		}
		if node.(*ast.Emphasis).Level >= 2 {
			r.bold += delta
		} else {
			r.italic += delta
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(r.source))
				}
			}
			r.inline.WriteString(r.style().Foreground(r.theme.Accent).Render(code.String()))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if !entering {
			if destination := string(node.(*ast.Link).Destination); destination != "" {
				r.inline.WriteString(" " + r.faint("("+destination+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			r.inline.WriteString(r.faint(string(node.(*ast.AutoLink).URL(r.source))))
		}

	case ast.KindImage:
		if entering {
			r.inline.WriteString(r.faint("[image: " + string(node.(*ast.Image).Destination) + "]"))
		}
		return ast.WalkSkipChildren, nil

	case extast.KindStrikethrough:
		if entering {
			r.strike++
		} else {
			r.strike--
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				r.inline.WriteString(r.style().Foreground(r.theme.StatusClosed).Render("[x]") + " ")
			} else {
				r.inline.WriteString(r.styled("[ ] "))
			}
		}
	}
	return ast.WalkContinue, nil
}

func (r *markdownRenderer) heading(heading *ast.Heading) {
	content := ansi.Strip(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}
	style := r.style().Bold(true).Foreground(r.theme.NormalText)
	if heading.Level <= 2 {
		style = style.Foreground(r.theme.HeaderForeground).Underline(heading.Level == 1)
	}
	r.blankLine()
	r.write(r.prefixLines(ansi.Wrap(style.Render(content), r.contentWidth(), " ")))
	r.newline()
	r.blankLine()
}

func (r *markdownRenderer) codeBlock(node ast.Node) {
	var code strings.Builder
	lines := node.Lines()
	for index := range lines.Len() {
		segment := lines.At(index)
		code.Write(segment.Value(r.source))
	}
	r.blankLine()
	for line := range strings.SplitSeq(strings.TrimRight(code.String(), "\n"), "\n") {
		r.write(r.linePrefix() + "  " + r.faint(ansi.Truncate(line, r.contentWidth()-2, "…")))
		r.newline()
	}
	r.blankLine()
}

func (r *markdownRenderer) listItem() {
	if len(r.lists) == 0 {
		return
	}
	top := &r.lists[len(r.lists)-1]
	bullet := "• "
	if top.ordered {
		bullet = strconv.Itoa(top.next) + ". "
		top.next++
	}
	r.bullet = r.prefix + bullet
	r.push(strings.Repeat(" ", ansi.StringWidth(bullet)))
}
