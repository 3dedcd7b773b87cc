// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/milliy-tui/internal/model"
	"github.com/morganforge/milliy-tui/internal/ui/styles"
)

// MessageRenderer renders conversation entries for the viewport. Assistant
// text is rendered as markdown when a glamour renderer could be constructed;
// otherwise it falls back to plain text.
type MessageRenderer struct {
	theme    *styles.Theme
	width    int
	tsFormat string
	markdown *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer for the given content width.
// useMarkdown disables glamour entirely when false.
func NewMessageRenderer(theme *styles.Theme, width int, tsFormat string, useMarkdown bool) *MessageRenderer {
	r := &MessageRenderer{
		theme:    theme,
		width:    width,
		tsFormat: tsFormat,
	}
	if useMarkdown {
		// Glamour needs a few columns of room for bubble borders and padding.
		wrap := width - 10
		if wrap < 20 {
			wrap = 20
		}
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		); err == nil {
			r.markdown = md
		}
	}
	return r
}

// SetWidth updates the render width. The markdown word wrap follows on the
// next renderer rebuild by the caller; plain wrapping adjusts immediately.
func (r *MessageRenderer) SetWidth(width int) {
	r.width = width
}

// Render renders one persisted message as a bubble with sender line,
// attachments and timestamp.
func (r *MessageRenderer) Render(msg model.Message) string {
	var b strings.Builder

	name := r.theme.SenderName.Render(msg.Sender.DisplayName())
	ts := ""
	if !msg.CreatedAt.IsZero() {
		ts = " " + r.theme.Timestamp.Render(msg.CreatedAt.Format(r.tsFormat))
	}

	body := r.renderBody(msg)
	bubble := r.bubbleStyle(msg).MaxWidth(r.width).Render(body)

	if msg.FromAssistant() {
		b.WriteString(name + ts + "\n")
		b.WriteString(bubble)
	} else {
		// User messages align right.
		line := lipgloss.NewStyle().Width(r.width).Align(lipgloss.Right)
		b.WriteString(line.Render(name + ts) + "\n")
		b.WriteString(line.Render(bubble))
	}
	return b.String()
}

// RenderDraft renders the in-flight assistant draft. Markdown is skipped on
// purpose: partial markdown re-renders unstably while chunks arrive.
func (r *MessageRenderer) RenderDraft(text string) string {
	name := r.theme.SenderName.Render("Assistant") +
		" " + r.theme.NoticeText.Render("typing…")
	bubble := r.theme.DraftBubble.MaxWidth(r.width).Render(text)
	return name + "\n" + bubble
}

// renderBody renders message text plus attachment chips.
func (r *MessageRenderer) renderBody(msg model.Message) string {
	var parts []string

	text := strings.TrimRight(msg.Text, "\n")
	if text != "" {
		if msg.FromAssistant() && r.markdown != nil {
			if out, err := r.markdown.Render(text); err == nil {
				text = strings.Trim(out, "\n")
			}
		}
		parts = append(parts, text)
	}

	for _, file := range msg.Files {
		parts = append(parts, r.theme.AttachmentChip.Render("📎 "+file.Name))
	}

	if len(parts) == 0 {
		parts = append(parts, r.theme.NoticeText.Render("(empty message)"))
	}
	return strings.Join(parts, "\n")
}

func (r *MessageRenderer) bubbleStyle(msg model.Message) lipgloss.Style {
	if msg.FromAssistant() {
		return r.theme.AssistantBubble
	}
	return r.theme.UserBubble
}
