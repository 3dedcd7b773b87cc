// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the conversation: header, message viewport, input line and
// status bar.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	header := m.theme.HeaderTitle.Render(m.room.Title())
	if n := len(m.attachments); n > 0 {
		header += "  " + m.theme.AttachmentChip.Render(
			fmt.Sprintf("📎 %d staged", n))
	}
	b.WriteString(m.theme.Header.Width(m.width).Render(header))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	b.WriteString(m.theme.InputContainer.Width(m.width).Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(m.status.View())

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}
