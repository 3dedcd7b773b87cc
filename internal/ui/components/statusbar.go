// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/milliy-tui/internal/ui/styles"
	"github.com/morganforge/milliy-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - bottom status bar
// =============================================================================

// Connection represents the socket state shown in the status bar.
type Connection int

const (
	ConnectionOffline Connection = iota
	ConnectionRetrying
	ConnectionOnline
)

// String returns the display string for the connection state.
func (c Connection) String() string {
	switch c {
	case ConnectionOnline:
		return "online"
	case ConnectionRetrying:
		return "reconnecting"
	default:
		return "offline"
	}
}

// Icon returns a shape indicator alongside the color, so the state reads
// without color vision.
func (c Connection) Icon() string {
	switch c {
	case ConnectionOnline:
		return "●"
	case ConnectionRetrying:
		return "◌"
	default:
		return "✗"
	}
}

// StatusBar is the bottom status bar: connection state, room title, user and
// shortcut hints.
type StatusBar struct {
	Connection    Connection
	RoomTitle     string
	UserName      string
	Notice        string // transient message, e.g. "not connected"
	Width         int
	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Connection:    ConnectionOffline,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetConnection updates the connection indicator.
func (s *StatusBar) SetConnection(c Connection) {
	s.Connection = c
}

// SetNotice sets a transient message shown until cleared.
func (s *StatusBar) SetNotice(msg string) {
	s.Notice = msg
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	parts := []string{s.renderConnection()}

	if s.RoomTitle != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Render(util.TruncateWidth(s.RoomTitle, 24)))
	}
	if s.UserName != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(s.UserName))
	}
	if s.Notice != "" {
		parts = append(parts, s.theme.ErrorText.Render(s.Notice))
	}

	left := strings.Join(parts, sep)

	right := ""
	if s.ShowShortcuts && s.Width >= 60 {
		right = s.renderShortcuts()
	}

	// Pad the middle so shortcuts sit on the right edge.
	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.
		Width(s.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// renderConnection renders the colored connection indicator.
func (s *StatusBar) renderConnection() string {
	var style lipgloss.Style
	switch s.Connection {
	case ConnectionOnline:
		style = s.theme.StatusOnline
	case ConnectionRetrying:
		style = s.theme.StatusRetrying
	default:
		style = s.theme.StatusOffline
	}
	return style.Render(s.Connection.Icon() + " " + s.Connection.String())
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	key := s.theme.ShortcutKey
	desc := s.theme.ShortcutDesc

	shortcuts := []string{
		key.Render("tab") + desc.Render(" rooms"),
		key.Render("^n") + desc.Render(" new"),
		key.Render("^q") + desc.Render(" quit"),
	}
	return strings.Join(shortcuts, "  ")
}
