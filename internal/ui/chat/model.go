// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/milliy-tui/internal/config"
	"github.com/morganforge/milliy-tui/internal/model"
	"github.com/morganforge/milliy-tui/internal/ui/components"
	"github.com/morganforge/milliy-tui/internal/ui/styles"
	"github.com/morganforge/milliy-tui/internal/ws"
)

// =============================================================================
// DEPENDENCY INTERFACES
// =============================================================================

// Sender posts outbound messages to the active conversation's socket.
// *ws.Manager satisfies it.
type Sender interface {
	Send(text string, fileIDs []int64, action *ws.Action) error
}

// HistoryFetcher loads a page of persisted messages. *api.Client satisfies it.
type HistoryFetcher interface {
	Messages(ctx context.Context, chatID int64, pageSize int) ([]model.Message, error)
}

// Uploader stores a file on the server and returns the attachment reference.
// *api.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, name string, content io.Reader) (model.Attachment, error)
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the conversation view for one chat room. A new Model is built on
// every conversation switch; history fetches carry the room ID they were
// issued for, so a late page from a previous Model can never leak in.
type Model struct {
	theme *styles.Theme
	cfg   *config.Config

	room model.ChatRoom
	user *model.User

	sender   Sender
	history  HistoryFetcher
	uploader Uploader

	timeline  *model.Timeline
	stream    *StreamingBuffer
	streaming bool

	// ctx is cancelled when the conversation is switched away from, aborting
	// any in-flight history fetch or upload.
	ctx    context.Context
	cancel context.CancelFunc

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	status   *components.StatusBar
	renderer *components.MessageRenderer

	// attachments staged by /attach, sent with the next message.
	attachments []model.Attachment

	width  int
	height int
	ready  bool
}

// New creates a conversation view for the given room.
func New(theme *styles.Theme, cfg *config.Config, user *model.User, room model.ChatRoom,
	sender Sender, history HistoryFetcher, uploader Uploader) Model {

	input := textinput.New()
	input.Placeholder = "Type a message... (/attach, /export, /help)"
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	status := components.NewStatusBar(theme)
	status.RoomTitle = room.Title()
	if user != nil {
		status.UserName = user.Username
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		theme:    theme,
		cfg:      cfg,
		room:     room,
		user:     user,
		sender:   sender,
		history:  history,
		uploader: uploader,
		timeline: model.NewTimeline(),
		stream:   NewStreamingBuffer(),
		ctx:      ctx,
		cancel:   cancel,
		viewport: viewport.New(80, 20),
		input:    input,
		spin:     spin,
		status:   status,
		renderer: components.NewMessageRenderer(theme, 76, cfg.UI.TimestampFormat, cfg.UI.Markdown),
	}
}

// Init fetches the first history page.
func (m Model) Init() tea.Cmd {
	return m.fetchHistoryCmd()
}

// Close cancels outstanding work for this conversation. Call on switch or
// teardown.
func (m Model) Close() {
	m.cancel()
}

// RoomID returns the room this view belongs to.
func (m Model) RoomID() int64 {
	return m.room.ID
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	// Header + input + status each take one row, plus input border.
	vpHeight := height - 4
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 4
	m.status.SetWidth(width)

	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	m.renderer = components.NewMessageRenderer(m.theme, contentWidth,
		m.cfg.UI.TimestampFormat, m.cfg.UI.Markdown)
	m.refreshViewport()
}

// Timeline exposes the reconciler for the app root (e.g. unread counts).
func (m Model) Timeline() *model.Timeline {
	return m.timeline
}

// refreshViewport re-renders the timeline into the viewport and pins the
// bottom.
func (m *Model) refreshViewport() {
	var b strings.Builder
	for _, msg := range m.timeline.Messages() {
		b.WriteString(m.renderer.Render(msg))
		b.WriteString("\n\n")
	}
	if draft := m.timeline.Draft(); draft != nil {
		if draft.Text == "" {
			b.WriteString(m.spin.View() + " " +
				m.theme.ThinkingText.Render("thinking..."))
		} else {
			b.WriteString(m.renderer.RenderDraft(draft.Text))
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}
