// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rooms

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/milliy-tui/internal/model"
	"github.com/morganforge/milliy-tui/internal/ui/styles"
	"github.com/morganforge/milliy-tui/internal/util"
)

const listTimeout = 15 * time.Second

// Directory lists and creates chat rooms. *api.Client satisfies it.
type Directory interface {
	ListChats(ctx context.Context) ([]model.ChatRoom, error)
	CreateChat(ctx context.Context, name string) (model.ChatRoom, error)
}

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// LoadedMsg carries the room list fetch result.
type LoadedMsg struct {
	Rooms []model.ChatRoom
	Err   error
}

// CreatedMsg carries the result of creating a room.
type CreatedMsg struct {
	Room model.ChatRoom
	Err  error
}

// SelectedMsg announces that the user picked a room. The app root reacts by
// switching the conversation view.
type SelectedMsg struct {
	Room model.ChatRoom
}

// =============================================================================
// SIDEBAR MODEL
// =============================================================================

// Model is the conversation sidebar.
type Model struct {
	theme *styles.Theme
	dir   Directory

	rooms    []model.ChatRoom
	selected int

	// creating switches the bottom row into a name prompt.
	creating bool
	nameIn   textinput.Model

	err    string
	width  int
	height int
}

// New creates the sidebar.
func New(theme *styles.Theme, dir Directory) Model {
	in := textinput.New()
	in.Placeholder = "room name"
	in.Prompt = "+ "
	in.CharLimit = 80

	return Model{
		theme:  theme,
		dir:    dir,
		nameIn: in,
		width:  28,
	}
}

// Init loads the room list.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// SetSize resizes the sidebar.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.nameIn.Width = width - 4
}

// Rooms returns the loaded room list.
func (m Model) Rooms() []model.ChatRoom {
	return m.rooms
}

// Selected returns the highlighted room, or false when the list is empty.
func (m Model) Selected() (model.ChatRoom, bool) {
	if len(m.rooms) == 0 {
		return model.ChatRoom{}, false
	}
	return m.rooms[m.selected], true
}

// Select moves the highlight to the room with the given ID, if present.
func (m *Model) Select(id int64) {
	for i, r := range m.rooms {
		if r.ID == id {
			m.selected = i
			return
		}
	}
}

// Update handles one Bubble Tea message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case LoadedMsg:
		if msg.Err != nil {
			m.err = "could not load conversations"
			return m, nil
		}
		m.err = ""
		m.rooms = msg.Rooms
		if m.selected >= len(m.rooms) {
			m.selected = 0
		}
		return m, nil

	case CreatedMsg:
		if msg.Err != nil {
			m.err = "could not create room"
			return m, nil
		}
		m.err = ""
		m.rooms = append(m.rooms, msg.Room)
		m.selected = len(m.rooms) - 1
		return m, selectCmd(msg.Room)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.creating {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.nameIn.Value())
			m.creating = false
			m.nameIn.Reset()
			m.nameIn.Blur()
			if name == "" {
				return m, nil
			}
			return m, m.createCmd(name)
		case "esc":
			m.creating = false
			m.nameIn.Reset()
			m.nameIn.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameIn, cmd = m.nameIn.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.rooms)-1 {
			m.selected++
		}
	case "enter":
		if room, ok := m.Selected(); ok {
			return m, selectCmd(room)
		}
	case "n", "ctrl+n":
		m.creating = true
		m.nameIn.Focus()
		return m, textinput.Blink
	case "r":
		return m, m.loadCmd()
	}
	return m, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) loadCmd() tea.Cmd {
	dir := m.dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()
		rooms, err := dir.ListChats(ctx)
		return LoadedMsg{Rooms: rooms, Err: err}
	}
}

func (m Model) createCmd(name string) tea.Cmd {
	dir := m.dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()
		room, err := dir.CreateChat(ctx, name)
		return CreatedMsg{Room: room, Err: err}
	}
}

func selectCmd(room model.ChatRoom) tea.Cmd {
	return func() tea.Msg {
		return SelectedMsg{Room: room}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the sidebar.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n\n")

	itemWidth := m.width - 4
	if itemWidth < 8 {
		itemWidth = 8
	}

	for i, room := range m.rooms {
		title := util.TruncateWidth(room.Title(), itemWidth)
		if i == m.selected {
			b.WriteString(m.theme.RoomItemSelected.Render(title))
		} else {
			b.WriteString(m.theme.RoomItem.Render(title))
		}
		b.WriteString("\n")
	}

	if len(m.rooms) == 0 && m.err == "" {
		b.WriteString(m.theme.NoticeText.Render("no conversations yet"))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(m.theme.ErrorText.Render(m.err))
		b.WriteString("\n")
	}

	if m.creating {
		b.WriteString("\n")
		b.WriteString(m.nameIn.View())
	} else {
		b.WriteString("\n")
		b.WriteString(m.theme.NoticeText.Render("n new · r refresh"))
	}

	return m.theme.Sidebar.Width(m.width).Height(m.height).Render(b.String())
}
