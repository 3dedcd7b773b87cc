// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/milliy-tui/internal/api"
	"github.com/morganforge/milliy-tui/internal/config"
	"github.com/morganforge/milliy-tui/internal/model"
	"github.com/morganforge/milliy-tui/internal/session"
	"github.com/morganforge/milliy-tui/internal/ui/auth"
	"github.com/morganforge/milliy-tui/internal/ui/chat"
	"github.com/morganforge/milliy-tui/internal/ui/rooms"
	"github.com/morganforge/milliy-tui/internal/ui/styles"
	"github.com/morganforge/milliy-tui/internal/ws"
)

const profileTimeout = 15 * time.Second

// view selects which screen the root renders.
type view int

const (
	viewAuth view = iota
	viewMain
)

const sidebarWidth = 28

// =============================================================================
// ROOT MESSAGES
// =============================================================================

// socketMsg tags a socket event with the conversation it belongs to, so an
// event from a just-closed manager can never reach the wrong view.
type socketMsg struct {
	chatID int64
	ev     ws.Event
}

// socketClosedMsg reports that a manager's event channel drained after Close.
type socketClosedMsg struct {
	chatID int64
}

// profileMsg carries the authenticated user's profile.
type profileMsg struct {
	user model.User
	err  error
}

// =============================================================================
// APP ROOT
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	theme  *styles.Theme
	cfg    *config.Config
	store  *session.Store
	client *api.Client

	view     view
	authView auth.Model
	sidebar  rooms.Model

	conversation    chat.Model
	hasConversation bool
	manager         *ws.Manager

	user         *model.User
	sidebarFocus bool

	width  int
	height int
}

// NewApp wires the root model.
func NewApp(cfg *config.Config, store *session.Store) App {
	theme := styles.NewTheme()
	client := api.NewClient(cfg.Server.BaseURL, store)

	return App{
		theme:    theme,
		cfg:      cfg,
		store:    store,
		client:   client,
		view:     viewAuth,
		authView: auth.New(theme, client),
		sidebar:  rooms.New(theme, client),
	}
}

// Init resumes a stored session when a token is present, otherwise shows the
// auth form.
func (a App) Init() tea.Cmd {
	if a.store.AccessToken() != "" {
		return tea.Batch(a.authView.Init(), a.profileCmd())
	}
	return a.authView.Init()
}

// Update handles one Bubble Tea message.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.authView.SetSize(msg.Width, msg.Height)
		a.sidebar.SetSize(sidebarWidth, msg.Height)
		if a.hasConversation {
			a.conversation.SetSize(a.conversationWidth(), msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			a.teardown()
			return a, tea.Quit
		case "tab":
			if a.view == viewMain {
				a.sidebarFocus = !a.sidebarFocus
				return a, nil
			}
		case "ctrl+n":
			if a.view == viewMain {
				a.sidebarFocus = true
				var cmd tea.Cmd
				a.sidebar, cmd = a.sidebar.Update(msg)
				return a, cmd
			}
		}
		return a.routeKey(msg)

	// ---- authentication -------------------------------------------------

	case auth.ResultMsg:
		if msg.Err != nil {
			var cmd tea.Cmd
			a.authView, cmd = a.authView.Update(msg)
			return a, cmd
		}
		if err := a.store.SetTokens(msg.Credentials.Access, msg.Credentials.Refresh); err != nil {
			log.Printf("[ui] persist tokens: %v", err)
		}
		return a, a.profileCmd()

	case profileMsg:
		if msg.err != nil {
			// Either the stored token went stale or the profile endpoint is
			// down; fall back to the form.
			log.Printf("[ui] load profile: %v", msg.err)
			a.view = viewAuth
			a.authView.SetError("could not load profile; sign in again")
			return a, nil
		}
		user := msg.user
		a.user = &user
		if err := a.store.SetUser(user); err != nil {
			log.Printf("[ui] persist profile: %v", err)
		}
		a.view = viewMain
		a.sidebarFocus = true
		return a, a.sidebar.Init()

	// ---- sidebar ---------------------------------------------------------

	case rooms.LoadedMsg:
		var cmd tea.Cmd
		a.sidebar, cmd = a.sidebar.Update(msg)
		if msg.Err == nil && !a.hasConversation {
			if last, ok := a.store.LastChat(); ok {
				a.sidebar.Select(last)
			}
			if room, ok := a.sidebar.Selected(); ok {
				var open tea.Cmd
				a, open = a.openConversation(room)
				return a, tea.Batch(cmd, open)
			}
		}
		return a, cmd

	case rooms.CreatedMsg:
		var cmd tea.Cmd
		a.sidebar, cmd = a.sidebar.Update(msg)
		return a, cmd

	case rooms.SelectedMsg:
		return a.openConversation(msg.Room)

	// ---- socket ----------------------------------------------------------

	case socketMsg:
		var cmds []tea.Cmd
		if a.hasConversation && a.conversation.RoomID() == msg.chatID {
			var cmd tea.Cmd
			a.conversation, cmd = a.conversation.Update(chat.SocketEventMsg{Event: msg.ev})
			cmds = append(cmds, cmd)
		}
		if a.manager != nil && a.manager.ChatID() == msg.chatID {
			cmds = append(cmds, waitSocketCmd(a.manager))
		}
		return a, tea.Batch(cmds...)

	case socketClosedMsg:
		// Only reachable for the current manager if it was closed underneath
		// us; the conversation just shows offline.
		if a.hasConversation && a.conversation.RoomID() == msg.chatID {
			var cmd tea.Cmd
			a.conversation, cmd = a.conversation.Update(
				chat.SocketEventMsg{Event: ws.StatusEvent{Connected: false}})
			return a, cmd
		}
		return a, nil

	// ---- conversation plumbing --------------------------------------------

	case chat.StreamTickMsg, chat.HistoryMsg, chat.UploadedMsg, chat.ExportedMsg, spinner.TickMsg:
		if !a.hasConversation {
			return a, nil
		}
		var cmd tea.Cmd
		a.conversation, cmd = a.conversation.Update(msg)
		return a, cmd
	}

	// Everything else goes to the active view.
	if a.view == viewAuth {
		var cmd tea.Cmd
		a.authView, cmd = a.authView.Update(msg)
		return a, cmd
	}
	if a.hasConversation {
		var cmd tea.Cmd
		a.conversation, cmd = a.conversation.Update(msg)
		return a, cmd
	}
	return a, nil
}

// routeKey sends a key press to whichever pane holds focus.
func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.view == viewAuth {
		var cmd tea.Cmd
		a.authView, cmd = a.authView.Update(msg)
		return a, cmd
	}
	if a.sidebarFocus {
		var cmd tea.Cmd
		a.sidebar, cmd = a.sidebar.Update(msg)
		return a, cmd
	}
	if a.hasConversation {
		var cmd tea.Cmd
		a.conversation, cmd = a.conversation.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View renders the active screen.
func (a App) View() string {
	if a.view == viewAuth {
		return a.authView.View()
	}

	if a.theme.GetLayoutMode() == styles.LayoutNarrow {
		// No room for the sidebar; show whichever pane holds focus.
		if a.sidebarFocus || !a.hasConversation {
			return a.sidebar.View()
		}
		return a.conversation.View()
	}

	right := a.theme.NoticeText.Render("select a conversation")
	if a.hasConversation {
		right = a.conversation.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), right)
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// openConversation switches the active room: the previous socket is closed
// (suppressing its reconnect), its in-flight fetches are cancelled, and a
// fresh manager plus view are started.
func (a App) openConversation(room model.ChatRoom) (App, tea.Cmd) {
	if a.hasConversation && a.conversation.RoomID() == room.ID {
		a.sidebarFocus = false
		return a, nil
	}
	a.teardown()

	mgr := ws.NewManager(ws.Config{
		WSBase:   a.cfg.Server.WSURL,
		HTTPBase: a.cfg.Server.BaseURL,
	}, a.store, a.user, room.ID)
	mgr.Start()

	a.manager = mgr
	a.conversation = chat.New(a.theme, a.cfg, a.user, room, mgr, a.client, a.client)
	a.conversation.SetSize(a.conversationWidth(), a.height)
	a.hasConversation = true
	a.sidebarFocus = false
	a.sidebar.Select(room.ID)

	if err := a.store.SetLastChat(room.ID); err != nil {
		log.Printf("[ui] persist last chat: %v", err)
	}

	return a, tea.Batch(a.conversation.Init(), waitSocketCmd(mgr))
}

// teardown stops the active conversation's socket and fetches.
func (a *App) teardown() {
	if a.hasConversation {
		a.conversation.Close()
	}
	if a.manager != nil {
		a.manager.Close()
	}
}

func (a App) conversationWidth() int {
	if a.theme.GetLayoutMode() == styles.LayoutNarrow {
		return a.width
	}
	w := a.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitSocketCmd blocks on the manager's event channel and delivers the next
// event, tagged with the manager's conversation.
func waitSocketCmd(mgr *ws.Manager) tea.Cmd {
	chatID := mgr.ChatID()
	ch := mgr.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return socketClosedMsg{chatID: chatID}
		}
		return socketMsg{chatID: chatID, ev: ev}
	}
}

// profileCmd loads the authenticated user's profile.
func (a App) profileCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), profileTimeout)
		defer cancel()
		user, err := client.Me(ctx)
		return profileMsg{user: user, err: err}
	}
}
