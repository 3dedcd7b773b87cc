// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/milliy-tui/internal/ui/components"
	"github.com/morganforge/milliy-tui/internal/ws"
)

const historyTimeout = 15 * time.Second

// Update handles one Bubble Tea message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case SocketEventMsg:
		return m.handleSocket(msg.Event)

	case StreamTickMsg:
		if content, ok := m.stream.Flush(); ok {
			m.timeline.AppendDraft(content)
			m.refreshViewport()
		}
		if m.streaming {
			return m, streamTickCmd()
		}
		return m, nil

	case HistoryMsg:
		// Pages fetched for a previous conversation are discarded whole.
		if msg.ChatID != m.room.ID {
			return m, nil
		}
		if msg.Err != nil {
			log.Printf("[chat] history fetch for chat %d: %v", msg.ChatID, msg.Err)
			m.status.SetNotice("history unavailable")
			return m, nil
		}
		m.timeline.Merge(msg.Messages)
		m.refreshViewport()
		return m, nil

	case UploadedMsg:
		if msg.Err != nil {
			m.status.SetNotice("attach failed: " + shortError(msg.Err))
			return m, nil
		}
		m.attachments = append(m.attachments, msg.Attachment)
		m.status.SetNotice(fmt.Sprintf("attached %s (%d staged)",
			msg.Attachment.Name, len(m.attachments)))
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.status.SetNotice("export failed: " + shortError(msg.Err))
			return m, nil
		}
		m.status.SetNotice("exported to " + msg.Path)
		return m, nil

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.timeline.HasDraft() {
			m.refreshViewport()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// SOCKET EVENTS
// =============================================================================

// handleSocket applies one decoded socket event to the timeline.
func (m Model) handleSocket(ev ws.Event) (Model, tea.Cmd) {
	switch ev := ev.(type) {

	case ws.StatusEvent:
		if ev.Connected {
			m.status.SetConnection(components.ConnectionOnline)
			m.status.SetNotice("")
		} else {
			m.status.SetConnection(components.ConnectionRetrying)
		}
		return m, nil

	case ws.AIStartEvent:
		m.stream.Reset()
		m.timeline.ClearDraft()
		m.timeline.AppendDraft("")
		m.streaming = true
		m.refreshViewport()
		return m, tea.Batch(streamTickCmd(), m.spin.Tick)

	case ws.AIChunkEvent:
		m.stream.Write(ev.Chunk)
		if !m.streaming {
			// Chunk without a start frame still opens a draft.
			m.streaming = true
			return m, tea.Batch(streamTickCmd(), m.spin.Tick)
		}
		return m, nil

	case ws.AIEndEvent:
		// The draft text is never promoted locally: one refetch supplies the
		// authoritative copy.
		m.streaming = false
		m.stream.Reset()
		m.timeline.ClearDraft()
		m.refreshViewport()
		return m, m.fetchHistoryCmd()

	case ws.FileEvent:
		m.streaming = false
		m.stream.Reset()
		m.timeline.ClearDraft()
		m.timeline.Upsert(ev.Message)
		m.refreshViewport()
		return m, nil

	case ws.MessageEvent:
		if m.timeline.HasDraft() {
			// A complete message supersedes the in-progress draft: either
			// the assistant answered without streaming (no end frame will
			// follow), or a human message landed mid-stream and the draft
			// belongs to the previous exchange now.
			m.streaming = false
			m.stream.Reset()
			m.timeline.ClearDraft()
		}
		m.timeline.Upsert(ev.Message)
		m.refreshViewport()
		return m, nil
	}

	return m, nil
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input line, or runs it as a command when it starts
// with "/".
func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" && len(m.attachments) == 0 {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}
	return m.send(text, nil)
}

// send posts one message. On failure the input is preserved so nothing typed
// is lost.
func (m Model) send(text string, action *ws.Action) (Model, tea.Cmd) {
	var fileIDs []int64
	for _, a := range m.attachments {
		fileIDs = append(fileIDs, a.ID)
	}

	if err := m.sender.Send(text, fileIDs, action); err != nil {
		switch {
		case errors.Is(err, ws.ErrNotConnected):
			m.status.SetNotice("not connected; message not sent")
		case errors.Is(err, ws.ErrClosed):
			m.status.SetNotice("conversation closed")
		default:
			m.status.SetNotice("send failed: " + shortError(err))
		}
		return m, nil
	}

	m.input.Reset()
	m.attachments = nil
	m.status.SetNotice("")
	return m, nil
}

// runCommand dispatches a slash command.
func (m Model) runCommand(line string) (Model, tea.Cmd) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/attach":
		if len(args) != 1 {
			m.status.SetNotice("usage: /attach <path>")
			return m, nil
		}
		m.input.Reset()
		return m, m.uploadCmd(args[0])

	case "/export":
		path := fmt.Sprintf("milliy-chat-%d.md", m.room.ID)
		if len(args) == 1 {
			path = args[0]
		}
		m.input.Reset()
		return m, m.exportCmd(path)

	case "/clear":
		m.attachments = nil
		m.input.Reset()
		m.status.SetNotice("attachments cleared")
		return m, nil

	case "/help":
		m.status.SetNotice("/attach <path>  /export [path]  /clear")
		m.input.Reset()
		return m, nil

	default:
		m.status.SetNotice("unknown command " + cmd)
		return m, nil
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

// fetchHistoryCmd loads one history page for this room.
func (m Model) fetchHistoryCmd() tea.Cmd {
	fetch := m.history
	chatID := m.room.ID
	pageSize := m.cfg.Server.PageSize
	parent := m.ctx

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, historyTimeout)
		defer cancel()
		msgs, err := fetch.Messages(ctx, chatID, pageSize)
		return HistoryMsg{ChatID: chatID, Messages: msgs, Err: err}
	}
}

// uploadCmd uploads a local file and stages the attachment.
func (m Model) uploadCmd(path string) tea.Cmd {
	up := m.uploader
	parent := m.ctx

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return UploadedMsg{Err: err}
		}
		defer f.Close()

		att, err := up.Upload(parent, filepath.Base(path), f)
		return UploadedMsg{Attachment: att, Err: err}
	}
}

// exportCmd writes the transcript to disk.
func (m Model) exportCmd(path string) tea.Cmd {
	msgs := m.timeline.Messages()
	title := m.room.Title()

	return func() tea.Msg {
		err := WriteTranscript(path, title, msgs)
		return ExportedMsg{Path: path, Err: err}
	}
}

// shortError trims an error for the one-line status bar.
func shortError(err error) string {
	s := err.Error()
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
