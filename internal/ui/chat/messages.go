// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/morganforge/milliy-tui/internal/model"
	"github.com/morganforge/milliy-tui/internal/ws"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// SocketEventMsg wraps one decoded socket event. The app root drains the
// manager's event channel and feeds each event through the update loop as one
// of these.
type SocketEventMsg struct {
	Event ws.Event
}

// StreamTickMsg triggers a draft repaint while a stream is in progress.
type StreamTickMsg struct {
	Time time.Time
}

// HistoryMsg carries the result of a history fetch. ChatID tags the
// conversation the page was fetched for; results for a conversation that is
// no longer current are discarded.
type HistoryMsg struct {
	ChatID   int64
	Messages []model.Message
	Err      error
}

// UploadedMsg carries the result of a /attach upload.
type UploadedMsg struct {
	Attachment model.Attachment
	Err        error
}

// ExportedMsg carries the result of a /export transcript write.
type ExportedMsg struct {
	Path string
	Err  error
}
