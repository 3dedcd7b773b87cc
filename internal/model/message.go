// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat rooms and messages.
package model

import (
	"sync/atomic"
	"time"

	"github.com/morganforge/milliy-tui/internal/util"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single persisted chat message.
//
// Once the server has assigned an ID the message is immutable from the
// client's perspective. Locally synthesized messages (optimistic sends,
// generated-file results, the streaming draft) carry negative IDs so they can
// never collide with a server-assigned one.
type Message struct {
	ID        int64        `json:"id"`
	Text      string       `json:"message"`
	Sender    *Sender      `json:"sender,omitempty"`
	Files     []Attachment `json:"file,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// FromAssistant reports whether the message was produced by the assistant.
// The server marks assistant output by omitting the sender.
func (m Message) FromAssistant() bool {
	return m.Sender == nil
}

// Local reports whether the message was synthesized on this client and has
// not (yet) been confirmed by the server.
func (m Message) Local() bool {
	return m.ID < 0
}

// Preview returns a truncated single-line preview of the message text.
func (m Message) Preview(maxLen int) string {
	return util.TruncateRunes(m.Text, maxLen)
}

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies the human author of a message. Assistant messages carry
// no sender at all.
type Sender struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
}

// DisplayName returns a human-readable name for the sender.
func (s *Sender) DisplayName() string {
	if s == nil {
		return "Assistant"
	}
	switch {
	case s.FirstName != "" && s.LastName != "":
		return s.FirstName + " " + s.LastName
	case s.FirstName != "":
		return s.FirstName
	case s.LastName != "":
		return s.LastName
	default:
		return "You"
	}
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment is a file carried by a message. It is produced either by a
// prior upload (server-assigned ID, referenced when composing an outbound
// message) or pushed by the server as an assistant-generated result.
type Attachment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	URL       string    `json:"file"`
	MediaType string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// CHAT ROOM TYPE
// =============================================================================

// ChatRoom is a conversation container. The ID scopes one message history
// and one socket stream.
type ChatRoom struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Title returns the room name or a fallback derived from the ID.
func (r ChatRoom) Title() string {
	if r.Name != "" {
		return r.Name
	}
	return "Chat #" + formatID(r.ID)
}

// =============================================================================
// USER TYPE
// =============================================================================

// User is the authenticated account, as returned by the identity endpoints.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
}

// AsSender converts the user into the sender reference attached to
// optimistic local messages.
func (u *User) AsSender() *Sender {
	if u == nil {
		return nil
	}
	return &Sender{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

// =============================================================================
// LOCAL ID ALLOCATION
// =============================================================================

// localID is the source of client-side placeholder IDs. Server IDs are
// positive, so local IDs count down from -1 and can never collide.
var localID atomic.Int64

// NewLocalID returns the next client-side placeholder ID (always negative).
func NewLocalID() int64 {
	return -localID.Add(1)
}

// formatID formats a non-negative int64 without pulling in fmt.
func formatID(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
