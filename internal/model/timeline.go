// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat rooms and messages.
package model

import (
	"sort"
	"time"
)

// echoWindow bounds how far apart in time an optimistic local message and the
// server's own broadcast of it may be and still be treated as the same send.
const echoWindow = 30 * time.Second

// =============================================================================
// TIMELINE TYPE
// =============================================================================

// Timeline is the single source of truth for "what does the conversation look
// like right now": the canonical list of server-confirmed (or
// server-equivalent) messages merged with the in-progress assistant draft.
//
// The canonical list is a mapping from message ID to message. Inserting an ID
// that already exists overwrites it (last write wins), and the displayable
// order is re-derived by created_at ascending after every mutation. Merging
// is therefore commutative and idempotent: it is always safe to merge a fresh
// history page over locally inserted entries.
//
// The draft is never part of the canonical list. It is rendered as an
// appended, distinguishable entry only while present.
//
// A Timeline is not safe for concurrent use. All mutation is expected to
// happen on the program's update loop; socket and HTTP completions are
// funneled there as messages before they touch this state.
type Timeline struct {
	byID  map[int64]Message
	order []Message
	draft *Message
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{byID: make(map[int64]Message)}
}

// =============================================================================
// CANONICAL LIST
// =============================================================================

// Upsert inserts a message into the canonical list, overwriting any prior
// entry with the same ID, and re-derives the display order.
//
// When a server-confirmed human message arrives, the newest optimistic local
// entry with the same sender and text inside a short window is dropped first:
// the server's broadcast of our own send may carry a different ID than the
// placeholder we inserted, and keeping both would show the message twice.
func (t *Timeline) Upsert(msg Message) {
	if msg.ID > 0 && msg.Sender != nil {
		t.dropMatchingEcho(msg)
	}
	t.byID[msg.ID] = msg
	t.reorder()
}

// Merge inserts every message in the page, last write winning per ID.
func (t *Timeline) Merge(msgs []Message) {
	for _, msg := range msgs {
		if msg.ID > 0 && msg.Sender != nil {
			t.dropMatchingEcho(msg)
		}
		t.byID[msg.ID] = msg
	}
	t.reorder()
}

// Messages returns the canonical list in display order. The returned slice
// is a copy; callers may not mutate timeline state through it.
func (t *Timeline) Messages() []Message {
	out := make([]Message, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of canonical messages.
func (t *Timeline) Len() int {
	return len(t.byID)
}

// Reset drops all canonical and draft state. Used when the active
// conversation changes.
func (t *Timeline) Reset() {
	t.byID = make(map[int64]Message)
	t.order = nil
	t.draft = nil
}

// dropMatchingEcho removes the newest local (negative-ID) entry that matches
// the incoming server-confirmed message by sender and text within echoWindow.
func (t *Timeline) dropMatchingEcho(incoming Message) {
	var bestID int64
	var bestAt time.Time
	for id, m := range t.byID {
		if id >= 0 || m.Sender == nil || m.Sender.ID != incoming.Sender.ID {
			continue
		}
		if m.Text != incoming.Text {
			continue
		}
		delta := incoming.CreatedAt.Sub(m.CreatedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta > echoWindow {
			continue
		}
		if bestID == 0 || m.CreatedAt.After(bestAt) {
			bestID = id
			bestAt = m.CreatedAt
		}
	}
	if bestID != 0 {
		delete(t.byID, bestID)
	}
}

// reorder rebuilds the display order: created_at ascending with ID as the
// tiebreak so the order is stable and total.
func (t *Timeline) reorder() {
	order := make([]Message, 0, len(t.byID))
	for _, msg := range t.byID {
		order = append(order, msg)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].CreatedAt.Equal(order[j].CreatedAt) {
			return order[i].ID < order[j].ID
		}
		return order[i].CreatedAt.Before(order[j].CreatedAt)
	})
	t.order = order
}

// =============================================================================
// STREAMING DRAFT
// =============================================================================

// AppendDraft appends a chunk to the streaming assistant draft, creating the
// draft if none exists. At most one draft exists per timeline.
func (t *Timeline) AppendDraft(chunk string) {
	if t.draft == nil {
		t.draft = &Message{
			ID:        NewLocalID(),
			Text:      chunk,
			CreatedAt: time.Now(),
		}
		return
	}
	t.draft.Text += chunk
}

// Draft returns a copy of the in-progress assistant draft, or nil if there
// is none.
func (t *Timeline) Draft() *Message {
	if t.draft == nil {
		return nil
	}
	cp := *t.draft
	return &cp
}

// HasDraft reports whether a streaming draft is in progress.
func (t *Timeline) HasDraft() bool {
	return t.draft != nil
}

// ClearDraft discards the streaming draft. The accumulated text is never
// promoted into the canonical list; a history refetch after the stream ends
// supplies the authoritative copy.
func (t *Timeline) ClearDraft() {
	t.draft = nil
}
