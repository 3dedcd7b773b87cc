// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat rooms and messages.
//
// This package defines the core domain types used throughout the application
// for representing the server's persisted entities and the client-side view
// of a conversation.
//
// # Key Types
//
//   - Message: a persisted chat message with sender, attachments and timestamp
//   - Sender: the human author of a message (nil sender means assistant)
//   - Attachment: a file carried by a message
//   - ChatRoom: a conversation container
//   - User: the authenticated account
//   - Timeline: the merged, de-duplicated, time-ordered view of one room's
//     messages plus the in-progress assistant draft
//
// # Usage
//
// Seed a timeline from a history page and apply live updates:
//
//	tl := model.NewTimeline()
//	tl.Merge(page)
//	tl.AppendDraft("Hel")
//	tl.AppendDraft("lo")
//	tl.ClearDraft()
package model
