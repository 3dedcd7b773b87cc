// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view: the message viewport, the
// input line, and the streaming machinery that applies socket events to the
// timeline.
//
// The view never touches the socket or the HTTP client directly. Socket
// events and history pages arrive as Bubble Tea messages from the app root,
// so all timeline mutation happens on the update loop.
package chat
