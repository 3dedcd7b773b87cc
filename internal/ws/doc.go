// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ws owns the streaming connection to the chat backend.
//
// One Manager exists per active conversation. It dials the conversation's
// websocket endpoint, decodes inbound frames into a small set of event kinds,
// reconnects with exponential backoff after unexpected closes, keeps the
// connection alive with periodic pings, and exposes a send operation that
// also emits an optimistic local message.
//
// # Event flow
//
// Decoded events are delivered on a channel in arrival order. The Manager
// never mutates conversation state itself; a single consumer (the UI update
// loop) applies each event to the timeline. A malformed or unrecognized
// frame is logged and dropped without disturbing the connection.
//
// # Lifecycle
//
//	mgr := ws.NewManager(cfg, tokens, user, chatID)
//	mgr.Start()
//	for ev := range mgr.Events() { ... }
//	mgr.Close() // switches conversation / unmounts: no reconnect afterwards
package ws
