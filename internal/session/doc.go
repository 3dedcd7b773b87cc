// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists login state between runs.
//
// The store is a small SQLite key/value table holding the token pair, the
// cached user profile and the last selected chat. The access token is kept in
// memory behind a read lock so the REST client and the websocket manager can
// read it on every request without touching the database.
//
// Store satisfies the TokenSource interface both clients consume.
package session
