// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rooms provides the conversation sidebar: the room list, selection,
// and the inline create-room prompt.
package rooms
