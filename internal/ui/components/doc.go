// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the milliy TUI:
// the bottom status bar with the connection indicator and the message
// renderer used by the conversation viewport.
package components
