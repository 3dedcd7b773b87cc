// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui contains the app root model: it decides which view is on screen
// (auth or the main chat layout), owns the per-conversation socket manager,
// and funnels socket events into the Bubble Tea update loop.
package ui
