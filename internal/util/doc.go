// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers: width-aware string truncation
// for terminal rendering and crash-safe file writes.
package util
