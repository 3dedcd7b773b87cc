// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the login and registration forms shown before the
// main chat view. The form only collects input and reports credentials; token
// persistence is the app root's job.
package auth
