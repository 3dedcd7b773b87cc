// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the REST client for the chat backend.
//
// It covers the non-streaming surface: authentication, chat room listing and
// creation, message history, the authenticated user profile, and document
// uploads. Streaming lives in the ws package; the two share only the model
// types and the token source.
//
// All calls take a context and return explicit errors. Authenticated
// endpoints read the bearer token from a TokenSource on every request, so a
// refreshed credential is picked up without rebuilding the client.
package api
