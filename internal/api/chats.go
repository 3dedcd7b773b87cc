// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/morganforge/milliy-tui/internal/model"
)

// chatsResponse wraps the room list payload.
type chatsResponse struct {
	Data []model.ChatRoom `json:"data"`
}

// chatResponse wraps a single room payload.
type chatResponse struct {
	Data model.ChatRoom `json:"data"`
}

// createChatRequest is the body of the room creation endpoint.
type createChatRequest struct {
	Name string `json:"name,omitempty"`
}

// ListChats fetches the user's chat rooms, newest first as delivered by the
// backend.
func (c *Client) ListChats(ctx context.Context) ([]model.ChatRoom, error) {
	var resp chatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/chat/chats/", true, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateChat creates a new room. name may be empty; the backend assigns a
// default in that case.
func (c *Client) CreateChat(ctx context.Context, name string) (model.ChatRoom, error) {
	var resp chatResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/chat/chats/", true,
		createChatRequest{Name: name}, &resp)
	if err != nil {
		return model.ChatRoom{}, err
	}
	return resp.Data, nil
}
