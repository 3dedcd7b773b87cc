// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/morganforge/milliy-tui/internal/model"
)

// DefaultPageSize is how many history entries one fetch requests.
const DefaultPageSize = 100

// messagesResponse wraps the history payload.
type messagesResponse struct {
	Data []model.Message `json:"data"`
}

// Messages fetches the persisted history of one conversation.
//
// The result is the backend's snapshot at fetch time; callers merge it into
// their canonical list rather than replacing local state, so an in-flight
// fetch that lands late cannot clobber optimistic entries. pageSize <= 0
// falls back to DefaultPageSize.
func (c *Client) Messages(ctx context.Context, chatID int64, pageSize int) ([]model.Message, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	path := "/api/v1/chat/messages/" + strconv.FormatInt(chatID, 10) +
		"/?page_size=" + strconv.Itoa(pageSize)

	var resp messagesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
