// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/morganforge/milliy-tui/internal/model"
)

// uploadExtensions is the set of document types the backend accepts. The
// check runs client-side so a rejected file never leaves the machine.
var uploadExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".pptx": true,
}

// ErrBadExtension indicates the file type is not accepted for upload.
var ErrBadExtension = errors.New("unsupported file type (want pdf, doc, docx or pptx)")

// uploadResponse wraps the created resource. Some backend versions return the
// attachment bare, others under data; both fields cover it.
type uploadResponse struct {
	model.Attachment
	Data *model.Attachment `json:"data"`
}

// Upload sends one document to the resource endpoint and returns the stored
// attachment. Its ID is what an outbound message references.
func (c *Client) Upload(ctx context.Context, name string, content io.Reader) (model.Attachment, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !uploadExtensions[ext] {
		return model.Attachment{}, fmt.Errorf("%s: %w", name, ErrBadExtension)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return model.Attachment{}, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return model.Attachment{}, fmt.Errorf("read file: %w", err)
	}
	if err := form.Close(); err != nil {
		return model.Attachment{}, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/resource/", &buf)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if err := c.authorize(req); err != nil {
		return model.Attachment{}, err
	}

	resp, err := c.uploader.Do(req)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return model.Attachment{}, fmt.Errorf("read response: %w", err)
	}
	if err := statusError(resp.StatusCode, data); err != nil {
		return model.Attachment{}, err
	}

	var out uploadResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Attachment{}, fmt.Errorf("decode response: %w", err)
	}
	if out.Data != nil {
		return *out.Data, nil
	}
	return out.Attachment, nil
}
