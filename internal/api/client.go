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
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the REST client.
const (
	// DefaultTimeout bounds every non-upload request.
	DefaultTimeout = 30 * time.Second

	// UploadTimeout bounds document uploads, which carry real payloads.
	UploadTimeout = 2 * time.Minute

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// Error variables for common backend failures.
var (
	// ErrNoToken indicates an authenticated endpoint was called without a
	// credential available.
	ErrNoToken = errors.New("no access token")

	// ErrUnauthorized indicates the backend rejected the credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response that maps to no sentinel error.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// TokenSource supplies the current access credential. An empty string means
// no token is available.
type TokenSource interface {
	AccessToken() string
}

// Client talks to the chat backend's REST API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	uploader   *http.Client
}

// NewClient creates a REST client rooted at baseURL. tokens may be nil when
// only the unauthenticated endpoints (login, register) are used.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		uploader:   &http.Client{Timeout: UploadTimeout},
	}
}

// BaseURL returns the backend origin the client is rooted at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON issues one request with an optional JSON body and decodes the JSON
// response into out (unless out is nil). auth controls whether the bearer
// token is attached.
func (c *Client) doJSON(ctx context.Context, method, path string, auth bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if err := c.authorize(req); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authorize attaches the bearer token, failing fast when none is available.
func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return ErrNoToken
	}
	token := c.tokens.AccessToken()
	if token == "" {
		return ErrNoToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// statusError maps a non-2xx status to a sentinel or an APIError.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &APIError{Status: status, Body: msg}
}
