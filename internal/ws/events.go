// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/morganforge/milliy-tui/internal/model"
)

// =============================================================================
// EVENT TYPES
// =============================================================================

// Event is one decoded inbound frame or a connection status change.
// Exactly one concrete type is produced per frame; consumers switch on it.
type Event interface {
	isEvent()
}

// StatusEvent reports a connection state change. Consumers only ever see the
// boolean projection of the manager's state machine.
type StatusEvent struct {
	Connected bool
}

// AIStartEvent begins a new assistant draft with empty text.
type AIStartEvent struct{}

// AIChunkEvent appends a chunk of streamed text to the assistant draft,
// creating one if absent.
type AIChunkEvent struct {
	Chunk string
}

// AIEndEvent finalizes the draft. The draft text is discarded locally and a
// history refetch supplies the authoritative copy.
type AIEndEvent struct{}

// FileEvent carries a synthesized message for an assistant-generated file.
// It finalizes any draft without waiting for an end frame.
type FileEvent struct {
	Message model.Message
}

// MessageEvent carries a complete message to insert into the canonical list:
// an untagged persisted message, a complete assistant reply, or the local
// optimistic copy of an outbound send.
type MessageEvent struct {
	Message model.Message
}

func (StatusEvent) isEvent()  {}
func (AIStartEvent) isEvent() {}
func (AIChunkEvent) isEvent() {}
func (AIEndEvent) isEvent()   {}
func (FileEvent) isEvent()    {}
func (MessageEvent) isEvent() {}

// errUnhandledFrame marks a well-formed frame that matches no known shape.
// The manager logs and drops it; the connection is unaffected.
var errUnhandledFrame = errors.New("unhandled frame shape")

// =============================================================================
// FRAME DECODING
// =============================================================================

// frameProbe captures the discriminating fields of an inbound frame before
// committing to a shape.
type frameProbe struct {
	Type    string          `json:"type"`
	Chunk   *string         `json:"chunk"`
	FileURL string          `json:"file_url"`
	User    json.RawMessage `json:"user"`
	Message *string         `json:"message"`
	ID      int64           `json:"id"`
}

// decodeFrame classifies one inbound frame into exactly one Event.
//
// Tagged frames are ai_start, ai_chunk, ai_end and ai_file. Untagged frames
// are either a complete assistant reply ({user:"assistant", message}) or a
// full persisted message (id, message and created_at present). Anything else
// yields errUnhandledFrame; a body that is not valid JSON yields a parse
// error. Neither is fatal to the connection.
//
// baseURL is used to absolute-ize relative generated-file URLs.
func decodeFrame(baseURL string, data []byte) (Event, error) {
	var probe frameProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}

	switch probe.Type {
	case "ai_start":
		return AIStartEvent{}, nil

	case "ai_chunk":
		if probe.Chunk == nil {
			return nil, errUnhandledFrame
		}
		return AIChunkEvent{Chunk: *probe.Chunk}, nil

	case "ai_end":
		return AIEndEvent{}, nil

	case "ai_file":
		if probe.FileURL == "" {
			return nil, errUnhandledFrame
		}
		return FileEvent{Message: generatedFileMessage(baseURL, probe.FileURL)}, nil
	}

	if probe.Type != "" {
		return nil, errUnhandledFrame
	}

	// Complete assistant reply delivered without streaming.
	if bytes.Equal(probe.User, []byte(`"assistant"`)) && probe.Message != nil {
		return MessageEvent{Message: model.Message{
			ID:        model.NewLocalID(),
			Text:      *probe.Message,
			CreatedAt: time.Now(),
		}}, nil
	}

	// Full persisted message pushed over the socket.
	if probe.ID != 0 && probe.Message != nil {
		var msg model.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parse message frame: %w", err)
		}
		if msg.CreatedAt.IsZero() {
			return nil, errUnhandledFrame
		}
		return MessageEvent{Message: msg}, nil
	}

	return nil, errUnhandledFrame
}

// =============================================================================
// GENERATED FILE SYNTHESIS
// =============================================================================

// mediaTypeByExt maps the generated-file extensions the backend produces to
// their media types. Everything else falls back to octet-stream.
var mediaTypeByExt = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"doc":  "application/msword",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// generatedFileMessage synthesizes a persisted-message-shaped entry for an
// assistant-generated file so it can go straight into the canonical list.
// The message and its attachment carry local placeholder IDs; the next
// history refetch merges around them safely.
func generatedFileMessage(baseURL, fileURL string) model.Message {
	abs := absoluteURL(baseURL, fileURL)
	name := path.Base(abs)
	if name == "." || name == "/" || name == "" {
		name = "generated_file"
	}

	now := time.Now()
	file := model.Attachment{
		ID:        model.NewLocalID(),
		Name:      name,
		URL:       abs,
		MediaType: mediaTypeForName(name),
		CreatedAt: now,
	}
	return model.Message{
		ID:        model.NewLocalID(),
		Files:     []model.Attachment{file},
		CreatedAt: now,
	}
}

// mediaTypeForName infers a media type from the file extension.
func mediaTypeForName(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if mt, ok := mediaTypeByExt[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

// absoluteURL resolves a possibly relative file URL against the backend base.
func absoluteURL(baseURL, u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

// =============================================================================
// OUTBOUND FRAME
// =============================================================================

// Action is an optional directive attached to an outbound message, e.g.
// asking the assistant to produce a document in a given format.
type Action struct {
	Type   string `json:"type"`
	Format string `json:"format"`
}

// outboundFrame is the single frame written per send.
type outboundFrame struct {
	Message string  `json:"message"`
	FileIDs []int64 `json:"file_ids,omitempty"`
	Action  *Action `json:"action,omitempty"`
}

// pingFrame is the liveness frame written while the socket is open.
var pingFrame = []byte(`{"type":"ping"}`)
