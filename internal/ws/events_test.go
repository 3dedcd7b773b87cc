// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "http://localhost:8000"

func TestDecodeFrame_AIStart(t *testing.T) {
	ev, err := decodeFrame(testBase, []byte(`{"type":"ai_start"}`))
	require.NoError(t, err)
	assert.IsType(t, AIStartEvent{}, ev)
}

func TestDecodeFrame_AIChunk(t *testing.T) {
	ev, err := decodeFrame(testBase, []byte(`{"type":"ai_chunk","chunk":"Hel"}`))
	require.NoError(t, err)
	assert.Equal(t, AIChunkEvent{Chunk: "Hel"}, ev)

	// An empty chunk is still a valid chunk.
	ev, err = decodeFrame(testBase, []byte(`{"type":"ai_chunk","chunk":""}`))
	require.NoError(t, err)
	assert.Equal(t, AIChunkEvent{Chunk: ""}, ev)

	// A chunk frame without a chunk field is not.
	_, err = decodeFrame(testBase, []byte(`{"type":"ai_chunk"}`))
	assert.ErrorIs(t, err, errUnhandledFrame)
}

func TestDecodeFrame_AIEnd(t *testing.T) {
	ev, err := decodeFrame(testBase, []byte(`{"type":"ai_end"}`))
	require.NoError(t, err)
	assert.IsType(t, AIEndEvent{}, ev)
}

func TestDecodeFrame_AIFileSynthesizesMessage(t *testing.T) {
	ev, err := decodeFrame(testBase, []byte(`{"type":"ai_file","file_url":"/media/out.pdf"}`))
	require.NoError(t, err)

	fe, ok := ev.(FileEvent)
	require.True(t, ok)

	msg := fe.Message
	assert.True(t, msg.Local())
	assert.True(t, msg.FromAssistant())
	assert.False(t, msg.CreatedAt.IsZero())
	require.Len(t, msg.Files, 1)

	file := msg.Files[0]
	assert.Equal(t, "out.pdf", file.Name)
	assert.Equal(t, "http://localhost:8000/media/out.pdf", file.URL)
	assert.Equal(t, "application/pdf", file.MediaType)
	assert.Negative(t, file.ID)
}

func TestDecodeFrame_AIFileAbsoluteURLPassthrough(t *testing.T) {
	ev, err := decodeFrame(testBase, []byte(`{"type":"ai_file","file_url":"https://cdn.example.com/r/report.docx"}`))
	require.NoError(t, err)

	fe := ev.(FileEvent)
	require.Len(t, fe.Message.Files, 1)
	assert.Equal(t, "https://cdn.example.com/r/report.docx", fe.Message.Files[0].URL)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		fe.Message.Files[0].MediaType)
}

func TestDecodeFrame_AIFileUnknownExtension(t *testing.T) {
	ev, err := decodeFrame(testBase, []byte(`{"type":"ai_file","file_url":"/media/archive.zip"}`))
	require.NoError(t, err)

	fe := ev.(FileEvent)
	assert.Equal(t, "application/octet-stream", fe.Message.Files[0].MediaType)
}

func TestDecodeFrame_AIFileMissingURL(t *testing.T) {
	_, err := decodeFrame(testBase, []byte(`{"type":"ai_file"}`))
	assert.ErrorIs(t, err, errUnhandledFrame)
}

func TestDecodeFrame_UntaggedAssistantReply(t *testing.T) {
	ev, err := decodeFrame(testBase, []byte(`{"user":"assistant","message":"done thinking"}`))
	require.NoError(t, err)

	me, ok := ev.(MessageEvent)
	require.True(t, ok)
	assert.True(t, me.Message.FromAssistant())
	assert.True(t, me.Message.Local())
	assert.Equal(t, "done thinking", me.Message.Text)
	assert.False(t, me.Message.CreatedAt.IsZero())
}

func TestDecodeFrame_UntaggedPersistedMessage(t *testing.T) {
	raw := `{
		"id": 42,
		"message": "hello there",
		"sender": {"id": 3, "first_name": "Ada"},
		"created_at": "2025-03-01T12:00:00Z"
	}`
	ev, err := decodeFrame(testBase, []byte(raw))
	require.NoError(t, err)

	me, ok := ev.(MessageEvent)
	require.True(t, ok)
	assert.Equal(t, int64(42), me.Message.ID)
	assert.Equal(t, "hello there", me.Message.Text)
	require.NotNil(t, me.Message.Sender)
	assert.Equal(t, int64(3), me.Message.Sender.ID)
}

func TestDecodeFrame_PersistedMessageRequiresTimestamp(t *testing.T) {
	_, err := decodeFrame(testBase, []byte(`{"id":42,"message":"hi"}`))
	assert.ErrorIs(t, err, errUnhandledFrame)
}

func TestDecodeFrame_UnknownTypeIsDropped(t *testing.T) {
	_, err := decodeFrame(testBase, []byte(`{"type":"typing_indicator","user":5}`))
	assert.ErrorIs(t, err, errUnhandledFrame)
}

func TestDecodeFrame_UnrecognizedUntaggedShape(t *testing.T) {
	_, err := decodeFrame(testBase, []byte(`{"status":"ok"}`))
	assert.ErrorIs(t, err, errUnhandledFrame)
}

func TestDecodeFrame_MalformedJSON(t *testing.T) {
	_, err := decodeFrame(testBase, []byte(`{"type":"ai_chunk",`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errUnhandledFrame)
}

func TestOutboundFrame_Shape(t *testing.T) {
	data, err := json.Marshal(outboundFrame{Message: "make me a report"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"make me a report"}`, string(data))

	data, err = json.Marshal(outboundFrame{
		Message: "summarize",
		FileIDs: []int64{7, 8},
		Action:  &Action{Type: "generate_file", Format: "pdf"},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"message":"summarize","file_ids":[7,8],"action":{"type":"generate_file","format":"pdf"}}`,
		string(data))
}
