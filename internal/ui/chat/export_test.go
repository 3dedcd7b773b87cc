// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/milliy-tui/internal/model"
)

func TestWriteTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.md")
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	msgs := []model.Message{
		{
			ID: 1, Text: "hello",
			Sender:    &model.Sender{ID: 3, FirstName: "Ada", LastName: "Lovelace"},
			CreatedAt: at,
		},
		{
			ID: 2, Text: "hi Ada", CreatedAt: at.Add(time.Minute),
			Files: []model.Attachment{
				{ID: 9, Name: "out.pdf", URL: "http://localhost:8000/media/out.pdf"},
			},
		},
	}

	require.NoError(t, WriteTranscript(path, "Planning", msgs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# Planning")
	assert.Contains(t, out, "**Ada Lovelace** (2025-03-01 09:30)")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "**Assistant**")
	assert.Contains(t, out, "[out.pdf](http://localhost:8000/media/out.pdf)")
}

func TestWriteTranscriptEmptyConversation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, WriteTranscript(path, "Empty", nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Empty\n\n", string(data))
}
