// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// Streaming defaults: chunks are batched so the draft repaints at a capped
// frame rate instead of once per token. 15 tokens or ~33ms (30fps), whichever
// comes first.
const (
	streamBatchSize = 15
	streamFrameTime = 33 * time.Millisecond
)

// StreamingBuffer accumulates assistant chunks between repaints.
//
// The socket goroutine writes into it; the update loop drains it on a tick.
// Without the batching a fast stream forces a full viewport re-render per
// chunk, which flickers and burns CPU.
type StreamingBuffer struct {
	mu        sync.Mutex
	pending   strings.Builder
	chunks    int
	lastFlush time.Time
}

// NewStreamingBuffer creates an empty buffer.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{lastFlush: time.Now()}
}

// Write appends a chunk. Safe to call from the socket goroutine.
func (sb *StreamingBuffer) Write(chunk string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.pending.WriteString(chunk)
	sb.chunks++
}

// Flush returns the accumulated text when either threshold (batch size or
// frame time) has been reached, and resets the buffer. The boolean is false
// when there is nothing to paint yet.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.pending.Len() == 0 {
		return "", false
	}
	if sb.chunks < streamBatchSize && time.Since(sb.lastFlush) < streamFrameTime {
		return "", false
	}
	return sb.drainLocked(), true
}

// Reset discards buffered content. Used when a stream is abandoned or a new
// one starts.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.pending.Reset()
	sb.chunks = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of chunks waiting for the next flush.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.chunks
}

func (sb *StreamingBuffer) drainLocked() string {
	out := sb.pending.String()
	sb.pending.Reset()
	sb.chunks = 0
	sb.lastFlush = time.Now()
	return out
}

// streamTickCmd schedules the next draft repaint.
func streamTickCmd() tea.Cmd {
	return tea.Tick(streamFrameTime, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
