// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ws

import "time"

// Reconnect backoff parameters. The first retry waits baseDelay and every
// unsuccessful attempt doubles the wait, capped at maxDelay. Retries continue
// indefinitely until the conversation changes or the manager is closed.
const (
	baseDelay = 500 * time.Millisecond
	maxDelay  = 30 * time.Second
)

// Delay returns how long to wait before reconnect attempt number tries.
// tries counts failed or unexpectedly closed attempts starting at 1:
// 500ms, 1s, 2s, 4s, ... capped at 30s.
func Delay(tries int) time.Duration {
	if tries < 1 {
		tries = 1
	}
	// 2^(tries-1) overflows a Duration well before tries reaches 64.
	if tries > 32 {
		return maxDelay
	}
	d := baseDelay << uint(tries-1)
	if d > maxDelay {
		return maxDelay
	}
	return d
}
