// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ws

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/morganforge/milliy-tui/internal/model"
)

// pingInterval is how often a liveness frame is written while the socket is
// open. The backend drops idle connections somewhere above this.
const pingInterval = 25 * time.Second

// eventBuffer bounds how many decoded events may queue up ahead of the
// consumer before the read loop blocks.
const eventBuffer = 64

// Sentinel errors surfaced by the manager.
var (
	// ErrNotConnected is returned by Send when no socket is open. The
	// caller is expected to leave the user's input intact for retry;
	// nothing is queued.
	ErrNotConnected = errors.New("websocket not connected")

	// ErrNoToken means no access credential is available, so no connection
	// is attempted at all.
	ErrNoToken = errors.New("no access token")

	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("connection manager closed")
)

// State is the connection lifecycle state. It is owned exclusively by the
// manager; consumers observe only the boolean projection via StatusEvent.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosing
)

// TokenSource supplies the current access credential. An empty string means
// no token is available.
type TokenSource interface {
	AccessToken() string
}

// Config carries the endpoints the manager needs.
type Config struct {
	// WSBase is the websocket origin, e.g. "ws://localhost:8000".
	WSBase string
	// HTTPBase is the REST origin, used to absolute-ize generated-file URLs.
	HTTPBase string
}

// Manager owns one streaming connection for one conversation selection.
//
// Construct a fresh Manager on every conversation switch and Close the prior
// one; reconnect counters and closed-by-us semantics are scoped to a single
// selection, never shared ambient state.
type Manager struct {
	cfg    Config
	tokens TokenSource
	user   *model.User
	chatID int64

	// id tags log lines so interleaved connection lifetimes stay readable.
	id string

	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	state   State
	tries   int
	closed  bool

	startOnce sync.Once
	closeOnce sync.Once
}

// NewManager creates a manager scoped to one conversation. user identifies
// the local account; optimistic messages emitted by Send are tagged with it.
func NewManager(cfg Config, tokens TokenSource, user *model.User, chatID int64) *Manager {
	return &Manager{
		cfg:    cfg,
		tokens: tokens,
		user:   user,
		chatID: chatID,
		id:     uuid.NewString()[:8],
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// Events returns the stream of decoded frames and status changes, delivered
// strictly in arrival order. The channel is closed after Close once the run
// loop has drained.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// ChatID returns the conversation this manager is bound to.
func (m *Manager) ChatID() int64 {
	return m.chatID
}

// Connected reports whether a socket is currently open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateOpen
}

// Start launches the connection loop. Calling Start more than once is a
// no-op.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		go m.run()
	})
}

// Close tears the connection down and suppresses any reconnect. Used on
// conversation switch and on unmount. Safe to call multiple times.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.state = StateClosing
		conn := m.conn
		m.mu.Unlock()

		close(m.done)
		if conn != nil {
			conn.Close()
		}
	})
}

// =============================================================================
// SEND
// =============================================================================

// Send writes one outbound frame carrying the message text, optional
// attachment IDs and optional action directive.
//
// Before the frame is written an optimistic copy of the message, tagged with
// the local user and a placeholder ID, is emitted on the event channel so the
// conversation updates immediately. When no socket is open Send fails with
// ErrNotConnected and emits nothing.
func (m *Manager) Send(text string, fileIDs []int64, action *Action) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.conn == nil || m.state != StateOpen {
		m.mu.Unlock()
		return ErrNotConnected
	}
	conn := m.conn
	m.mu.Unlock()

	m.emit(MessageEvent{Message: model.Message{
		ID:        model.NewLocalID(),
		Text:      text,
		Sender:    m.user.AsSender(),
		CreatedAt: time.Now(),
	}})

	frame := outboundFrame{Message: text, Action: action}
	if len(fileIDs) > 0 {
		frame.FileIDs = fileIDs
	}

	m.writeMu.Lock()
	err := conn.WriteJSON(frame)
	m.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// =============================================================================
// CONNECTION LOOP
// =============================================================================

// run drives the state machine: connect, serve the read loop until the
// socket drops, then back off and reconnect unless the close was ours.
func (m *Manager) run() {
	defer close(m.events)

	for {
		err := m.connectAndServe()
		if m.isClosed() {
			log.Printf("[ws %s] closed (chat %d)", m.id, m.chatID)
			return
		}
		if errors.Is(err, ErrNoToken) {
			// Without a credential there is nothing to retry against.
			log.Printf("[ws %s] no access token, not connecting", m.id)
			return
		}

		m.mu.Lock()
		m.tries++
		tries := m.tries
		m.mu.Unlock()

		delay := Delay(tries)
		if err != nil {
			log.Printf("[ws %s] connect failed (attempt %d): %v; retrying in %v", m.id, tries, err, delay)
		} else {
			log.Printf("[ws %s] connection lost (attempt %d); reconnecting in %v", m.id, tries, delay)
		}

		select {
		case <-m.done:
			return
		case <-time.After(delay):
		}
	}
}

// connectAndServe dials the conversation endpoint and pumps inbound frames
// until the socket closes. A nil return means an established connection was
// lost; a non-nil return means the dial itself failed.
func (m *Manager) connectAndServe() error {
	token := m.tokens.AccessToken()
	if token == "" {
		return ErrNoToken
	}

	m.setState(StateConnecting)

	endpoint := fmt.Sprintf("%s/ws/chat/%d/?token=%s",
		strings.TrimRight(m.cfg.WSBase, "/"), m.chatID, url.QueryEscape(token))

	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		m.setState(StateIdle)
		return fmt.Errorf("dial: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		conn.Close()
		return nil
	}
	m.conn = conn
	m.state = StateOpen
	m.tries = 0
	m.mu.Unlock()

	log.Printf("[ws %s] connected (chat %d)", m.id, m.chatID)
	m.emit(StatusEvent{Connected: true})

	pingDone := make(chan struct{})
	go m.pingLoop(conn, pingDone)

	m.readLoop(conn)

	close(pingDone)
	m.mu.Lock()
	if m.conn == conn {
		m.conn = nil
	}
	if !m.closed {
		m.state = StateIdle
	}
	m.mu.Unlock()
	conn.Close()

	m.emit(StatusEvent{Connected: false})
	return nil
}

// readLoop decodes inbound frames in arrival order. Malformed or
// unrecognized frames are logged and dropped; they never terminate the
// connection.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := decodeFrame(m.cfg.HTTPBase, data)
		if err != nil {
			log.Printf("[ws %s] dropping frame: %v", m.id, err)
			continue
		}
		m.emit(ev)
	}
}

// pingLoop writes a liveness frame at a fixed interval while the socket is
// open. It stops as soon as the connection is gone.
func (m *Manager) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-m.done:
			return
		case <-ticker.C:
			m.writeMu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, pingFrame)
			m.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	if !m.closed {
		m.state = s
	}
	m.mu.Unlock()
}
