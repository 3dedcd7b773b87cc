// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/morganforge/milliy-tui/internal/model"
)

// Keys in the kv table.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
	keyLastChat     = "last_chat"
)

// schema is the whole store: one key/value table.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// ErrNoSession indicates no stored login state.
var ErrNoSession = errors.New("not logged in")

// Store is the persistent session state, backed by SQLite.
type Store struct {
	db *sql.DB

	mu     sync.RWMutex
	access string
}

// DefaultPath returns the per-user location of the session database.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "milliy", "session.db"), nil
}

// Open opens (creating if necessary) the session store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s := &Store{db: db}
	if tok, err := s.get(keyAccessToken); err == nil {
		s.access = tok
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AccessToken returns the current access token, or "" when logged out.
// Served from memory; safe to call on every request.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the stored refresh token, or "".
func (s *Store) RefreshToken() string {
	tok, err := s.get(keyRefreshToken)
	if err != nil {
		return ""
	}
	return tok
}

// SetTokens stores a token pair, replacing any previous session.
func (s *Store) SetTokens(access, refresh string) error {
	if err := s.set(keyAccessToken, access); err != nil {
		return err
	}
	if err := s.set(keyRefreshToken, refresh); err != nil {
		return err
	}
	s.mu.Lock()
	s.access = access
	s.mu.Unlock()
	return nil
}

// ClearTokens logs the session out, dropping tokens and the cached profile.
func (s *Store) ClearTokens() error {
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUser} {
		if err := s.delete(key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.access = ""
	s.mu.Unlock()
	return nil
}

// SetUser caches the authenticated profile.
func (s *Store) SetUser(u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.set(keyUser, string(data))
}

// User returns the cached profile, or ErrNoSession when none is stored.
func (s *Store) User() (model.User, error) {
	raw, err := s.get(keyUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNoSession
		}
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return model.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// SetLastChat remembers the selected conversation for the next run.
func (s *Store) SetLastChat(id int64) error {
	return s.set(keyLastChat, strconv.FormatInt(id, 10))
}

// LastChat returns the previously selected conversation, if any.
func (s *Store) LastChat() (int64, bool) {
	raw, err := s.get(keyLastChat)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// =============================================================================
// KV PLUMBING
// =============================================================================

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	return value, err
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
