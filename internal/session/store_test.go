// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/milliy-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_TokenLifecycle(t *testing.T) {
	s := openTestStore(t)

	assert.Empty(t, s.AccessToken())

	require.NoError(t, s.SetTokens("acc-1", "ref-1"))
	assert.Equal(t, "acc-1", s.AccessToken())
	assert.Equal(t, "ref-1", s.RefreshToken())

	require.NoError(t, s.ClearTokens())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("acc-2", "ref-2"))
	require.NoError(t, s.SetUser(model.User{ID: 5, Email: "ada@example.com"}))
	require.NoError(t, s.SetLastChat(42))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "acc-2", s.AccessToken())

	u, err := s.User()
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	id, ok := s.LastChat()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestStore_UserWithoutSession(t *testing.T) {
	s := openTestStore(t)

	_, err := s.User()
	assert.ErrorIs(t, err, ErrNoSession)

	_, ok := s.LastChat()
	assert.False(t, ok)
}

func TestStore_ClearDropsProfile(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetTokens("a", "r"))
	require.NoError(t, s.SetUser(model.User{ID: 1}))
	require.NoError(t, s.ClearTokens())

	_, err := s.User()
	assert.ErrorIs(t, err, ErrNoSession)
}
