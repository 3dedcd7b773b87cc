// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/milliy-tui/internal/api"
	"github.com/morganforge/milliy-tui/internal/ui/styles"
)

type fakeAuthenticator struct {
	creds api.Credentials
	err   error

	logins    []string
	registers []string
}

func (f *fakeAuthenticator) Login(_ context.Context, email, _ string) (api.Credentials, error) {
	f.logins = append(f.logins, email)
	return f.creds, f.err
}

func (f *fakeAuthenticator) Register(_ context.Context, email, _, _, _ string) (api.Credentials, error) {
	f.registers = append(f.registers, email)
	return f.creds, f.err
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

func TestLoginSubmits(t *testing.T) {
	fake := &fakeAuthenticator{creds: api.Credentials{Access: "a", Refresh: "r"}}
	m := New(styles.NewTheme(), fake)

	m = typeString(m, "ada@example.com")
	m, _ = press(m, tea.KeyEnter) // advance to password
	m = typeString(m, "hunter22")
	m, cmd := press(m, tea.KeyEnter) // submit
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	res, ok := cmd().(ResultMsg)
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "a", res.Credentials.Access)
	assert.Equal(t, []string{"ada@example.com"}, fake.logins)
	assert.Empty(t, fake.registers)
}

func TestRegisterModeUsesRegisterEndpoint(t *testing.T) {
	fake := &fakeAuthenticator{creds: api.Credentials{Access: "a"}}
	m := New(styles.NewTheme(), fake)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, modeRegister, m.mode)

	m = typeString(m, "new@example.com")
	m, _ = press(m, tea.KeyEnter)
	m = typeString(m, "hunter22")
	m, _ = press(m, tea.KeyEnter)
	m = typeString(m, "Ada")
	m, _ = press(m, tea.KeyEnter)
	m = typeString(m, "Lovelace")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	res, ok := cmd().(ResultMsg)
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"new@example.com"}, fake.registers)
	assert.Empty(t, fake.logins)
	assert.True(t, m.busy)
}

func TestValidationRejectsBadEmail(t *testing.T) {
	fake := &fakeAuthenticator{}
	m := New(styles.NewTheme(), fake)

	m = typeString(m, "not-an-email")
	m, _ = press(m, tea.KeyEnter)
	m = typeString(m, "pw")
	m, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd, "invalid form never reaches the network")
	assert.Contains(t, m.err, "email")
	assert.Empty(t, fake.logins)
}

func TestValidationRequiresPassword(t *testing.T) {
	m := New(styles.NewTheme(), &fakeAuthenticator{})

	m = typeString(m, "ada@example.com")
	m, _ = press(m, tea.KeyEnter)
	m, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Contains(t, m.err, "password")
}

func TestRejectedCredentialsShowError(t *testing.T) {
	m := New(styles.NewTheme(), &fakeAuthenticator{err: api.ErrUnauthorized})

	m = typeString(m, "ada@example.com")
	m, _ = press(m, tea.KeyEnter)
	m = typeString(m, "wrong")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	m, _ = m.Update(cmd())
	assert.False(t, m.busy)
	assert.Contains(t, m.err, "invalid email or password")
	assert.Contains(t, m.View(), "invalid email or password")
}

func TestTabCyclesFields(t *testing.T) {
	m := New(styles.NewTheme(), &fakeAuthenticator{})
	assert.Equal(t, fieldEmail, m.focus)

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, fieldPassword, m.focus)

	m, _ = press(m, tea.KeyTab) // wraps in login mode (two fields)
	assert.Equal(t, fieldEmail, m.focus)

	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, fieldPassword, m.focus)
}

func TestSwitchingBackToLoginResetsFocus(t *testing.T) {
	m := New(styles.NewTheme(), &fakeAuthenticator{})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR}) // register
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, fieldLastName, m.focus)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR}) // back to login
	assert.Less(t, m.focus, m.fieldsShown())
}

func TestViewShowsModeSwitcher(t *testing.T) {
	m := New(styles.NewTheme(), &fakeAuthenticator{})
	assert.Contains(t, m.View(), "Sign in to MILLIY")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Contains(t, m.View(), "Create a MILLIY account")
	assert.Contains(t, m.View(), "First name")
}
