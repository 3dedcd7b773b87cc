// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/milliy-tui/internal/api"
	"github.com/morganforge/milliy-tui/internal/ui/styles"
)

const submitTimeout = 30 * time.Second

// Authenticator performs the credential exchange. *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.Credentials, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (api.Credentials, error)
}

// ResultMsg carries the outcome of a login or registration attempt. The app
// root persists the credentials and switches views on success.
type ResultMsg struct {
	Credentials api.Credentials
	Err         error
}

// =============================================================================
// FORM MODEL
// =============================================================================

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// Field indices. Login shows the first two; register shows all four.
const (
	fieldEmail = iota
	fieldPassword
	fieldFirstName
	fieldLastName
	fieldCount
)

// Model is the authentication form.
type Model struct {
	theme *styles.Theme
	auth  Authenticator

	mode   mode
	inputs [fieldCount]textinput.Model
	focus  int

	busy bool
	err  string

	width  int
	height int
}

// New creates the form in login mode.
func New(theme *styles.Theme, auth Authenticator) Model {
	m := Model{theme: theme, auth: auth}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	first := textinput.New()
	first.Placeholder = "first name"
	first.CharLimit = 60

	last := textinput.New()
	last.Placeholder = "last name"
	last.CharLimit = 60

	m.inputs[fieldEmail] = email
	m.inputs[fieldPassword] = password
	m.inputs[fieldFirstName] = first
	m.inputs[fieldLastName] = last
	return m
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize resizes the form.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetError shows an error line. Used by the app root when a step after the
// credential exchange fails (e.g. loading the profile).
func (m *Model) SetError(text string) {
	m.busy = false
	m.err = text
}

// fieldsShown returns how many inputs the current mode uses.
func (m Model) fieldsShown() int {
	if m.mode == modeRegister {
		return fieldCount
	}
	return 2
}

// Update handles one Bubble Tea message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case ResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = authErrorText(msg.Err)
			return m, nil
		}
		// Success is handled by the app root; nothing to show here.
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setFocus((m.focus + 1) % m.fieldsShown())
		return m, textinput.Blink
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + m.fieldsShown()) % m.fieldsShown())
		return m, textinput.Blink
	case "enter":
		if m.focus < m.fieldsShown()-1 {
			m.setFocus(m.focus + 1)
			return m, textinput.Blink
		}
		return m.submit()
	case "ctrl+r":
		m.toggleMode()
		return m, textinput.Blink
	}
	return m, m.updateFocused(msg)
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *Model) toggleMode() {
	if m.mode == modeLogin {
		m.mode = modeRegister
	} else {
		m.mode = modeLogin
		if m.focus >= m.fieldsShown() {
			m.setFocus(0)
		}
	}
	m.err = ""
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// submit validates the form and fires the credential exchange.
func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	switch {
	case email == "" || !strings.Contains(email, "@"):
		m.err = "enter a valid email address"
		return m, nil
	case password == "":
		m.err = "enter a password"
		return m, nil
	}

	first := strings.TrimSpace(m.inputs[fieldFirstName].Value())
	last := strings.TrimSpace(m.inputs[fieldLastName].Value())
	if m.mode == modeRegister && first == "" {
		m.err = "enter a first name"
		return m, nil
	}

	m.err = ""
	m.busy = true

	auth := m.auth
	register := m.mode == modeRegister
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		var creds api.Credentials
		var err error
		if register {
			creds, err = auth.Register(ctx, email, password, first, last)
		} else {
			creds, err = auth.Login(ctx, email, password)
		}
		return ResultMsg{Credentials: creds, Err: err}
	}
}

// authErrorText maps exchange errors to a short human line.
func authErrorText(err error) string {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "invalid email or password"
	default:
		s := err.Error()
		if len(s) > 60 {
			s = s[:57] + "..."
		}
		return s
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the centered auth box.
func (m Model) View() string {
	var b strings.Builder

	title := "Sign in to MILLIY"
	switcher := "ctrl+r to create an account"
	if m.mode == modeRegister {
		title = "Create a MILLIY account"
		switcher = "ctrl+r to sign in instead"
	}

	b.WriteString(m.theme.AuthTitle.Render(title))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Email", "Password", "First name", "Last name"}
	for i := 0; i < m.fieldsShown(); i++ {
		b.WriteString(m.theme.AuthLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString("\n" + m.theme.NoticeText.Render("signing in..."))
	}
	if m.err != "" {
		b.WriteString("\n" + m.theme.AuthError.Render(m.err))
	}

	b.WriteString("\n\n" + m.theme.AuthSwitcher.Render(switcher))

	box := m.theme.AuthBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
