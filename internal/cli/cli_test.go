// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/morganforge/milliy-tui/internal/config"
)

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parse(nil)
	assert.Equal(t, CmdTUI, cmd)

	cmd, args := parse([]string{"-v"})
	assert.Equal(t, CmdTUI, cmd)
	assert.True(t, args.Verbose)
}

func TestParseLogin(t *testing.T) {
	cmd, args := parse([]string{"login", "--email", "ada@example.com"})
	assert.Equal(t, CmdLogin, cmd)
	assert.Equal(t, "ada@example.com", args.Email)

	cmd, _ = parse([]string{"signin"})
	assert.Equal(t, CmdLogin, cmd)
}

func TestParseStatusAlias(t *testing.T) {
	cmd, _ := parse([]string{"s"})
	assert.Equal(t, CmdStatus, cmd)
}

func TestParseConfigSet(t *testing.T) {
	cmd, args := parse([]string{"config", "set", "theme", "light"})
	assert.Equal(t, CmdConfig, cmd)
	assert.Equal(t, "set", args.Subcommand)
	assert.Equal(t, "theme", args.ConfigKey)
	assert.Equal(t, "light", args.ConfigVal)
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parse([]string{"--quiet", "logout"})
	assert.Equal(t, CmdLogout, cmd)
	assert.True(t, args.Quiet)
}

func TestParseUnknownCommandShowsHelp(t *testing.T) {
	cmd, _ := parse([]string{"bogus"})
	assert.Equal(t, CmdHelp, cmd)
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	assert.NoError(t, setConfigValue(cfg, "base_url", "https://chat.example.com"))
	assert.Equal(t, "https://chat.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "wss://chat.example.com", cfg.Server.WSURL, "ws origin re-derived")

	assert.NoError(t, setConfigValue(cfg, "page_size", "50"))
	assert.Equal(t, 50, cfg.Server.PageSize)

	assert.NoError(t, setConfigValue(cfg, "markdown", "false"))
	assert.False(t, cfg.UI.Markdown)

	assert.Error(t, setConfigValue(cfg, "page_size", "many"))
	assert.Error(t, setConfigValue(cfg, "nope", "x"))
}
