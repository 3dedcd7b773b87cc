// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()

	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, "ws://localhost:8000", cfg.Server.WSURL)
	assert.Equal(t, 100, cfg.Server.PageSize)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
base_url = "https://api.milliy.example/"
page_size = 50

[ui]
theme = "light"
compact_mode = true
`), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.milliy.example", cfg.Server.BaseURL)
	assert.Equal(t, "wss://api.milliy.example", cfg.Server.WSURL)
	assert.Equal(t, 50, cfg.Server.PageSize)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.True(t, cfg.UI.CompactMode)
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MILLIY_BASE_URL", "https://staging.milliy.example")
	t.Setenv("MILLIY_PAGE_SIZE", "30")
	t.Setenv("MILLIY_THEME", "light")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "https://staging.milliy.example", cfg.Server.BaseURL)
	// Socket origin follows the overridden base.
	assert.Equal(t, "wss://staging.milliy.example", cfg.Server.WSURL)
	assert.Equal(t, 30, cfg.Server.PageSize)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestEnvOverrides_ExplicitWSURL(t *testing.T) {
	t.Setenv("MILLIY_BASE_URL", "https://api.milliy.example")
	t.Setenv("MILLIY_WS_URL", "wss://stream.milliy.example")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "wss://stream.milliy.example", cfg.Server.WSURL)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad base scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, "server.base_url"},
		{"bad ws scheme", func(c *Config) { c.Server.WSURL = "http://x" }, "server.ws_url"},
		{"page size too small", func(c *Config) { c.Server.PageSize = -1 }, "server.page_size"},
		{"page size too large", func(c *Config) { c.Server.PageSize = 501 }, "server.page_size"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.SetDefaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "https://api.milliy.example"
	cfg.UI.Theme = "light"
	cfg.SetDefaults()
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.BaseURL, loaded.Server.BaseURL)
	assert.Equal(t, "light", loaded.UI.Theme)
}

func TestDeriveWSURL(t *testing.T) {
	assert.Equal(t, "ws://h:8000", deriveWSURL("http://h:8000"))
	assert.Equal(t, "wss://h", deriveWSURL("https://h"))
}
