// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for milliy.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides, validated on load:
//
//   - ~/.milliy/config.toml
//   - MILLIY_* environment variables (highest precedence)
//   - Built-in defaults
//
// A Watch helper reloads the global configuration when the file changes on
// disk, so endpoint or theme edits take effect without restarting.
package config
