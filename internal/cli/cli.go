// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool

	// Command-specific
	Email      string
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `milliy - terminal client for MILLIY AI chat

Usage:
  milliy                     Start the chat TUI (default)
  milliy login               Sign in and store the session
    --email ADDRESS          Skip the email prompt
  milliy logout              Drop the stored session
  milliy status, s           Show server and session status
  milliy config [show|path]  Configuration
  milliy version             Show version information
  milliy help                Show this help

Global Flags:
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Environment:
  MILLIY_BASE_URL   Override the API origin
  MILLIY_WS_URL     Override the websocket origin

Keys inside the TUI:
  tab      Switch between the sidebar and the conversation
  ctrl+n   New conversation
  ctrl+q   Quit
  /attach <path>   Stage a file for the next message
  /export [path]   Write the transcript to disk

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("milliy version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

// parse is the testable core of Parse.
func parse(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "login", "signin":
		for i := 0; i < len(remaining); i++ {
			if remaining[i] == "--email" && i+1 < len(remaining) {
				parsed.Email = remaining[i+1]
				i++
			}
		}
		return CmdLogin, parsed

	case "logout", "signout":
		return CmdLogout, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		if len(remaining) > 2 && remaining[0] == "set" {
			parsed.ConfigKey = remaining[1]
			parsed.ConfigVal = remaining[2]
		}
		return CmdConfig, parsed

	case "version", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags strips global flags and returns the rest.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for _, a := range argv {
		switch a {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		default:
			remaining = append(remaining, a)
		}
	}
	return remaining, parsed
}
