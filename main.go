// milliy TUI - a terminal client for MILLIY AI chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/milliy-tui/internal/cli"
	"github.com/morganforge/milliy-tui/internal/config"
	"github.com/morganforge/milliy-tui/internal/session"
	"github.com/morganforge/milliy-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		if err := cli.HandleLogin(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdLogout:
		if err := cli.HandleLogout(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		if err := cli.HandleStatus(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// runTUI starts the chat interface.
func runTUI(args cli.Args) {
	cfg := config.Global()

	// The TUI owns the terminal; route the standard logger to a file so
	// diagnostics never tear the screen.
	if !args.Verbose {
		if f, err := logFile(); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	storePath, err := session.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := session.Open(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Live-reload the config file while the TUI runs. Server changes apply
	// on the next conversation switch.
	stopWatch, err := config.Watch(func(updated *config.Config) {
		log.Printf("[main] config reloaded from disk")
	})
	if err == nil {
		defer stopWatch()
	} else {
		log.Printf("[main] config watch unavailable: %v", err)
	}

	program := tea.NewProgram(ui.NewApp(cfg, store), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logFile opens the diagnostic log under the config dir.
func logFile() (*os.File, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(dir+"/milliy.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}
