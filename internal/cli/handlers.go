// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/morganforge/milliy-tui/internal/api"
	"github.com/morganforge/milliy-tui/internal/config"
	"github.com/morganforge/milliy-tui/internal/session"
)

const requestTimeout = 30 * time.Second

// openStore opens the session store at its default location.
func openStore() (*session.Store, error) {
	path, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	return session.Open(path)
}

// HandleLogin signs in and stores the session.
func HandleLogin(args Args) error {
	cfg := config.Global()
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	email := strings.TrimSpace(args.Email)
	if email == "" {
		email, err = readLine("Email: ")
		if err != nil {
			return err
		}
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.Server.BaseURL, store)
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	creds, err := client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := store.SetTokens(creds.Access, creds.Refresh); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	user, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if err := store.SetUser(user); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}

	if !args.Quiet {
		name := user.FirstName
		if name == "" {
			name = user.Username
		}
		fmt.Printf("Signed in as %s (%s)\n", name, user.Email)
	}
	return nil
}

// HandleLogout drops the stored session.
func HandleLogout(args Args) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	if err := store.ClearTokens(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if !args.Quiet {
		fmt.Println("Signed out.")
	}
	return nil
}

// HandleStatus shows server and session status.
func HandleStatus(args Args) error {
	cfg := config.Global()
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	fmt.Printf("Server:    %s\n", cfg.Server.BaseURL)
	fmt.Printf("Websocket: %s\n", cfg.Server.WSURL)

	if store.AccessToken() == "" {
		fmt.Println("Session:   signed out")
		return nil
	}

	if user, err := store.User(); err == nil {
		fmt.Printf("Session:   signed in as %s\n", user.Email)
	} else {
		fmt.Println("Session:   token stored")
	}

	client := api.NewClient(cfg.Server.BaseURL, store)
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rooms, err := client.ListChats(ctx)
	if err != nil {
		fmt.Printf("Reachable: no (%v)\n", err)
		return nil
	}
	fmt.Printf("Reachable: yes, %d conversation(s)\n", len(rooms))
	return nil
}

// HandleConfig shows or updates configuration.
func HandleConfig(args Args) error {
	cfg := config.Global()

	switch args.Subcommand {
	case "", "show":
		fmt.Printf("server.base_url  = %s\n", cfg.Server.BaseURL)
		fmt.Printf("server.ws_url    = %s\n", cfg.Server.WSURL)
		fmt.Printf("server.page_size = %d\n", cfg.Server.PageSize)
		fmt.Printf("ui.theme         = %s\n", cfg.UI.Theme)
		fmt.Printf("ui.markdown      = %v\n", cfg.UI.Markdown)
		return nil

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case "set":
		if err := setConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("%s = %s\n", args.ConfigKey, args.ConfigVal)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
	}
}

// setConfigValue applies one key=value update.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "base_url", "server.base_url":
		cfg.Server.BaseURL = value
		cfg.Server.WSURL = ""
		cfg.SetDefaults() // re-derive ws_url
	case "ws_url", "server.ws_url":
		cfg.Server.WSURL = value
	case "page_size", "server.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("page_size: %w", err)
		}
		cfg.Server.PageSize = n
	case "theme", "ui.theme":
		cfg.UI.Theme = value
	case "markdown", "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("markdown: %w", err)
		}
		cfg.UI.Markdown = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// readLine prompts and reads one line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts and reads a password without echo. Falls back to a
// plain read when stdin is not a terminal (tests, pipes).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return readLine("")
}
