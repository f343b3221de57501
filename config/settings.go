// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/settings.go
// Summary: Typed view over the system config consumed by the desktop.
// Usage: s, err := config.FromConfig(config.System(), os.Getenv)

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// DefaultShell is used when neither the config nor $SHELL names one.
const DefaultShell = "/bin/sh"

// Settings is the resolved configuration.
type Settings struct {
	Shell     []string
	Term      string
	ReapGrace time.Duration

	Scrollback int

	PrefixKey            string
	Layout               string
	Gaps                 bool
	Tiling               bool
	CloseOnExit          bool
	ClearSelectionOnBlur bool
	SnapOnDrag           bool

	ChunkDelay     time.Duration
	BracketedPaste bool

	SessionPath    string
	RestoreOnStart bool
	SaveOnExit     bool

	HistoryEnabled bool
	HistoryPath    string
}

// ParseCommand splits a shell-style command line.
func ParseCommand(command string) ([]string, error) {
	parts, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(parts) == 0 {
		return nil, errors.New("empty command")
	}
	return parts, nil
}

// FromConfig resolves cfg. getenv supplies $SHELL when shell.command is empty.
func FromConfig(cfg Config, getenv func(string) string) (Settings, error) {
	s := Settings{
		Term:                 cfg.GetString("shell", "term", "xterm-256color"),
		ReapGrace:            cfg.GetDurationMS("shell", "reap_grace_ms", 250*time.Millisecond),
		Scrollback:           cfg.GetInt("terminal", "scrollback_lines", 2000),
		PrefixKey:            cfg.GetString("wm", "prefix_key", "Ctrl+B"),
		Layout:               cfg.GetString("wm", "layout", "auto"),
		Gaps:                 cfg.GetBool("wm", "gaps", false),
		Tiling:               cfg.GetBool("wm", "tiling", false),
		CloseOnExit:          cfg.GetBool("wm", "close_on_exit", true),
		ClearSelectionOnBlur: cfg.GetBool("wm", "clear_selection_on_blur", false),
		SnapOnDrag:           cfg.GetBool("wm", "snap_on_drag", true),
		ChunkDelay:           cfg.GetDurationMS("paste", "chunk_delay_ms", 0),
		BracketedPaste:       cfg.GetBool("paste", "bracketed", true),
		SessionPath:          strings.TrimSpace(cfg.GetString("session", "path", "")),
		RestoreOnStart:       cfg.GetBool("session", "restore_on_start", true),
		SaveOnExit:           cfg.GetBool("session", "save_on_exit", true),
		HistoryEnabled:       cfg.GetBool("history", "enabled", true),
		HistoryPath:          strings.TrimSpace(cfg.GetString("history", "path", "")),
	}
	if s.Scrollback < 0 {
		return Settings{}, fmt.Errorf("terminal.scrollback_lines: %d is negative", s.Scrollback)
	}

	command := strings.TrimSpace(cfg.GetString("shell", "command", ""))
	if command == "" && getenv != nil {
		command = strings.TrimSpace(getenv("SHELL"))
	}
	if command == "" {
		command = DefaultShell
	}
	shell, err := ParseCommand(command)
	if err != nil {
		return Settings{}, fmt.Errorf("shell.command: %w", err)
	}
	s.Shell = shell

	if s.SessionPath == "" {
		if s.SessionPath, err = DefaultSessionPath(); err != nil {
			return Settings{}, err
		}
	}
	if s.HistoryPath == "" {
		if s.HistoryPath, err = DefaultHistoryPath(); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}
