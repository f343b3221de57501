// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the system configuration file.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("shell", Section{
		// Empty means $SHELL, then /bin/sh.
		"command":       "",
		"term":          "xterm-256color",
		"reap_grace_ms": 250,
	})
	cfg.RegisterDefaults("terminal", Section{
		"scrollback_lines": 2000,
	})
	cfg.RegisterDefaults("wm", Section{
		"prefix_key":              "Ctrl+B",
		"layout":                  "auto",
		"gaps":                    false,
		"tiling":                  false,
		"close_on_exit":           true,
		"clear_selection_on_blur": false,
		"snap_on_drag":            true,
	})
	cfg.RegisterDefaults("paste", Section{
		"chunk_delay_ms": 0,
		"bracketed":      true,
	})
	cfg.RegisterDefaults("session", Section{
		// Empty means session.json next to this file.
		"path":             "",
		"restore_on_start": true,
		"save_on_exit":     true,
	})
	cfg.RegisterDefaults("history", Section{
		"enabled": true,
		"path":    "",
	})
}
