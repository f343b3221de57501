// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for texelwm configuration and state files.

package config

import (
	"os"
	"path/filepath"
)

// Root returns the texelwm directory under the user config dir.
func Root() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "texelwm"), nil
}

func underRoot(name string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// SystemPath is the location of texelwm.json.
func SystemPath() (string, error) { return underRoot(systemConfigName) }

// DefaultSessionPath is where the session snapshot lives unless configured.
func DefaultSessionPath() (string, error) { return underRoot("session.json") }

// DefaultHistoryPath is the scrollback search database.
func DefaultHistoryPath() (string, error) { return underRoot("history.db") }

// DefaultLogPath is the rotated log file.
func DefaultLogPath() (string, error) { return underRoot("texelwm.log") }
