// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Config and Section types plus the process-wide default store.
// Usage: cfg := config.System(); shell := cfg.GetString("shell", "command", "")

package config

import "sync"

const systemConfigName = "texelwm.json"

// Config maps section names to sections as decoded from JSON.
type Config map[string]interface{}

// Section maps keys to JSON values.
type Section map[string]interface{}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the store backed by texelwm.json under the user config
// directory. The file is read on first use.
func Default() *Store {
	defaultOnce.Do(func() {
		path, err := SystemPath()
		defaultStore = NewStore(path)
		if err != nil {
			defaultStore.fail(err)
		}
	})
	return defaultStore
}

// System returns the default store's configuration.
func System() Config { return Default().Config() }

// Err reports why the default store fell back to defaults, if it did.
func Err() error { return Default().Err() }

