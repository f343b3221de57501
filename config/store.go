// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: File-backed configuration store; writes defaults on first run.
// Notes: A file that cannot be read or parsed is never overwritten; the
// store serves defaults and reports the error through Err.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"github.com/framegrace/texelwm/internal/atomicfile"
)

// Store holds one JSON configuration file.
type Store struct {
	path string

	mu     sync.RWMutex
	loaded bool
	cfg    Config
	err    error
}

// NewStore returns a store for path. Nothing is read until first use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.cfg = withDefaults(nil)
	s.err = err
}

func (s *Store) ensure() {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		_ = s.Load()
	}
}

// Config returns the current configuration with defaults applied.
func (s *Store) Config() Config {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Err returns the last load error.
func (s *Store) Err() error {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Load (re)reads the file. A missing or empty file is created with defaults.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true

	if s.path == "" {
		s.cfg, s.err = withDefaults(nil), errors.New("config: no path")
		return s.err
	}
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0):
		s.cfg = withDefaults(nil)
		s.err = writeFile(s.path, s.cfg)
		if s.err != nil {
			log.Printf("Config: cannot write defaults to %s: %v", s.path, s.err)
		}
		return s.err
	case err != nil:
		s.cfg, s.err = withDefaults(nil), fmt.Errorf("config: read %s: %w", s.path, err)
		log.Printf("Config: %v; using defaults", s.err)
		return s.err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.cfg, s.err = withDefaults(nil), fmt.Errorf("config: parse %s: %w", s.path, err)
		log.Printf("Config: %v; using defaults", s.err)
		return s.err
	}
	s.cfg, s.err = withDefaults(cfg), nil
	log.Printf("Config: loaded %s", s.path)
	return nil
}

// Set replaces the configuration in memory; missing defaults are filled in.
func (s *Store) Set(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.cfg = withDefaults(Clone(cfg))
	s.err = nil
}

// Save writes the current configuration atomically.
func (s *Store) Save() error {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.path == "" {
		return errors.New("config: no path")
	}
	return writeFile(s.path, s.cfg)
}

func withDefaults(cfg Config) Config {
	if cfg == nil {
		cfg = make(Config)
	}
	applySystemDefaults(cfg)
	return cfg
}

func writeFile(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := atomicfile.Write(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	log.Printf("Config: wrote %s", path)
	return nil
}
