// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/logging/logging.go
// Summary: Points the standard logger at a size-rotated file.
// Usage: closer, err := logging.Setup(logging.Options{Path: path}); defer closer.Close()
// Notes: The terminal belongs to the desktop, so logs never go to stderr
// while it runs.

package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure rotation. Zero values pick the defaults below.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup redirects the log package. An empty path discards output.
func Setup(opts Options) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		log.SetOutput(io.Discard)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
		MaxAge:     orDefault(opts.MaxAgeDays, defaultMaxAgeDays),
		Compress:   opts.Compress,
	}
	log.SetOutput(rot)
	return rot, nil
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
