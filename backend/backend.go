// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: backend/backend.go
// Summary: Output/input contract between the desktop loop and the host terminal.
// Usage: The tcell backend drives a real terminal; Memory backs tests.

package backend

import (
	"errors"
	"time"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
)

// ErrClosed is returned by Present after Close.
var ErrClosed = errors.New("backend: closed")

// Backend presents frames and delivers host input.
type Backend interface {
	// Dimensions returns the host size in cells.
	Dimensions() (cols, rows int)
	// Present displays frame. Implementations may diff against the last frame.
	Present(frame *grid.Grid) error
	// PollEvent waits up to timeout for the next event.
	PollEvent(timeout time.Duration) (input.Event, bool)
	Close() error
}
