// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: backend/memory.go
// Summary: In-memory Backend that records frames and replays queued events.

package backend

import (
	"sync"
	"time"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
)

// Memory is a headless backend for tests and tooling.
type Memory struct {
	mu         sync.Mutex
	cols, rows int
	events     []input.Event
	last       *grid.Grid
	frames     int
	closed     bool
}

// NewMemory returns a backend of the given size.
func NewMemory(cols, rows int) *Memory {
	return &Memory{cols: cols, rows: rows}
}

// Dimensions implements Backend.
func (m *Memory) Dimensions() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cols, m.rows
}

// Present implements Backend and keeps a copy of the frame.
func (m *Memory) Present(frame *grid.Grid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.last = frame.Clone()
	m.frames++
	return nil
}

// PollEvent implements Backend. Queued events are returned immediately;
// an empty queue waits briefly so loops do not spin.
func (m *Memory) PollEvent(timeout time.Duration) (input.Event, bool) {
	m.mu.Lock()
	if len(m.events) > 0 {
		ev := m.events[0]
		m.events = m.events[1:]
		m.mu.Unlock()
		return ev, true
	}
	m.mu.Unlock()
	time.Sleep(min(timeout, time.Millisecond))
	return input.Event{}, false
}

// Push queues events for PollEvent. Resize events also update Dimensions.
func (m *Memory) Push(evs ...input.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range evs {
		if ev.Kind == input.EventResize {
			m.cols, m.rows = ev.Cols, ev.Rows
		}
		m.events = append(m.events, ev)
	}
}

// Pending returns the number of queued events.
func (m *Memory) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// Frame returns the last presented frame, or nil.
func (m *Memory) Frame() *grid.Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Frames returns how many frames were presented.
func (m *Memory) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Close implements Backend.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
