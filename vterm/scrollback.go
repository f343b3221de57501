// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/scrollback.go
// Summary: Fixed-capacity ring of rows scrolled off the primary screen.

package vterm

import "github.com/framegrace/texelwm/grid"

// Scrollback is a ring buffer; when full the oldest row is evicted.
type Scrollback struct {
	lines [][]grid.Cell
	head  int // index of the oldest row
	n     int
}

// NewScrollback returns a ring holding up to capacity rows.
func NewScrollback(capacity int) *Scrollback {
	return &Scrollback{lines: make([][]grid.Cell, max(capacity, 0))}
}

// Cap returns the capacity.
func (s *Scrollback) Cap() int { return len(s.lines) }

// Len returns the number of stored rows.
func (s *Scrollback) Len() int { return s.n }

// Push appends a row, evicting the oldest one if the ring is full. The row
// is retained, callers must not reuse it.
func (s *Scrollback) Push(row []grid.Cell) {
	if len(s.lines) == 0 {
		return
	}
	if s.n < len(s.lines) {
		s.lines[(s.head+s.n)%len(s.lines)] = row
		s.n++
		return
	}
	s.lines[s.head] = row
	s.head = (s.head + 1) % len(s.lines)
}

// Line returns row i, 0 being the oldest. Out of range yields nil.
func (s *Scrollback) Line(i int) []grid.Cell {
	if i < 0 || i >= s.n {
		return nil
	}
	return s.lines[(s.head+i)%len(s.lines)]
}

// Lines returns the newest n rows, oldest first.
func (s *Scrollback) Lines(n int) [][]grid.Cell {
	n = max(0, min(n, s.n))
	out := make([][]grid.Cell, 0, n)
	for i := s.n - n; i < s.n; i++ {
		out = append(out, s.Line(i))
	}
	return out
}

// Reset drops every row.
func (s *Scrollback) Reset() {
	for i := range s.lines {
		s.lines[i] = nil
	}
	s.head, s.n = 0, 0
}
