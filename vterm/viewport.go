// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/viewport.go
// Summary: Scroll offset into scrollback and viewport cell lookup.

package vterm

import "github.com/framegrace/texelwm/grid"

func (v *VTerm) maxViewOffset() int {
	if v.altActive {
		return 0
	}
	return v.scrollback.Len()
}

// ViewOffset is the number of rows the viewport is scrolled back.
func (v *VTerm) ViewOffset() int { return v.viewOffset }

// ScrollbackLen returns the number of rows reachable by scrolling.
func (v *VTerm) ScrollbackLen() int { return v.maxViewOffset() }

// SetViewOffset sets the scroll offset, clamped to the available history.
func (v *VTerm) SetViewOffset(n int) {
	v.viewOffset = max(0, min(n, v.maxViewOffset()))
}

// ScrollView moves the viewport; positive deltas look further back.
func (v *VTerm) ScrollView(delta int) { v.SetViewOffset(v.viewOffset + delta) }

// ViewToBuffer maps a viewport row to a buffer row.
func (v *VTerm) ViewToBuffer(row int) int { return row - v.viewOffset }

// BufferCell returns the cell at a buffer position. Scrollback rows shorter
// than the screen are padded with blanks.
func (v *VTerm) BufferCell(col, row int) grid.Cell {
	if row >= 0 {
		return v.Screen().Get(col, row)
	}
	if v.altActive {
		return grid.DefaultCell
	}
	line := v.scrollback.Line(v.scrollback.Len() + row)
	if col < 0 || col >= len(line) || col >= v.cols {
		return grid.DefaultCell
	}
	return line[col]
}

// ViewCell returns the cell shown at viewport position (col,row).
func (v *VTerm) ViewCell(col, row int) grid.Cell {
	return v.BufferCell(col, v.ViewToBuffer(row))
}

// CursorInView returns the cursor position within the viewport, or false
// when it is scrolled out of view or hidden.
func (v *VTerm) CursorInView() (int, int, bool) {
	if !v.cursor.Visible {
		return 0, 0, false
	}
	row := v.cursor.Row + v.viewOffset
	if row >= v.rows {
		return 0, 0, false
	}
	return v.cursor.Col, row, true
}
