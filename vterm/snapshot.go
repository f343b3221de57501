// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/snapshot.go
// Summary: Export and import of primary-screen content for session persistence.
// Notes: Only the primary screen is captured. While the alternate screen is
// active, the cursor saved by ?1049h stands in for the live cursor.

package vterm

import "github.com/framegrace/texelwm/grid"

// Snapshot is the restorable state of an emulator.
type Snapshot struct {
	Cols, Rows int
	// Lines holds scrollback (oldest first) followed by the Rows visible rows.
	Lines      [][]grid.Cell
	Cursor     Cursor
	Pen        Pen
	ViewOffset int
	Title      string
}

// Snapshot captures the visible primary screen plus as much scrollback as
// fits in maxLines. The visible screen is always included in full.
func (v *VTerm) Snapshot(maxLines int) Snapshot {
	histRows := max(0, maxLines-v.rows)
	lines := make([][]grid.Cell, 0, histRows+v.rows)
	for _, row := range v.scrollback.Lines(histRows) {
		lines = append(lines, append([]grid.Cell(nil), row...))
	}
	for y := 0; y < v.rows; y++ {
		lines = append(lines, v.primary.RowCopy(y))
	}

	cur, pen := v.cursor, v.pen
	if v.altActive && v.savedAlt.valid {
		cur.Col, cur.Row = v.savedAlt.col, v.savedAlt.row
		pen = v.savedAlt.pen
	}
	offset := v.viewOffset
	if offset > histRows {
		offset = histRows
	}
	return Snapshot{
		Cols:       v.cols,
		Rows:       v.rows,
		Lines:      lines,
		Cursor:     cur,
		Pen:        pen,
		ViewOffset: offset,
		Title:      v.title,
	}
}

// Restore replaces the primary screen and scrollback with s. The emulator
// keeps its own size; rows are truncated or padded as needed.
func (v *VTerm) Restore(s Snapshot) {
	v.altActive = false
	v.selection = nil
	v.primary.Clear(grid.DefaultColor)
	v.alt.Clear(grid.DefaultColor)
	v.scrollback.Reset()
	v.resetState()

	split := max(0, len(s.Lines)-max(s.Rows, 0))
	history, visible := s.Lines[:split], s.Lines[split:]
	cursor := s.Cursor
	if extra := len(visible) - v.rows; extra > 0 {
		history = s.Lines[:split+extra]
		visible = visible[extra:]
		cursor.Row -= extra
	}
	for _, row := range history {
		v.scrollback.Push(fitRow(row, v.cols))
	}
	for y, row := range visible {
		v.primary.SetRow(y, row, grid.DefaultColor)
	}

	v.cursor = cursor
	v.clampCursor()
	v.pen = s.Pen
	v.title = s.Title
	v.SetViewOffset(s.ViewOffset)
}

func fitRow(row []grid.Cell, cols int) []grid.Cell {
	out := make([]grid.Cell, cols)
	n := copy(out, row)
	for i := n; i < cols; i++ {
		out[i] = grid.DefaultCell
	}
	return out
}
