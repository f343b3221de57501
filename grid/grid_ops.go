// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid_ops.go
// Summary: VT line and character editing primitives (scroll, insert, delete, erase).
// Usage: Called by the emulator when dispatching CSI edit sequences.

package grid

// EraseMode selects the span of an ED/EL operation.
type EraseMode int

const (
	EraseToEnd   EraseMode = 0 // cursor to end
	EraseToStart EraseMode = 1 // start to cursor (inclusive)
	EraseAll     EraseMode = 2
)

func (g *Grid) region(top, bottom int) (int, int, bool) {
	if top < 0 {
		top = 0
	}
	if bottom >= g.rows {
		bottom = g.rows - 1
	}
	return top, bottom, top <= bottom
}

// ScrollUp shifts rows [top,bottom] up by n. Freed rows at the bottom of the
// region are blanked with bg. The rows pushed off the top are returned in
// top-to-bottom order.
func (g *Grid) ScrollUp(top, bottom, n int, bg Color) [][]Cell {
	top, bottom, ok := g.region(top, bottom)
	if !ok || n <= 0 {
		return nil
	}
	height := bottom - top + 1
	if n > height {
		n = height
	}
	out := make([][]Cell, 0, n)
	for y := top; y < top+n; y++ {
		out = append(out, g.RowCopy(y))
	}
	c := g.cols
	copy(g.cells[top*c:(bottom+1-n)*c], g.cells[(top+n)*c:(bottom+1)*c])
	fillCells(g.cells[(bottom+1-n)*c:(bottom+1)*c], Blank(bg))
	return out
}

// ScrollDown shifts rows [top,bottom] down by n, blanking the freed rows at the top.
func (g *Grid) ScrollDown(top, bottom, n int, bg Color) {
	top, bottom, ok := g.region(top, bottom)
	if !ok || n <= 0 {
		return
	}
	height := bottom - top + 1
	if n > height {
		n = height
	}
	c := g.cols
	copy(g.cells[(top+n)*c:(bottom+1)*c], g.cells[top*c:(bottom+1-n)*c])
	fillCells(g.cells[top*c:(top+n)*c], Blank(bg))
}

// InsertLines inserts n blank lines at row, pushing lines down to bottom.
// Rows outside [row,bottom] are untouched.
func (g *Grid) InsertLines(row, n, bottom int, bg Color) {
	if row < 0 || row > bottom || row >= g.rows {
		return
	}
	g.ScrollDown(row, bottom, n, bg)
}

// DeleteLines removes n lines at row, pulling lines up from bottom.
func (g *Grid) DeleteLines(row, n, bottom int, bg Color) {
	if row < 0 || row > bottom || row >= g.rows {
		return
	}
	g.ScrollUp(row, bottom, n, bg)
}

// splitPair blanks both halves of a wide glyph straddling the boundary
// between col-1 and col.
func splitPair(line []Cell, col int) {
	if col <= 0 || col >= len(line) || !line[col].IsContinuation() {
		return
	}
	line[col-1] = Blank(line[col-1].BG)
	line[col] = Blank(line[col].BG)
}

// InsertChars shifts the row right from col by n cells, blanking the gap.
func (g *Grid) InsertChars(col, row, n int, bg Color) {
	line := g.Row(row)
	if line == nil || col < 0 || col >= g.cols || n <= 0 {
		return
	}
	if n > g.cols-col {
		n = g.cols - col
	}
	splitPair(line, col)
	splitPair(line, g.cols-n)
	copy(line[col+n:], line[col:g.cols-n])
	fillCells(line[col:col+n], Blank(bg))
}

// DeleteChars removes n cells at col, shifting the remainder left and
// blanking the freed cells at the right edge.
func (g *Grid) DeleteChars(col, row, n int, bg Color) {
	line := g.Row(row)
	if line == nil || col < 0 || col >= g.cols || n <= 0 {
		return
	}
	if n > g.cols-col {
		n = g.cols - col
	}
	splitPair(line, col)
	splitPair(line, col+n)
	copy(line[col:], line[col+n:])
	fillCells(line[g.cols-n:], Blank(bg))
}

// EraseChars blanks n cells starting at col without shifting.
func (g *Grid) EraseChars(col, row, n int, bg Color) {
	line := g.Row(row)
	if line == nil || col < 0 || col >= g.cols || n <= 0 {
		return
	}
	end := min(col+n, g.cols)
	splitPair(line, col)
	splitPair(line, end)
	fillCells(line[col:end], Blank(bg))
}

// EraseInLine implements EL.
func (g *Grid) EraseInLine(col, row int, mode EraseMode, bg Color) {
	line := g.Row(row)
	if line == nil {
		return
	}
	col = max(0, min(col, g.cols-1))
	switch mode {
	case EraseToEnd:
		splitPair(line, col)
		fillCells(line[col:], Blank(bg))
	case EraseToStart:
		splitPair(line, col+1)
		fillCells(line[:col+1], Blank(bg))
	case EraseAll:
		fillCells(line, Blank(bg))
	}
}

// EraseInDisplay implements ED modes 0-2 relative to (col,row).
func (g *Grid) EraseInDisplay(col, row int, mode EraseMode, bg Color) {
	row = max(0, min(row, g.rows-1))
	switch mode {
	case EraseToEnd:
		g.EraseInLine(col, row, EraseToEnd, bg)
		if row+1 < g.rows {
			fillCells(g.cells[(row+1)*g.cols:], Blank(bg))
		}
	case EraseToStart:
		fillCells(g.cells[:row*g.cols], Blank(bg))
		g.EraseInLine(col, row, EraseToStart, bg)
	case EraseAll:
		g.Clear(bg)
	}
}
