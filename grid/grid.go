// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid.go
// Summary: Dense fixed-size cell grid with O(1) access and O(cols) line operations.
// Usage: Backing store for the emulator screens and the compositor frame.
// Notes: Every cell is initialised; out-of-range writes are dropped and
// out-of-range reads return the default cell.

package grid

// Grid is a cols×rows rectangle of cells with origin at the top-left.
type Grid struct {
	cols, rows int
	cells      []Cell
}

// New allocates a grid filled with default cells. Dimensions below 1 are raised to 1.
func New(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g := &Grid{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
	g.Clear(DefaultColor)
	return g
}

// Cols returns the grid width.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height.
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether (col,row) addresses a cell.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

// Get returns the cell at (col,row), or DefaultCell when out of range.
func (g *Grid) Get(col, row int) Cell {
	if !g.InBounds(col, row) {
		return DefaultCell
	}
	return g.cells[row*g.cols+col]
}

// Set stores c at (col,row). Out-of-range writes are ignored.
func (g *Grid) Set(col, row int, c Cell) {
	if !g.InBounds(col, row) {
		return
	}
	g.cells[row*g.cols+col] = c
}

// Row returns the live storage of a row. Callers must not retain it across
// Resize.
func (g *Grid) Row(row int) []Cell {
	if row < 0 || row >= g.rows {
		return nil
	}
	start := row * g.cols
	return g.cells[start : start+g.cols]
}

// RowCopy returns a detached copy of a row.
func (g *Grid) RowCopy(row int) []Cell {
	src := g.Row(row)
	if src == nil {
		return nil
	}
	out := make([]Cell, len(src))
	copy(out, src)
	return out
}

// SetRow copies cells into row, truncating or padding with blanks on bg.
func (g *Grid) SetRow(row int, cells []Cell, bg Color) {
	dst := g.Row(row)
	if dst == nil {
		return
	}
	n := copy(dst, cells)
	fillCells(dst[n:], Blank(bg))
}

// Clear blanks every cell with the given background.
func (g *Grid) Clear(bg Color) {
	fillCells(g.cells, Blank(bg))
}

// Fill paints the inclusive rectangle [x0,x1]×[y0,y1] with c, clipped to the grid.
func (g *Grid) Fill(x0, y0, x1, y1 int, c Cell) {
	x0, x1 = clampSpan(x0, x1, g.cols)
	y0, y1 = clampSpan(y0, y1, g.rows)
	if x0 > x1 || y0 > y1 {
		return
	}
	for y := y0; y <= y1; y++ {
		fillCells(g.Row(y)[x0:x1+1], c)
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{cols: g.cols, rows: g.rows, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Equal reports whether both grids have the same size and content.
func (g *Grid) Equal(o *Grid) bool {
	if g.cols != o.cols || g.rows != o.rows {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Resize changes the grid dimensions. Content stays anchored at the top-left,
// new cells are default-filled and excess columns are dropped without reflow.
// When the row count shrinks, the rows that fall off the bottom are returned.
func (g *Grid) Resize(cols, rows int) [][]Cell {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == g.cols && rows == g.rows {
		return nil
	}
	var dropped [][]Cell
	for y := rows; y < g.rows; y++ {
		dropped = append(dropped, g.RowCopy(y))
	}
	cells := make([]Cell, cols*rows)
	fillCells(cells, DefaultCell)
	keepRows := min(rows, g.rows)
	keepCols := min(cols, g.cols)
	for y := 0; y < keepRows; y++ {
		copy(cells[y*cols:y*cols+keepCols], g.cells[y*g.cols:y*g.cols+keepCols])
	}
	g.cols, g.rows, g.cells = cols, rows, cells
	return dropped
}

func fillCells(cells []Cell, c Cell) {
	for i := range cells {
		cells[i] = c
	}
}

func clampSpan(lo, hi, size int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi >= size {
		hi = size - 1
	}
	return lo, hi
}
