// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/selection.go
// Summary: Text selection over the screen and scrollback, with text extraction.
// Notes: Rows are buffer rows: 0..rows-1 is the live screen, negative rows
// index scrollback (-1 is the newest scrollback row).

package vterm

import (
	"strings"

	"github.com/framegrace/texelwm/grid"
)

// SelectionKind controls how endpoints expand.
type SelectionKind int

const (
	SelectChar SelectionKind = iota
	SelectWord
	SelectLine
	SelectBlock
)

func (k SelectionKind) String() string {
	switch k {
	case SelectWord:
		return "word"
	case SelectLine:
		return "line"
	case SelectBlock:
		return "block"
	default:
		return "char"
	}
}

// Next cycles Char → Word → Line → Char. Block is left unchanged.
func (k SelectionKind) Next() SelectionKind {
	switch k {
	case SelectChar:
		return SelectWord
	case SelectWord:
		return SelectLine
	case SelectLine:
		return SelectChar
	default:
		return k
	}
}

// SelectionState tracks whether the user is still dragging.
type SelectionState int

const (
	SelectionActive SelectionState = iota
	SelectionComplete
)

// Point is a cell position in buffer coordinates.
type Point struct {
	Col, Row int
}

// Before reports whether p precedes q in row-major order.
func (p Point) Before(q Point) bool {
	return p.Row < q.Row || (p.Row == q.Row && p.Col < q.Col)
}

// Selection is an anchor/current pair.
type Selection struct {
	Start, End Point
	Kind       SelectionKind
	State      SelectionState
}

// NormalizedBounds returns (a, b) with a <= b in row-major order for linear
// kinds, or the rectangle's top-left and bottom-right corners for Block.
func (s Selection) NormalizedBounds() (Point, Point) {
	if s.Kind == SelectBlock {
		return Point{min(s.Start.Col, s.End.Col), min(s.Start.Row, s.End.Row)},
			Point{max(s.Start.Col, s.End.Col), max(s.Start.Row, s.End.Row)}
	}
	if s.End.Before(s.Start) {
		return s.End, s.Start
	}
	return s.Start, s.End
}

// Cells returns the number of cells spanned by a linear selection of the
// given width, or the area of a block selection.
func (s Selection) Cells(cols int) int {
	a, b := s.NormalizedBounds()
	if s.Kind == SelectBlock {
		return (b.Col - a.Col + 1) * (b.Row - a.Row + 1)
	}
	return (b.Row-a.Row)*cols + b.Col - a.Col + 1
}

func contains(kind SelectionKind, a, b Point, col, row int) bool {
	if kind == SelectBlock {
		return col >= a.Col && col <= b.Col && row >= a.Row && row <= b.Row
	}
	p := Point{col, row}
	return !p.Before(a) && !b.Before(p)
}

func (v *VTerm) minBufferRow() int {
	if v.altActive {
		return 0
	}
	return -v.scrollback.Len()
}

func (v *VTerm) clampPoint(p Point) Point {
	return Point{
		Col: max(0, min(p.Col, v.cols-1)),
		Row: max(v.minBufferRow(), min(p.Row, v.rows-1)),
	}
}

// SetSelection installs a selection, clamping its endpoints into the buffer.
func (v *VTerm) SetSelection(s Selection) {
	s.Start = v.clampPoint(s.Start)
	s.End = v.clampPoint(s.End)
	v.selection = &s
}

// Selection returns the current selection, or nil.
func (v *VTerm) Selection() *Selection {
	if v.selection == nil {
		return nil
	}
	s := *v.selection
	return &s
}

// ClearSelection drops the selection.
func (v *VTerm) ClearSelection() { v.selection = nil }

// UpdateSelection moves the selection end.
func (v *VTerm) UpdateSelection(end Point) {
	if v.selection != nil {
		v.selection.End = v.clampPoint(end)
	}
}

// CompleteSelection marks the selection as finished.
func (v *VTerm) CompleteSelection() {
	if v.selection != nil {
		v.selection.State = SelectionComplete
	}
}

func (v *VTerm) shiftSelection(delta int) {
	s := v.selection
	s.Start.Row += delta
	s.End.Row += delta
	lo := v.minBufferRow()
	if s.Start.Row < lo && s.End.Row < lo {
		v.selection = nil
		return
	}
	s.Start = v.clampPoint(s.Start)
	s.End = v.clampPoint(s.End)
}

// selectionBounds returns the normalized bounds expanded for word and line kinds.
func (v *VTerm) selectionBounds() (Point, Point, bool) {
	if v.selection == nil {
		return Point{}, Point{}, false
	}
	a, b := v.selection.NormalizedBounds()
	switch v.selection.Kind {
	case SelectLine:
		a.Col, b.Col = 0, v.cols-1
	case SelectWord:
		for a.Col > 0 && isWordCell(v.BufferCell(a.Col-1, a.Row)) && isWordCell(v.BufferCell(a.Col, a.Row)) {
			a.Col--
		}
		for b.Col < v.cols-1 && isWordCell(v.BufferCell(b.Col+1, b.Row)) && isWordCell(v.BufferCell(b.Col, b.Row)) {
			b.Col++
		}
	}
	return a, b, true
}

func isWordCell(c grid.Cell) bool {
	if c.IsContinuation() {
		return true
	}
	return c.Glyph != ' ' && !strings.ContainsRune(wordDelimiters, c.Glyph)
}

const wordDelimiters = " \t\"'`()[]{}<>|,;:"

// IsSelected reports whether the viewport cell (col,row) is selected.
func (v *VTerm) IsSelected(col, viewRow int) bool {
	a, b, ok := v.selectionBounds()
	if !ok {
		return false
	}
	return contains(v.selection.Kind, a, b, col, v.ViewToBuffer(viewRow))
}

// SelectedText returns the selected text. Trailing blanks are trimmed per
// line and lines are joined with '\n'.
func (v *VTerm) SelectedText() string {
	a, b, ok := v.selectionBounds()
	if !ok {
		return ""
	}
	block := v.selection.Kind == SelectBlock
	var lines []string
	for row := a.Row; row <= b.Row; row++ {
		from, to := 0, v.cols-1
		if block {
			from, to = a.Col, b.Col
		} else {
			if row == a.Row {
				from = a.Col
			}
			if row == b.Row {
				to = b.Col
			}
		}
		var sb strings.Builder
		for col := from; col <= to; col++ {
			c := v.BufferCell(col, row)
			if c.IsContinuation() {
				continue
			}
			sb.WriteRune(c.Glyph)
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return strings.Join(lines, "\n")
}
