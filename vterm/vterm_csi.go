// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/vterm_csi.go
// Summary: CSI dispatch: cursor movement, erase, line/char editing, reports.
// Usage: Invoked by the ansi parser through the Handler interface.

package vterm

import (
	"fmt"

	"github.com/framegrace/texelwm/ansi"
	"github.com/framegrace/texelwm/grid"
)

// CSIDispatch applies a control sequence.
func (v *VTerm) CSIDispatch(seq ansi.CSI) {
	switch seq.Marker {
	case 0:
	case '?':
		v.privateCSI(seq)
		return
	case '>':
		if seq.Final == 'c' {
			v.respond("\x1b[>0;10;1c")
		}
		return
	default:
		v.debugf("unhandled %s", seq)
		return
	}

	if len(seq.Intermediates) > 0 {
		v.intermediateCSI(seq)
		return
	}

	n := seq.Param(0, 1)
	switch seq.Final {
	case '@':
		v.wrapPending = false
		v.Screen().InsertChars(v.cursor.Col, v.cursor.Row, n, v.pen.BG)
	case 'A':
		v.cursorUp(n)
	case 'B', 'e':
		v.cursorDown(n)
	case 'C', 'a':
		v.cursorForward(n)
	case 'D':
		v.cursorBack(n)
	case 'E':
		v.cursorDown(n)
		v.carriageReturn()
	case 'F':
		v.cursorUp(n)
		v.carriageReturn()
	case 'G', '`':
		v.setCol(n - 1)
	case 'H', 'f':
		v.moveTo(seq.Param(1, 1)-1, seq.Param(0, 1)-1)
	case 'I':
		v.tabForward(n)
	case 'J':
		v.eraseDisplay(seq.Raw(0))
	case 'K':
		v.wrapPending = false
		v.Screen().EraseInLine(v.cursor.Col, v.cursor.Row, grid.EraseMode(seq.Raw(0)), v.pen.BG)
	case 'L':
		v.insertLines(n)
	case 'M':
		v.deleteLines(n)
	case 'P':
		v.wrapPending = false
		v.Screen().DeleteChars(v.cursor.Col, v.cursor.Row, n, v.pen.BG)
	case 'S':
		v.scrollUp(n)
	case 'T':
		if len(seq.Params) <= 1 {
			v.scrollDown(n)
		}
	case 'X':
		v.wrapPending = false
		v.Screen().EraseChars(v.cursor.Col, v.cursor.Row, n, v.pen.BG)
	case 'Z':
		v.tabBackward(n)
	case 'b':
		if v.lastGraphic != 0 {
			for i := 0; i < min(n, v.cols*v.rows); i++ {
				v.Print(v.lastGraphic)
			}
		}
	case 'c':
		if seq.Raw(0) == 0 {
			v.respond("\x1b[?1;2c")
		}
	case 'd':
		v.setRow(n - 1)
	case 'g':
		v.clearTabStops(seq.Raw(0))
	case 'h', 'l':
		v.ansiModes(seq.Final == 'h', seq.Params)
	case 'm':
		v.handleSGR(seq.Params)
	case 'n':
		v.deviceStatus(seq.Raw(0), false)
	case 'r':
		v.setMargins(seq.Param(0, 1)-1, seq.Param(1, v.rows)-1)
	case 's':
		v.saveCursor()
	case 'u':
		v.restoreCursor()
	case 't':
		// Window manipulation is owned by the window manager.
	default:
		v.debugf("unhandled %s", seq)
	}
}

func (v *VTerm) intermediateCSI(seq ansi.CSI) {
	switch {
	case seq.Final == 'q' && seq.HasIntermediate(' '):
		v.setCursorStyle(seq.Raw(0))
	case seq.Final == 'p' && seq.HasIntermediate('!'):
		v.softReset()
	default:
		v.debugf("unhandled %s", seq)
	}
}

// setCursorStyle implements DECSCUSR. Blinking and steady variants share a shape.
func (v *VTerm) setCursorStyle(ps int) {
	switch ps {
	case 0, 1, 2:
		v.cursor.Shape = CursorBlock
	case 3, 4:
		v.cursor.Shape = CursorUnderline
	case 5, 6:
		v.cursor.Shape = CursorBar
	}
}

func (v *VTerm) deviceStatus(ps int, private bool) {
	switch ps {
	case 5:
		v.respond("\x1b[0n")
	case 6:
		row := v.cursor.Row
		if v.originMode {
			row -= v.top
		}
		prefix := "\x1b["
		if private {
			prefix = "\x1b[?"
		}
		v.respond(fmt.Sprintf("%s%d;%dR", prefix, row+1, v.cursor.Col+1))
	}
}

// --- cursor movement ---

func (v *VTerm) cursorUp(n int) {
	v.wrapPending = false
	limit := 0
	if v.cursor.Row >= v.top {
		limit = v.top
	}
	v.cursor.Row = max(v.cursor.Row-n, limit)
}

func (v *VTerm) cursorDown(n int) {
	v.wrapPending = false
	limit := v.rows - 1
	if v.cursor.Row <= v.bottom {
		limit = v.bottom
	}
	v.cursor.Row = min(v.cursor.Row+n, limit)
}

func (v *VTerm) cursorForward(n int) {
	v.wrapPending = false
	v.cursor.Col = min(v.cursor.Col+n, v.cols-1)
}

func (v *VTerm) cursorBack(n int) {
	v.wrapPending = false
	v.cursor.Col = max(v.cursor.Col-n, 0)
}

func (v *VTerm) setCol(col int) {
	v.wrapPending = false
	v.cursor.Col = max(0, min(col, v.cols-1))
}

// setRow is VPA; origin mode makes the row relative to the top margin.
func (v *VTerm) setRow(row int) {
	v.wrapPending = false
	if v.originMode {
		v.cursor.Row = max(v.top, min(row+v.top, v.bottom))
		return
	}
	v.cursor.Row = max(0, min(row, v.rows-1))
}

// moveTo is CUP with 0-based coordinates.
func (v *VTerm) moveTo(col, row int) {
	v.setRow(row)
	v.setCol(col)
}

func (v *VTerm) setMargins(top, bottom int) {
	bottom = min(bottom, v.rows-1)
	top = max(top, 0)
	if top >= bottom {
		return
	}
	v.top, v.bottom = top, bottom
	v.moveTo(0, 0)
}

func (v *VTerm) clearTabStops(mode int) {
	switch mode {
	case 0:
		if v.cursor.Col < len(v.tabStops) {
			v.tabStops[v.cursor.Col] = false
		}
	case 3:
		for i := range v.tabStops {
			v.tabStops[i] = false
		}
	}
}

// --- editing ---

func (v *VTerm) eraseDisplay(mode int) {
	v.wrapPending = false
	switch mode {
	case 0, 1, 2:
		v.Screen().EraseInDisplay(v.cursor.Col, v.cursor.Row, grid.EraseMode(mode), v.pen.BG)
	case 3:
		if !v.altActive {
			v.scrollback.Reset()
			v.viewOffset = 0
			v.selection = nil
		}
	}
}

func (v *VTerm) insertLines(n int) {
	if v.cursor.Row < v.top || v.cursor.Row > v.bottom {
		return
	}
	v.Screen().InsertLines(v.cursor.Row, n, v.bottom, v.pen.BG)
	v.carriageReturn()
}

func (v *VTerm) deleteLines(n int) {
	if v.cursor.Row < v.top || v.cursor.Row > v.bottom {
		return
	}
	v.Screen().DeleteLines(v.cursor.Row, n, v.bottom, v.pen.BG)
	v.carriageReturn()
}
