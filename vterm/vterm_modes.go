// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/vterm_modes.go
// Summary: SM/RM and DECSET/DECRST handling, alternate screen and cursor save.
// Notes: 47 and 1047 only switch screens; 1049 also saves the cursor, clears
// the alternate screen on entry and restores the cursor on exit.

package vterm

import (
	"github.com/framegrace/texelwm/ansi"
	"github.com/framegrace/texelwm/grid"
)

func (v *VTerm) privateCSI(seq ansi.CSI) {
	switch seq.Final {
	case 'h', 'l':
		on := seq.Final == 'h'
		for _, mode := range seq.Params {
			v.decMode(mode, on)
		}
	case 'n':
		v.deviceStatus(seq.Raw(0), true)
	default:
		v.debugf("unhandled %s", seq)
	}
}

func (v *VTerm) decMode(mode int, on bool) {
	switch mode {
	case 1:
		v.appCursorKeys = on
	case 6:
		v.originMode = on
		v.moveTo(0, 0)
	case 7:
		v.wrapMode = on
		if !on {
			v.wrapPending = false
		}
	case 12:
		// Cursor blink is a host rendering concern.
	case 25:
		v.cursor.Visible = on
	case 47, 1047:
		if on {
			v.enterAltScreen(false)
		} else {
			v.exitAltScreen(false)
		}
	case 1048:
		if on {
			v.saveCursor()
		} else {
			v.restoreCursor()
		}
	case 1049:
		if on {
			v.enterAltScreen(true)
		} else {
			v.exitAltScreen(true)
		}
	case 2004:
		v.bracketedPaste = on
	default:
		v.debugf("unhandled DEC mode %d (%v)", mode, on)
	}
}

func (v *VTerm) ansiModes(on bool, params []int) {
	for _, mode := range params {
		switch mode {
		case 4:
			v.insertMode = on
		default:
			v.debugf("unhandled ANSI mode %d (%v)", mode, on)
		}
	}
}

func (v *VTerm) enterAltScreen(saveAndClear bool) {
	if v.altActive {
		return
	}
	if saveAndClear {
		v.savedAlt = v.snapshotCursor()
		v.alt.Clear(grid.DefaultColor)
	}
	v.altActive = true
	v.saved = savedCursor{}
	v.viewOffset = 0
	v.selection = nil
	v.wrapPending = false
}

func (v *VTerm) exitAltScreen(restore bool) {
	if !v.altActive {
		return
	}
	v.altActive = false
	v.saved = savedCursor{}
	v.selection = nil
	v.wrapPending = false
	if restore && v.savedAlt.valid {
		v.applySavedCursor(v.savedAlt)
	}
	v.savedAlt = savedCursor{}
}

func (v *VTerm) snapshotCursor() savedCursor {
	return savedCursor{
		valid:       true,
		col:         v.cursor.Col,
		row:         v.cursor.Row,
		pen:         v.pen,
		origin:      v.originMode,
		wrapPending: v.wrapPending,
	}
}

func (v *VTerm) applySavedCursor(s savedCursor) {
	v.cursor.Col, v.cursor.Row = s.col, s.row
	v.pen = s.pen
	v.originMode = s.origin
	v.wrapPending = s.wrapPending
	v.clampCursor()
}

// saveCursor is DECSC.
func (v *VTerm) saveCursor() { v.saved = v.snapshotCursor() }

// restoreCursor is DECRC. Without a saved state the cursor homes and the
// pen resets.
func (v *VTerm) restoreCursor() {
	if !v.saved.valid {
		v.cursor.Col, v.cursor.Row = 0, 0
		v.pen = Pen{}
		v.originMode = false
		v.wrapPending = false
		return
	}
	v.applySavedCursor(v.saved)
}

// softReset is DECSTR.
func (v *VTerm) softReset() {
	v.cursor.Visible = true
	v.originMode = false
	v.wrapMode = true
	v.insertMode = false
	v.appCursorKeys = false
	v.appKeypad = false
	v.top, v.bottom = 0, v.rows-1
	v.pen = Pen{}
	v.saved = savedCursor{}
	v.wrapPending = false
}
