// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/mouse.go
// Summary: Mouse state machine: drag, resize, select, buttons and wheel.
// Notes: Idle -> Dragging | Resizing | Selecting | Pressing on press, back to
// Idle on release. A repeated press within 500ms and one cell cycles the
// selection kind; Alt or Ctrl selects a block.

package wm

import (
	"time"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
	"github.com/framegrace/texelwm/vterm"
)

const (
	multiClickWindow = 500 * time.Millisecond
	wheelLines       = 3
)

type mouseMode int

const (
	mouseIdle mouseMode = iota
	mouseDragging
	mouseResizing
	mouseSelecting
	mousePressing
)

type mouseState struct {
	mode       mouseMode
	id         uint32
	edge       Edge
	hit        Hit
	anchorCol  int
	anchorRow  int
	orig       grid.Rect
	offX, offY int
	moved      bool
}

type clickState struct {
	at       time.Time
	col, row int
	hit      Hit
	kind     vterm.SelectionKind
}

func (c clickState) repeats(now time.Time, col, row int, hit Hit) bool {
	if c.at.IsZero() || c.hit != hit || now.Sub(c.at) > multiClickWindow {
		return false
	}
	return abs(col-c.col) <= 1 && abs(row-c.row) <= 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Dragging reports whether a mouse gesture is in progress.
func (m *Manager) Dragging() bool { return m.mouse.mode != mouseIdle }

// HandleMouse routes a mouse event. Middle click asks the host to paste.
func (m *Manager) HandleMouse(ev input.MouseEvent) Action {
	switch ev.Kind {
	case input.MouseScrollUp:
		m.wheel(ev, 1)
	case input.MouseScrollDown:
		m.wheel(ev, -1)
	case input.MouseDown:
		switch ev.Button {
		case input.ButtonLeft:
			m.press(ev)
		case input.ButtonMiddle:
			if w := m.windowAt(ev.Col, ev.Row); w != nil {
				m.focusWindow(w)
				return Action{Kind: ActionPaste}
			}
		}
	case input.MouseDrag, input.MouseMove:
		if m.mouse.mode != mouseIdle {
			m.drag(ev)
		}
	case input.MouseUp:
		m.release(ev)
	}
	return Action{}
}

func (m *Manager) now(ev input.MouseEvent) time.Time {
	if !ev.When.IsZero() {
		return ev.When
	}
	return m.opts.Now()
}

func (m *Manager) press(ev input.MouseEvent) {
	m.mouse = mouseState{}
	w := m.windowAt(ev.Col, ev.Row)
	if w == nil {
		m.FocusDesktop()
		m.click = clickState{}
		return
	}
	now := m.now(ev)
	hit, edge := w.HitTest(ev.Col, ev.Row)
	repeat := m.click.repeats(now, ev.Col, ev.Row, hit)
	m.focusWindow(w)

	kind := vterm.SelectChar
	switch hit {
	case HitResize:
		m.mouse = mouseState{mode: mouseResizing, id: w.ID, edge: edge,
			anchorCol: ev.Col, anchorRow: ev.Row, orig: w.Rect}
	case HitClose, HitMaximize, HitMinimize:
		m.mouse = mouseState{mode: mousePressing, id: w.ID, hit: hit}
	case HitTitle:
		if repeat {
			m.ToggleMaximize(w.ID)
			m.click = clickState{}
			return
		}
		m.mouse = mouseState{mode: mouseDragging, id: w.ID,
			offX: ev.Col - w.Rect.X, offY: ev.Row - w.Rect.Y}
	case HitContent:
		if w.OnScrollbar(ev.Col, ev.Row) {
			m.scrollbarClick(w, ev.Row)
			return
		}
		if repeat && m.click.kind != vterm.SelectBlock {
			kind = m.click.kind.Next()
		}
		if ev.Mod&(input.ModAlt|input.ModCtrl) != 0 {
			kind = vterm.SelectBlock
		}
		p := m.bufferPoint(w, ev.Col, ev.Row)
		w.term.SetSelection(vterm.Selection{Start: p, End: p, Kind: kind})
		m.mouse = mouseState{mode: mouseSelecting, id: w.ID, anchorCol: ev.Col, anchorRow: ev.Row}
	}
	m.click = clickState{at: now, col: ev.Col, row: ev.Row, hit: hit, kind: kind}
}

// bufferPoint maps a screen point to a buffer point, clamped to the content.
func (m *Manager) bufferPoint(w *managed, col, row int) vterm.Point {
	area := w.ContentRect()
	x := max(0, min(col-area.X, w.term.Cols()-1))
	y := max(0, min(row-area.Y, w.term.Rows()-1))
	return vterm.Point{Col: x, Row: w.term.ViewToBuffer(y)}
}

func (m *Manager) scrollbarClick(w *managed, row int) {
	area := w.ContentRect()
	page := max(1, w.term.Rows()-1)
	if row-area.Y < area.H/2 {
		w.term.ScrollView(page)
	} else {
		w.term.ScrollView(-page)
	}
}

func (m *Manager) drag(ev input.MouseEvent) {
	w := m.find(m.mouse.id)
	if w == nil {
		m.mouse = mouseState{}
		return
	}
	switch m.mouse.mode {
	case mouseDragging:
		if w.Maximized {
			// Tear the window off at its remembered size under the pointer.
			w.Maximized = false
			m.mouse.offX = min(m.mouse.offX, w.PreMax.W-3)
			m.setRect(w, grid.Rect{X: w.Rect.X, Y: w.Rect.Y, W: w.PreMax.W, H: w.PreMax.H})
		}
		m.MoveTo(w.ID, ev.Col-m.mouse.offX, ev.Row-m.mouse.offY)
		m.mouse.moved = true
	case mouseResizing:
		w.Maximized = false
		m.setRect(w, resizeRect(m.mouse.orig, m.mouse.edge, ev.Col-m.mouse.anchorCol, ev.Row-m.mouse.anchorRow))
		m.mouse.moved = true
	case mouseSelecting:
		w.term.UpdateSelection(m.bufferPoint(w, ev.Col, ev.Row))
		if ev.Col != m.mouse.anchorCol || ev.Row != m.mouse.anchorRow {
			m.mouse.moved = true
		}
	}
}

func (m *Manager) release(ev input.MouseEvent) {
	st := m.mouse
	m.mouse = mouseState{}
	w := m.find(st.id)
	if w == nil {
		return
	}
	switch st.mode {
	case mouseDragging:
		if !st.moved || !m.opts.SnapOnDrag {
			return
		}
		ws := m.workspace
		switch {
		case ev.Row <= ws.Y:
			m.Maximize(w.ID)
		case ev.Col <= ws.X:
			m.Snap(w.ID, SnapFullLeft)
		case ev.Col >= ws.Right()-1:
			m.Snap(w.ID, SnapFullRight)
		}
	case mouseSelecting:
		w.term.CompleteSelection()
		sel := w.term.Selection()
		if sel != nil && !st.moved && sel.Kind == vterm.SelectChar && sel.Cells(w.term.Cols()) < 2 {
			w.term.ClearSelection()
		}
	case mousePressing:
		if hit, _ := w.HitTest(ev.Col, ev.Row); hit != st.hit {
			return
		}
		switch st.hit {
		case HitClose:
			m.Close(w.ID)
		case HitMaximize:
			m.ToggleMaximize(w.ID)
		case HitMinimize:
			m.Minimize(w.ID)
		}
	}
}

func (m *Manager) wheel(ev input.MouseEvent, dir int) {
	w := m.windowAt(ev.Col, ev.Row)
	if w == nil {
		return
	}
	if w.term.AltScreen() {
		if w.sess == nil {
			return
		}
		key := input.KeyEvent{Code: input.KeyUp}
		if dir < 0 {
			key.Code = input.KeyDown
		}
		for i := 0; i < wheelLines; i++ {
			_ = m.SendKey(w.ID, key)
		}
		return
	}
	w.term.ScrollView(dir * wheelLines)
}
