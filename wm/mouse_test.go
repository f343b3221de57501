// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"strings"
	"testing"
	"time"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
	"github.com/framegrace/texelwm/vterm"
)

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func press(m *Manager, col, row int, when time.Time) Action {
	return m.HandleMouse(input.MouseEvent{Kind: input.MouseDown, Button: input.ButtonLeft, Col: col, Row: row, When: when})
}

func dragTo(m *Manager, col, row int) {
	m.HandleMouse(input.MouseEvent{Kind: input.MouseDrag, Button: input.ButtonLeft, Col: col, Row: row})
}

func release(m *Manager, col, row int) {
	m.HandleMouse(input.MouseEvent{Kind: input.MouseUp, Col: col, Row: row})
}

func mouseWindow(t *testing.T) (*Manager, *fakeSpawner, uint32) {
	t.Helper()
	m, sp := newTestManager(t)
	id := mustCreate(t, m, grid.Rect{X: 10, Y: 5, W: 30, H: 10})
	return m, sp, id
}

func TestTitleDragMovesWindow(t *testing.T) {
	m, _, id := mouseWindow(t)
	press(m, 30, 5, t0)
	if !m.Dragging() {
		t.Fatalf("title press did not start a drag")
	}
	dragTo(m, 40, 8)
	release(m, 40, 8)
	if w, _ := m.Window(id); w.Rect != (grid.Rect{X: 20, Y: 8, W: 30, H: 10}) {
		t.Fatalf("rect = %+v", w.Rect)
	}
	if m.Dragging() {
		t.Fatalf("gesture still active after release")
	}
}

func TestDragToEdgeSnaps(t *testing.T) {
	m, _, id := mouseWindow(t)
	press(m, 30, 5, t0)
	dragTo(m, 0, 10)
	release(m, 0, 10)
	if w, _ := m.Window(id); w.Rect != (grid.Rect{X: 0, Y: 1, W: 40, H: 22}) {
		t.Fatalf("left snap = %+v", w.Rect)
	}

	press(m, 20, 1, t0.Add(time.Second))
	dragTo(m, 20, 1)
	release(m, 20, 1)
	if w, _ := m.Window(id); !w.Maximized {
		t.Fatalf("drag to top row did not maximize: %+v", w)
	}
}

func TestCornerResize(t *testing.T) {
	m, sp, id := mouseWindow(t)
	press(m, 39, 14, t0)
	dragTo(m, 44, 16)
	release(m, 44, 16)
	if w, _ := m.Window(id); w.Rect != (grid.Rect{X: 10, Y: 5, W: 35, H: 12}) {
		t.Fatalf("rect = %+v", w.Rect)
	}
	if sp.last().cols != 31 || sp.last().rows != 10 {
		t.Fatalf("pty = %dx%d", sp.last().cols, sp.last().rows)
	}
}

func TestSingleClickLeavesNoSelection(t *testing.T) {
	m, _, id := mouseWindow(t)
	press(m, 15, 7, t0)
	release(m, 15, 7)
	if sel := m.Terminal(id).Selection(); sel != nil {
		t.Fatalf("click left a selection: %+v", sel)
	}
}

func TestDragSelectsText(t *testing.T) {
	m, sp, id := mouseWindow(t)
	sp.last().emit("hello world")
	m.Tick()
	press(m, 12, 6, t0)
	dragTo(m, 16, 6)
	release(m, 16, 6)
	if got := m.Terminal(id).SelectedText(); got != "hello" {
		t.Fatalf("selected %q", got)
	}
}

func TestDoubleClickSelectsWord(t *testing.T) {
	m, sp, id := mouseWindow(t)
	sp.last().emit("hello world")
	m.Tick()
	press(m, 13, 6, t0)
	release(m, 13, 6)
	press(m, 13, 6, t0.Add(100*time.Millisecond))
	release(m, 13, 6)
	term := m.Terminal(id)
	if got := term.SelectedText(); got != "hello" {
		t.Fatalf("selected %q", got)
	}

	// A late third press starts over with a plain click.
	press(m, 13, 6, t0.Add(2*time.Second))
	release(m, 13, 6)
	if sel := term.Selection(); sel != nil {
		t.Fatalf("slow click kept selection %+v", sel)
	}
}

func TestMultiClickAfterBlockRestartsCycle(t *testing.T) {
	m, sp, id := mouseWindow(t)
	sp.last().emit("hello world")
	m.Tick()
	m.HandleMouse(input.MouseEvent{Kind: input.MouseDown, Button: input.ButtonLeft, Col: 13, Row: 6, Mod: input.ModAlt, When: t0})
	term := m.Terminal(id)
	if sel := term.Selection(); sel == nil || sel.Kind != vterm.SelectBlock {
		t.Fatalf("alt press selection = %+v", sel)
	}
	release(m, 13, 6)

	press(m, 13, 6, t0.Add(100*time.Millisecond))
	if sel := term.Selection(); sel == nil || sel.Kind != vterm.SelectChar {
		t.Fatalf("plain press after block = %+v", sel)
	}
	release(m, 13, 6)
	press(m, 13, 6, t0.Add(200*time.Millisecond))
	release(m, 13, 6)
	if got := term.SelectedText(); got != "hello" {
		t.Fatalf("selected %q", got)
	}
}

func TestTitleDoubleClickTogglesMaximize(t *testing.T) {
	m, _, id := mouseWindow(t)
	press(m, 30, 5, t0)
	release(m, 30, 5)
	press(m, 30, 5, t0.Add(200*time.Millisecond))
	release(m, 30, 5)
	if w, _ := m.Window(id); !w.Maximized {
		t.Fatalf("double click did not maximize")
	}
}

func TestButtonsActOnRelease(t *testing.T) {
	m, _, id := mouseWindow(t)
	press(m, 13, 5, t0)
	release(m, 30, 5)
	if _, ok := m.Window(id); !ok {
		t.Fatalf("close fired although released elsewhere")
	}
	press(m, 17, 5, t0.Add(time.Second))
	release(m, 17, 5)
	if w, _ := m.Window(id); !w.Maximized {
		t.Fatalf("maximize button ignored")
	}
	// Maximized at the workspace origin, the close button is at column 2.
	press(m, 2, 1, t0.Add(2*time.Second))
	release(m, 2, 1)
	if _, ok := m.Window(id); ok {
		t.Fatalf("close button ignored")
	}
}

func TestPressOnDesktopClearsFocus(t *testing.T) {
	m, _, _ := mouseWindow(t)
	press(m, 70, 20, t0)
	if st := m.FocusState(); st.Kind != FocusDesktop {
		t.Fatalf("focus = %+v", st)
	}
}

func TestMiddleClickRequestsPaste(t *testing.T) {
	m, _, id := mouseWindow(t)
	m.FocusDesktop()
	act := m.HandleMouse(input.MouseEvent{Kind: input.MouseDown, Button: input.ButtonMiddle, Col: 15, Row: 8})
	if act.Kind != ActionPaste {
		t.Fatalf("action = %+v", act)
	}
	if got, _ := m.FocusedID(); got != id {
		t.Fatalf("focused = %d", got)
	}
}

func TestWheelScrollsOrSendsArrows(t *testing.T) {
	m, sp, id := mouseWindow(t)
	s := sp.last()
	s.emit(strings.Repeat("x\r\n", 20))
	m.Tick()
	term := m.Terminal(id)
	m.HandleMouse(input.MouseEvent{Kind: input.MouseScrollUp, Col: 15, Row: 8})
	if term.ViewOffset() != 3 {
		t.Fatalf("offset = %d", term.ViewOffset())
	}
	m.HandleMouse(input.MouseEvent{Kind: input.MouseScrollDown, Col: 15, Row: 8})
	if term.ViewOffset() != 0 {
		t.Fatalf("offset = %d", term.ViewOffset())
	}

	s.emit("\x1b[?1049h")
	m.Tick()
	m.HandleMouse(input.MouseEvent{Kind: input.MouseScrollUp, Col: 15, Row: 8})
	if got := s.written.String(); got != strings.Repeat("\x1b[A", 3) {
		t.Fatalf("written = %q", got)
	}
}
