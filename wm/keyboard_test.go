// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"testing"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
)

var prefix = input.KeyEvent{Code: input.KeyRune, Rune: 'b', Mod: input.ModCtrl}

func runeKey(r rune) input.KeyEvent { return input.KeyEvent{Code: input.KeyRune, Rune: r} }

func TestPrefixTogglesKeyboardMode(t *testing.T) {
	m, sp := newTestManager(t)
	mustCreate(t, m, grid.Rect{W: 30, H: 10})
	m.HandleKey(runeKey('a'))
	m.HandleKey(prefix)
	if !m.KeyboardMode() || !m.Scene().ShowNumbers {
		t.Fatalf("prefix did not enter keyboard mode")
	}
	m.HandleKey(prefix)
	if m.KeyboardMode() {
		t.Fatalf("second prefix did not leave keyboard mode")
	}
	if got := sp.last().written.String(); got != "a\x02" {
		t.Fatalf("written = %q", got)
	}
}

func TestKeyboardNavigationStaysInMode(t *testing.T) {
	m, _ := newTestManager(t)
	id := mustCreate(t, m, grid.Rect{X: 10, Y: 5, W: 30, H: 10})
	m.HandleKey(prefix)
	m.HandleKey(input.KeyEvent{Code: input.KeyRight})
	m.HandleKey(input.KeyEvent{Code: input.KeyDown})
	m.HandleKey(input.KeyEvent{Code: input.KeyRight, Mod: input.ModShift})
	if w, _ := m.Window(id); w.Rect != (grid.Rect{X: 12, Y: 6, W: 32, H: 10}) {
		t.Fatalf("rect = %+v", w.Rect)
	}
	m.HandleKey(runeKey('L'))
	if w, _ := m.Window(id); w.Rect != (grid.Rect{X: 40, Y: 1, W: 40, H: 22}) {
		t.Fatalf("snap = %+v", w.Rect)
	}
	m.HandleKey(input.KeyEvent{Code: input.KeyRune, Rune: '7', Mod: input.ModAlt})
	if w, _ := m.Window(id); w.Rect != (grid.Rect{X: 0, Y: 1, W: 40, H: 11}) {
		t.Fatalf("numpad snap = %+v", w.Rect)
	}
	m.HandleKey(runeKey('m'))
	if w, _ := m.Window(id); !w.Maximized {
		t.Fatalf("m did not maximize")
	}
	if !m.KeyboardMode() {
		t.Fatalf("navigation left keyboard mode")
	}
	m.HandleKey(input.KeyEvent{Code: input.KeyEsc})
	if m.KeyboardMode() {
		t.Fatalf("Esc did not leave keyboard mode")
	}
}

func TestKeyboardCommands(t *testing.T) {
	m, sp := newTestManager(t)
	m.HandleKey(prefix)
	if act := m.HandleKey(runeKey('n')); act.Kind != ActionNone {
		t.Fatalf("n = %+v", act)
	}
	if len(sp.sessions) != 1 || m.KeyboardMode() {
		t.Fatalf("n did not open a window and leave keyboard mode")
	}
	id, _ := m.FocusedID()

	sp.last().emit("copy me")
	m.Tick()
	m.Terminal(id).SetSelection(selectionOf(0, 3))
	m.HandleKey(prefix)
	if act := m.HandleKey(runeKey('c')); act.Kind != ActionCopy || act.Text != "copy" {
		t.Fatalf("c = %+v", act)
	}
	m.HandleKey(prefix)
	if act := m.HandleKey(runeKey('v')); act.Kind != ActionPaste {
		t.Fatalf("v = %+v", act)
	}
	m.HandleKey(prefix)
	if act := m.HandleKey(runeKey('S')); act.Kind != ActionSave {
		t.Fatalf("S = %+v", act)
	}
	m.HandleKey(prefix)
	if act := m.HandleKey(runeKey('q')); act.Kind != ActionQuit {
		t.Fatalf("q = %+v", act)
	}
	m.HandleKey(prefix)
	m.HandleKey(runeKey('x'))
	if _, ok := m.Window(id); ok {
		t.Fatalf("x did not close the window")
	}
}

func TestKeyboardOpenFailureIsReported(t *testing.T) {
	m, sp := newTestManager(t)
	sp.fail = errSpawn
	m.HandleKey(prefix)
	if act := m.HandleKey(runeKey('n')); act.Kind != ActionError || act.Err == nil {
		t.Fatalf("action = %+v", act)
	}
}

func TestFocusByNumber(t *testing.T) {
	m, _ := newTestManager(t)
	for i := 0; i < 3; i++ {
		mustCreate(t, m, grid.Rect{W: 30, H: 10})
	}
	m.HandleKey(prefix)
	m.HandleKey(runeKey('2'))
	if id, _ := m.FocusedID(); id != 2 {
		t.Fatalf("focused = %d", id)
	}
	if m.KeyboardMode() {
		t.Fatalf("digit did not leave keyboard mode")
	}
}
