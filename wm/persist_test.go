// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/ptysession"
	"github.com/framegrace/texelwm/session"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m, sp := newTestManager(t)
	a := mustCreate(t, m, grid.Rect{X: 2, Y: 2, W: 40, H: 12})
	b := mustCreate(t, m, grid.Rect{X: 30, Y: 6, W: 36, H: 10})
	sp.sessions[0].emit(strings.Repeat("scroll\r\n", 15) + "\x1b[1;32mgreen\x1b[0m 世界")
	sp.sessions[1].emit("\x1b]2;editor\x07second")
	m.Tick()
	m.Maximize(b)
	m.Focus(a)

	path := filepath.Join(t.TempDir(), "session.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	sp2 := &fakeSpawner{}
	opts := DefaultOptions()
	opts.Spawner = sp2
	got, err := Load(path, testWorkspace, opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ids := stackIDs(got); !slices.Equal(ids, []uint32{b, a}) {
		t.Fatalf("stack = %v", ids)
	}
	if id, ok := got.FocusedID(); !ok || id != a {
		t.Fatalf("focused = %d, %v", id, ok)
	}
	if len(sp2.sessions) != 2 || sp2.sessions[0].cols != 76 || sp2.sessions[1].cols != 36 {
		t.Fatalf("restored sessions = %+v", sp2.sessions)
	}
	for _, id := range []uint32{a, b} {
		want, have := m.Terminal(id), got.Terminal(id)
		if !want.Screen().Equal(have.Screen()) {
			t.Fatalf("window %d screen differs", id)
		}
		if want.Cursor() != have.Cursor() {
			t.Fatalf("window %d cursor %+v, want %+v", id, have.Cursor(), want.Cursor())
		}
		if want.ScrollbackLen() != have.ScrollbackLen() {
			t.Fatalf("window %d scrollback %d, want %d", id, have.ScrollbackLen(), want.ScrollbackLen())
		}
	}
	wb, _ := got.Window(b)
	if !wb.Maximized || wb.PreMax != (grid.Rect{X: 30, Y: 6, W: 36, H: 10}) || wb.Title != "editor" {
		t.Fatalf("window b = %+v", wb)
	}
	got.Restore(b)
	if wb, _ = got.Window(b); wb.Rect != (grid.Rect{X: 30, Y: 6, W: 36, H: 10}) {
		t.Fatalf("restore after load = %+v", wb.Rect)
	}
	if id := mustCreate(t, got, grid.Rect{W: 30, H: 10}); id != 3 {
		t.Fatalf("next id = %d", id)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "none.json"), testWorkspace, DefaultOptions())
	if err != nil || len(m.Windows()) != 0 {
		t.Fatalf("load = %v, %v", m, err)
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, testWorkspace, DefaultOptions()); !errors.Is(err, session.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestRestoreKeepsPlaceholderWhenSpawnFails(t *testing.T) {
	m, _ := newTestManager(t)
	id := mustCreate(t, m, grid.Rect{X: 4, Y: 3, W: 30, H: 10})
	snap := m.Snapshot()
	snap.Windows[0].Command = []string{"/no/such/tool", "-x"}

	sp := &fakeSpawner{fail: &ptysession.SpawnError{Reason: ptysession.SpawnNotFound, Path: "/no/such/tool"}}
	opts := DefaultOptions()
	opts.Spawner = sp
	got := NewManager(testWorkspace, opts)
	if err := got.RestoreSnapshot(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	w, ok := got.Window(id)
	if !ok || !w.Exited || w.Rect != (grid.Rect{X: 4, Y: 3, W: 30, H: 10}) {
		t.Fatalf("placeholder = %+v, %v", w, ok)
	}
	// The stored command survives a further save.
	if again := got.Snapshot(); !slices.Equal(again.Windows[0].Command, []string{"/no/such/tool", "-x"}) {
		t.Fatalf("command = %v", again.Windows[0].Command)
	}
}

func TestSnapshotRecordsCommands(t *testing.T) {
	m, sp := newTestManager(t)
	mustCreate(t, m, grid.Rect{W: 30, H: 10})
	cmd := ptysession.Command{Path: "/usr/bin/top", Args: []string{"-d", "1"}}
	if _, err := m.Create(grid.Rect{W: 30, H: 10}, "", &cmd); err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	if !slices.Equal(snap.Windows[0].Command, []string{"/bin/sh"}) || !slices.Equal(snap.Windows[1].Command, []string{"/usr/bin/top", "-d", "1"}) {
		t.Fatalf("commands = %v %v", snap.Windows[0].Command, snap.Windows[1].Command)
	}
	if sp.commands[1].Path != "/usr/bin/top" || snap.Windows[1].Title != "top" {
		t.Fatalf("top window = %+v", snap.Windows[1])
	}
}

func TestLoadFitsWindowsToSmallerWorkspace(t *testing.T) {
	sp := &fakeSpawner{}
	opts := DefaultOptions()
	opts.Spawner = sp
	m := NewManager(grid.Rect{X: 0, Y: 1, W: 200, H: 60}, opts)
	a := mustCreate(t, m, grid.Rect{X: 150, Y: 50, W: 40, H: 8})
	b := mustCreate(t, m, grid.Rect{X: 120, Y: 40, W: 60, H: 20})
	m.Maximize(b)

	path := filepath.Join(t.TempDir(), "session.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	sp2 := &fakeSpawner{}
	opts.Spawner = sp2
	got, err := Load(path, testWorkspace, opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ws := testWorkspace
	wa, _ := got.Window(a)
	if wa.Rect.Y < ws.Y || wa.Rect.Y > ws.Bottom()-1 || wa.Rect.X > ws.Right()-1 || wa.Rect.Right() <= ws.X {
		t.Fatalf("window a = %+v, outside %+v", wa.Rect, ws)
	}
	wb, _ := got.Window(b)
	if !wb.Maximized || wb.Rect != got.maxRect() {
		t.Fatalf("window b = %+v, want maximized to %+v", wb.Rect, got.maxRect())
	}
	if wb.PreMax.Y > ws.Bottom()-1 || wb.PreMax.X > ws.Right()-1 {
		t.Fatalf("window b pre-max = %+v", wb.PreMax)
	}
	cols, rows := contentSize(got.maxRect())
	if s := sp2.sessions[1]; s.cols != cols || s.rows != rows {
		t.Fatalf("maximized session size = %dx%d, want %dx%d", s.cols, s.rows, cols, rows)
	}
	if term := got.Terminal(b); term.Cols() != cols || term.Rows() != rows {
		t.Fatalf("maximized terminal size = %dx%d", term.Cols(), term.Rows())
	}
}

func TestRestoreRaisesFocusedWindow(t *testing.T) {
	m, _ := newTestManager(t)
	a := mustCreate(t, m, grid.Rect{X: 2, Y: 2, W: 30, H: 10})
	b := mustCreate(t, m, grid.Rect{X: 20, Y: 6, W: 30, H: 10})
	snap := m.Snapshot()
	snap.FocusedID = &a

	got, _ := newTestManager(t)
	if err := got.RestoreSnapshot(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if ids := stackIDs(got); !slices.Equal(ids, []uint32{b, a}) {
		t.Fatalf("stack = %v, want focused window on top", ids)
	}
	if id, ok := got.FocusedID(); !ok || id != a {
		t.Fatalf("focused = %d, %v", id, ok)
	}
	if wb, _ := got.Window(b); wb.Focused {
		t.Fatalf("window b still focused")
	}
}
