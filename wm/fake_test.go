// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/ptysession"
	"github.com/framegrace/texelwm/vterm"
)

type fakeSession struct {
	out        [][]byte
	eof        bool
	written    bytes.Buffer
	cols, rows int
	reaped     bool
	writeErr   error
}

func (f *fakeSession) Drain(limit int) ([]byte, error) {
	if len(f.out) > 0 {
		d := f.out[0]
		f.out = f.out[1:]
		return d, nil
	}
	if f.eof {
		return nil, io.EOF
	}
	return nil, nil
}

func (f *fakeSession) Write(p []byte) error {
	if f.reaped {
		return ptysession.ErrClosed
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written.Write(p)
	return nil
}

func (f *fakeSession) Resize(cols, rows int) error {
	f.cols, f.rows = cols, rows
	return nil
}

func (f *fakeSession) Reap() { f.reaped = true }

func (f *fakeSession) emit(s string) { f.out = append(f.out, []byte(s)) }

type fakeSpawner struct {
	sessions []*fakeSession
	commands []ptysession.Command
	fail     error
}

func (s *fakeSpawner) Spawn(cmd ptysession.Command, cols, rows int) (Session, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	f := &fakeSession{cols: cols, rows: rows}
	s.sessions = append(s.sessions, f)
	s.commands = append(s.commands, cmd)
	return f, nil
}

func (s *fakeSpawner) last() *fakeSession { return s.sessions[len(s.sessions)-1] }

var testWorkspace = grid.Rect{X: 0, Y: 1, W: 80, H: 22}

func newTestManager(t *testing.T) (*Manager, *fakeSpawner) {
	t.Helper()
	sp := &fakeSpawner{}
	opts := DefaultOptions()
	opts.Spawner = sp
	return NewManager(testWorkspace, opts), sp
}

func mustCreate(t *testing.T, m *Manager, r grid.Rect) uint32 {
	t.Helper()
	id, err := m.Create(r, "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return id
}

func stackIDs(m *Manager) []uint32 {
	var ids []uint32
	for _, w := range m.Windows() {
		ids = append(ids, w.ID)
	}
	return ids
}

var errSpawn = errors.New("spawn refused")

func selectionOf(from, to int) vterm.Selection {
	return vterm.Selection{Start: vterm.Point{Col: from}, End: vterm.Point{Col: to}}
}
