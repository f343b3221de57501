// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/persist.go
// Summary: Conversion between the manager and session snapshots.
// Notes: Restored windows get fresh sessions; their stored screen and
// scrollback are blitted into the new emulators. Geometry is fitted to the
// current workspace and the focused window is raised. Windows whose command
// can no longer be started are kept as exited placeholders.

package wm

import (
	"fmt"
	"log"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/ptysession"
	"github.com/framegrace/texelwm/session"
)

func toSessionRect(r grid.Rect) session.Rect {
	return session.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func fromSessionRect(r session.Rect) grid.Rect {
	return grid.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func commandArgv(c ptysession.Command) []string {
	if c.Path == "" {
		return nil
	}
	return append([]string{c.Path}, c.Args...)
}

func (m *Manager) commandFromArgv(argv []string) ptysession.Command {
	if len(argv) == 0 {
		return m.opts.Shell
	}
	return ptysession.Command{Path: argv[0], Args: argv[1:], Env: m.opts.Shell.Env, Dir: m.opts.Shell.Dir}
}

// Snapshot captures layout, focus and terminal contents.
func (m *Manager) Snapshot() *session.Snapshot {
	m.flushHistory()
	s := &session.Snapshot{Version: session.Version, NextID: m.nextID}
	if id, ok := m.FocusedID(); ok {
		s.FocusedID = &id
	}
	for _, w := range m.stack {
		rec := session.Window{
			ID:        w.ID,
			Title:     w.Title,
			Command:   commandArgv(w.cmd),
			Rect:      toSessionRect(w.Rect),
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Terminal:  session.EncodeTerminal(w.term.Snapshot(session.MaxLinesPerTerminal)),
		}
		if w.Maximized {
			pm := toSessionRect(w.PreMax)
			rec.PreMax = &pm
		}
		s.Windows = append(s.Windows, rec)
	}
	return s
}

// Save writes the snapshot to path atomically.
func (m *Manager) Save(path string) error {
	return session.Save(path, m.Snapshot())
}

// Load builds a manager from the session file at path. A missing file
// yields an empty manager.
func Load(path string, workspace grid.Rect, opts Options) (*Manager, error) {
	snap, err := session.Load(path)
	if err != nil {
		return nil, err
	}
	m := NewManager(workspace, opts)
	if snap == nil {
		return m, nil
	}
	if err := m.RestoreSnapshot(snap); err != nil {
		m.Shutdown()
		return nil, err
	}
	return m, nil
}

// RestoreSnapshot replaces every window with the contents of s.
func (m *Manager) RestoreSnapshot(s *session.Snapshot) error {
	for len(m.stack) > 0 {
		m.Close(m.stack[0].ID)
	}
	next := s.NextID
	for _, rec := range s.Windows {
		ts, err := rec.Terminal.Snapshot()
		if err != nil {
			return fmt.Errorf("restore window %d: %w", rec.ID, err)
		}
		r := m.clampPosition(enforceMin(fromSessionRect(rec.Rect)))
		if rec.Maximized {
			r = m.maxRect()
		}
		cmd := m.commandFromArgv(rec.Command)
		w, err := m.spawnWindow(rec.ID, r, rec.Title, cmd)
		if err != nil {
			log.Printf("WM: restore window %d: %v", rec.ID, err)
			w = m.placeholder(rec.ID, r, rec.Title, cmd)
		}
		w.term.Restore(ts)
		w.Minimized = rec.Minimized
		w.Maximized = rec.Maximized
		if w.Maximized {
			pm := rec.Rect
			if rec.PreMax != nil {
				pm = *rec.PreMax
			}
			w.PreMax = m.clampPosition(enforceMin(fromSessionRect(pm)))
		}
		m.stack = append(m.stack, w)
		next = max(next, rec.ID+1)
	}
	m.nextID = max(next, 1)

	m.focus = FocusState{Kind: FocusDesktop}
	if s.FocusedID != nil {
		if w := m.find(*s.FocusedID); w != nil && !w.Minimized {
			m.focusWindow(w)
		}
	}
	log.Printf("WM: restored %d windows", len(m.stack))
	return nil
}
