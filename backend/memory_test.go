// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"testing"
	"time"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
)

var _ Backend = (*Memory)(nil)
var _ Backend = (*Tcell)(nil)

func TestMemoryQueuesEventsAndFrames(t *testing.T) {
	m := NewMemory(80, 24)
	if _, ok := m.PollEvent(time.Millisecond); ok {
		t.Fatalf("empty backend produced an event")
	}
	m.Push(input.Event{Kind: input.EventKey, Key: input.KeyEvent{Code: input.KeyEnter}},
		input.Event{Kind: input.EventResize, Cols: 100, Rows: 30})
	if cols, rows := m.Dimensions(); cols != 100 || rows != 30 {
		t.Fatalf("dimensions = %dx%d", cols, rows)
	}
	if ev, ok := m.PollEvent(0); !ok || ev.Kind != input.EventKey {
		t.Fatalf("first event = %+v", ev)
	}
	if m.Pending() != 1 {
		t.Fatalf("pending = %d", m.Pending())
	}

	frame := grid.New(2, 1)
	frame.Set(0, 0, grid.Cell{Glyph: 'z'})
	if err := m.Present(frame); err != nil {
		t.Fatal(err)
	}
	frame.Set(0, 0, grid.Cell{Glyph: 'y'})
	if m.Frame().Get(0, 0).Glyph != 'z' || m.Frames() != 1 {
		t.Fatalf("presented frame not copied")
	}
	m.Close()
	if err := m.Present(frame); err != ErrClosed {
		t.Fatalf("present after close = %v", err)
	}
}
