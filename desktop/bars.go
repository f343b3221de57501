// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/bars.go
// Summary: Top bar (label, new-window button, focused title, mode, clock)
// and bottom taskbar with one button per window.

package desktop

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelwm/compositor"
	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/wm"
)

const (
	barLabel     = " texelwm "
	newButton    = "[New]"
	newButtonCol = 10
	titleCol     = 17
	modeLabel    = " KBD "
	clockFormat  = "15:04"
	maxTaskWidth = 22
)

// Workspace returns the window area for a host of the given size: everything
// between the top bar and the taskbar.
func Workspace(cols, rows int) grid.Rect {
	return grid.Rect{X: 0, Y: 1, W: cols, H: max(0, rows-2)}
}

func (d *Desktop) drawTopBar() {
	th := d.mgr.Compositor().Theme
	cols := d.frame.Cols()
	bar := th.Bar
	compositor.FillRect(d.frame, grid.Rect{W: cols, H: 1}, bar.Cell(' '))
	compositor.DrawText(d.frame, 0, 0, barLabel, th.BarAccent, cols)
	compositor.DrawText(d.frame, newButtonCol, 0, newButton, bar, cols-newButtonCol)

	right := cols
	clock := " " + d.opts.Now().Format(clockFormat) + " "
	if w := runewidth.StringWidth(clock); cols-w > titleCol {
		right = cols - w
		compositor.DrawText(d.frame, right, 0, clock, bar, w)
	}
	if d.mgr.KeyboardMode() {
		if w := runewidth.StringWidth(modeLabel); right-w > titleCol {
			right -= w
			compositor.DrawText(d.frame, right, 0, modeLabel, th.TaskActive, w)
		}
	}
	if id, ok := d.mgr.FocusedID(); ok {
		if w, ok := d.mgr.Window(id); ok {
			avail := right - titleCol - 1
			compositor.DrawText(d.frame, titleCol, 0, compositor.Truncate(w.Title, avail), bar, avail)
		}
	}
}

// topBarHit reports whether col is on the new-window button.
func topBarHit(col int) bool {
	return col >= newButtonCol && col < newButtonCol+len(newButton)
}

type taskButton struct {
	id    uint32
	x, w  int
	label string
}

// taskButtons lays out one button per window in creation order.
func (d *Desktop) taskButtons() []taskButton {
	numbers := d.mgr.Numbers()
	wins := d.mgr.Windows()
	slices.SortFunc(wins, func(a, b wm.Window) int { return cmp.Compare(a.ID, b.ID) })
	cols := d.frame.Cols()
	var out []taskButton
	x := 0
	for _, w := range wins {
		label := " " + w.Title + " "
		if n := numbers[w.ID]; n > 0 {
			label = fmt.Sprintf(" %d:%s ", n, w.Title)
		}
		label = compositor.Truncate(label, maxTaskWidth)
		width := runewidth.StringWidth(label)
		if x+width > cols {
			break
		}
		out = append(out, taskButton{id: w.ID, x: x, w: width, label: label})
		x += width + 1
	}
	return out
}

func (d *Desktop) drawTaskbar() {
	th := d.mgr.Compositor().Theme
	row := d.frame.Rows() - 1
	if row < 1 {
		return
	}
	compositor.FillRect(d.frame, grid.Rect{Y: row, W: d.frame.Cols(), H: 1}, th.Bar.Cell(' '))
	focused, _ := d.mgr.FocusedID()
	for _, b := range d.taskButtons() {
		w, _ := d.mgr.Window(b.id)
		st := th.Bar
		switch {
		case w.Minimized:
			st = th.TaskMinimized
		case w.ID == focused:
			st = th.TaskActive
		}
		compositor.DrawText(d.frame, b.x, row, b.label, st, b.w)
	}
}

// taskAt returns the window whose taskbar button covers col.
func (d *Desktop) taskAt(col int) (uint32, bool) {
	for _, b := range d.taskButtons() {
		if col >= b.x && col < b.x+b.w {
			return b.id, true
		}
	}
	return 0, false
}
