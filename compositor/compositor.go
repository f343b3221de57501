// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/compositor.go
// Summary: Builds a full frame from the desktop background and window stack.
// Usage: c := compositor.New(); c.Compose(frame, scene)
// Notes: Windows are drawn back to front. Each window paints its shadow first
// so windows in front cover the shadows of those behind.

package compositor

import (
	"strconv"

	"github.com/framegrace/texelwm/grid"
)

// Content is the emulator viewport a window displays.
type Content interface {
	Cols() int
	Rows() int
	ViewCell(col, row int) grid.Cell
	CursorInView() (col, row int, ok bool)
	IsSelected(col, viewRow int) bool
	ViewOffset() int
	ScrollbackLen() int
}

// WindowView is everything needed to draw one window.
type WindowView struct {
	Rect    grid.Rect
	Title   string
	Focused bool
	// KeyMode recolours the border of the focused window.
	KeyMode bool
	// Number is the overlay digit (1-9), or 0 for none.
	Number  int
	Content Content
}

// Scene is the input of one frame.
type Scene struct {
	Workspace grid.Rect
	// Windows are visible windows, back to front.
	Windows     []WindowView
	ShowNumbers bool
}

// Compositor renders scenes with a theme and charset.
type Compositor struct {
	Theme   Theme
	Charset Charset
}

// New returns a compositor with the default look.
func New() *Compositor {
	return &Compositor{Theme: DefaultTheme(), Charset: DefaultCharset()}
}

// Button column offsets from the window's left edge.
const (
	CloseCol    = 2
	MaximizeCol = 6
	MinimizeCol = 10
	buttonsEnd  = 13
)

// Compose draws scene into frame. Cells outside the workspace are untouched.
func (c *Compositor) Compose(frame *grid.Grid, scene Scene) {
	FillRect(frame, scene.Workspace, c.Theme.Desktop.Cell(c.Charset.Desktop))
	for _, w := range scene.Windows {
		c.drawShadow(frame, w.Rect)
		c.drawWindow(frame, w, scene.ShowNumbers)
	}
}

func (c *Compositor) drawShadow(frame *grid.Grid, r grid.Rect) {
	sh := c.Theme.Shadow.Cell(c.Charset.Shadow)
	FillRect(frame, grid.Rect{X: r.Right(), Y: r.Y + 1, W: 2, H: r.H}, sh)
	FillRect(frame, grid.Rect{X: r.X + 2, Y: r.Bottom(), W: r.W, H: 1}, sh)
}

func (c *Compositor) borderStyle(w WindowView) Style {
	switch {
	case w.Focused && w.KeyMode:
		return c.Theme.BorderKeyMode
	case w.Focused:
		return c.Theme.BorderFocused
	default:
		return c.Theme.Border
	}
}

func (c *Compositor) drawWindow(frame *grid.Grid, w WindowView, numbers bool) {
	r := w.Rect
	if r.W < 4 || r.H < 3 {
		return
	}
	cs := c.Charset
	bs := c.borderStyle(w)
	x1, y1 := r.Right()-1, r.Bottom()-1

	for x := r.X + 1; x < x1; x++ {
		frame.Set(x, r.Y, bs.Cell(cs.Horizontal))
		frame.Set(x, y1, bs.Cell(cs.Horizontal))
	}
	for y := r.Y + 1; y < y1; y++ {
		frame.Set(r.X, y, bs.Cell(cs.Vertical))
		frame.Set(r.X+1, y, bs.Cell(' '))
		frame.Set(x1, y, bs.Cell(cs.Vertical))
	}
	frame.Set(r.X, r.Y, bs.Cell(cs.TopLeft))
	frame.Set(x1, r.Y, bs.Cell(cs.TopRight))
	frame.Set(r.X, y1, bs.Cell(cs.BottomLeft))
	frame.Set(x1, y1, bs.Cell(cs.BottomRight))

	c.drawTitleBar(frame, w)
	c.drawScrollbar(frame, w)
	c.drawContent(frame, w)
	if numbers && w.Number > 0 {
		c.drawNumber(frame, w)
	}
}

func (c *Compositor) drawTitleBar(frame *grid.Grid, w WindowView) {
	r := w.Rect
	DrawText(frame, r.X+CloseCol, r.Y, "[X] [+] [_]", c.Theme.Button, buttonsEnd-CloseCol)
	avail := r.W - 2 - buttonsEnd - 1
	if avail < 3 || w.Title == "" {
		return
	}
	ts := c.Theme.Title
	if w.Focused {
		ts = c.Theme.TitleFocused
	}
	title := " " + Truncate(w.Title, avail-2) + " "
	DrawText(frame, r.X+buttonsEnd+1, r.Y, title, ts, avail)
}

// ScrollThumb returns the thumb offset and length inside a track of the
// given length.
func ScrollThumb(track, visible, history, offset int) (pos, size int) {
	if track <= 0 {
		return 0, 0
	}
	if history <= 0 {
		return 0, track
	}
	total := history + visible
	size = max(1, track*visible/total)
	if size > track {
		size = track
	}
	pos = (history - offset) * (track - size) / history
	return pos, size
}

func (c *Compositor) drawScrollbar(frame *grid.Grid, w WindowView) {
	r := w.Rect
	col := r.Right() - 2
	track := r.H - 2
	rows, history, offset := track, 0, 0
	if w.Content != nil {
		rows, history, offset = w.Content.Rows(), w.Content.ScrollbackLen(), w.Content.ViewOffset()
	}
	pos, size := ScrollThumb(track, rows, history, offset)
	for i := 0; i < track; i++ {
		cell := c.Theme.ScrollTrack.Cell(c.Charset.Track)
		if i >= pos && i < pos+size {
			cell = c.Theme.ScrollThumb.Cell(c.Charset.Thumb)
		}
		frame.Set(col, r.Y+1+i, cell)
	}
}

func (c *Compositor) drawContent(frame *grid.Grid, w WindowView) {
	area := ContentRect(w.Rect)
	if w.Content == nil {
		FillRect(frame, area, grid.DefaultCell)
		return
	}
	cols := min(area.W, w.Content.Cols())
	rows := min(area.H, w.Content.Rows())
	FillRect(frame, area, grid.DefaultCell)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := w.Content.ViewCell(x, y)
			if w.Content.IsSelected(x, y) {
				cell.Attrs ^= grid.AttrReverse
			}
			frame.Set(area.X+x, area.Y+y, cell)
		}
	}
	if !w.Focused {
		return
	}
	if cx, cy, ok := w.Content.CursorInView(); ok && cx < cols && cy < rows {
		cell := frame.Get(area.X+cx, area.Y+cy)
		cell.Attrs ^= grid.AttrReverse
		frame.Set(area.X+cx, area.Y+cy, cell)
	}
}

// ContentRect is the emulator area of a window rectangle.
func ContentRect(r grid.Rect) grid.Rect {
	return grid.Rect{X: r.X + 2, Y: r.Y + 1, W: max(0, r.W-4), H: max(0, r.H-2)}
}

func (c *Compositor) drawNumber(frame *grid.Grid, w WindowView) {
	area := ContentRect(w.Rect)
	st := c.Theme.Number
	if area.W < digitWidth+2 || area.H < digitHeight {
		label := strconv.Itoa(w.Number)
		DrawText(frame, area.X+(area.W-len(label))/2, area.Y+area.H/2, label, st, len(label))
		return
	}
	glyph := digitGlyphs[w.Number%10]
	x0 := area.X + (area.W-digitWidth)/2
	y0 := area.Y + (area.H-digitHeight)/2
	FillRect(frame, grid.Rect{X: x0 - 1, Y: y0, W: digitWidth + 2, H: digitHeight}, st.Cell(' '))
	for dy, line := range glyph {
		for dx, ch := range line {
			if ch == '#' {
				frame.Set(x0+dx, y0+dy, st.Cell(c.Charset.Block))
			}
		}
	}
}
