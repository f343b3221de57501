// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/window.go
// Summary: Window geometry, hit-test zones and edge-relative resizing.
// Notes: Zones are derived from the rectangle; nothing is stored. Corners
// win over edges, edges over buttons, buttons over the title bar.

package wm

import (
	"github.com/framegrace/texelwm/compositor"
	"github.com/framegrace/texelwm/grid"
)

// Minimum window size, chrome included.
const (
	MinWidth  = 24
	MinHeight = 5
)

// Window is the value view of a managed window.
type Window struct {
	ID        uint32
	Rect      grid.Rect
	PreMax    grid.Rect
	Title     string
	Focused   bool
	Minimized bool
	Maximized bool
	Exited    bool
}

// ContentRect is the emulator area.
func (w Window) ContentRect() grid.Rect { return compositor.ContentRect(w.Rect) }

// Hit is the zone under a point.
type Hit int

const (
	HitNone Hit = iota
	HitContent
	HitTitle
	HitClose
	HitMaximize
	HitMinimize
	HitResize
)

func (h Hit) String() string {
	switch h {
	case HitContent:
		return "content"
	case HitTitle:
		return "title"
	case HitClose:
		return "close"
	case HitMaximize:
		return "maximize"
	case HitMinimize:
		return "minimize"
	case HitResize:
		return "resize"
	default:
		return "none"
	}
}

// Edge names a resize handle.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
	EdgeTopLeft
	EdgeTopRight
	EdgeBottomLeft
	EdgeBottomRight
)

func (e Edge) sides() (left, right, top, bottom bool) {
	switch e {
	case EdgeLeft:
		left = true
	case EdgeRight:
		right = true
	case EdgeTop:
		top = true
	case EdgeBottom:
		bottom = true
	case EdgeTopLeft:
		top, left = true, true
	case EdgeTopRight:
		top, right = true, true
	case EdgeBottomLeft:
		bottom, left = true, true
	case EdgeBottomRight:
		bottom, right = true, true
	}
	return
}

// HitTest classifies an absolute screen point. The inner right column (the
// scrollbar track) belongs to the content zone.
func (w Window) HitTest(col, row int) (Hit, Edge) {
	r := w.Rect
	if !r.Contains(col, row) {
		return HitNone, EdgeNone
	}
	dx, dy := col-r.X, row-r.Y
	top, bottom := dy == 0, dy == r.H-1
	left, rightCorner := dx < 2, dx >= r.W-2

	switch {
	case top && left:
		return HitResize, EdgeTopLeft
	case top && rightCorner:
		return HitResize, EdgeTopRight
	case bottom && left:
		return HitResize, EdgeBottomLeft
	case bottom && rightCorner:
		return HitResize, EdgeBottomRight
	case left:
		return HitResize, EdgeLeft
	case dx == r.W-1:
		return HitResize, EdgeRight
	case bottom:
		return HitResize, EdgeBottom
	case top:
		switch {
		case dx >= compositor.CloseCol && dx < compositor.CloseCol+3:
			return HitClose, EdgeNone
		case dx >= compositor.MaximizeCol && dx < compositor.MaximizeCol+3:
			return HitMaximize, EdgeNone
		case dx >= compositor.MinimizeCol && dx < compositor.MinimizeCol+3:
			return HitMinimize, EdgeNone
		}
		return HitTitle, EdgeNone
	}
	return HitContent, EdgeNone
}

// OnScrollbar reports whether (col,row) is on the scrollbar track.
func (w Window) OnScrollbar(col, row int) bool {
	return col == w.Rect.Right()-2 && row > w.Rect.Y && row < w.Rect.Bottom()-1
}

// enforceMin grows r to the minimum size, keeping its origin.
func enforceMin(r grid.Rect) grid.Rect {
	r.W = max(r.W, MinWidth)
	r.H = max(r.H, MinHeight)
	return r
}

// resizeRect moves the named edge of r by (dx,dy). Left and top edges keep
// the opposite edge fixed when clamping to the minimum size.
func resizeRect(r grid.Rect, e Edge, dx, dy int) grid.Rect {
	left, right, top, bottom := e.sides()
	out := r
	if left {
		out.W = r.W - dx
		if out.W < MinWidth {
			out.W = MinWidth
		}
		out.X = r.Right() - out.W
	}
	if right {
		out.W = max(MinWidth, r.W+dx)
	}
	if top {
		out.H = r.H - dy
		if out.H < MinHeight {
			out.H = MinHeight
		}
		out.Y = r.Bottom() - out.H
	}
	if bottom {
		out.H = max(MinHeight, r.H+dy)
	}
	return out
}
