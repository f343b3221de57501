// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/layout.go
// Summary: Snap positions, auto-tile layouts, gaps and cascade placement.
// Notes: Corner and full-half snaps use halves of the workspace; centre and
// edge-centre snaps use thirds. Odd remainders go to the right/bottom tile.

package wm

import (
	"fmt"
	"math"
	"strings"

	"github.com/framegrace/texelwm/grid"
)

// SnapPosition is a predefined rectangle within the workspace.
type SnapPosition int

const (
	SnapTopLeft SnapPosition = iota
	SnapTopCenter
	SnapTopRight
	SnapMiddleLeft
	SnapCenter
	SnapMiddleRight
	SnapBottomLeft
	SnapBottomCenter
	SnapBottomRight
	SnapFullLeft
	SnapFullRight
	SnapFullTop
	SnapFullBottom
)

// numpadSnaps maps keypad digits to the 3x3 grid.
var numpadSnaps = map[rune]SnapPosition{
	'7': SnapTopLeft, '8': SnapTopCenter, '9': SnapTopRight,
	'4': SnapMiddleLeft, '5': SnapCenter, '6': SnapMiddleRight,
	'1': SnapBottomLeft, '2': SnapBottomCenter, '3': SnapBottomRight,
}

// snapRect computes the rectangle for pos inside ws.
func snapRect(ws grid.Rect, pos SnapPosition) grid.Rect {
	hw, hh := ws.W/2, ws.H/2
	tw, th := ws.W/3, ws.H/3
	switch pos {
	case SnapTopLeft:
		return grid.Rect{X: ws.X, Y: ws.Y, W: hw, H: hh}
	case SnapTopRight:
		return grid.Rect{X: ws.X + hw, Y: ws.Y, W: ws.W - hw, H: hh}
	case SnapBottomLeft:
		return grid.Rect{X: ws.X, Y: ws.Y + hh, W: hw, H: ws.H - hh}
	case SnapBottomRight:
		return grid.Rect{X: ws.X + hw, Y: ws.Y + hh, W: ws.W - hw, H: ws.H - hh}
	case SnapFullLeft:
		return grid.Rect{X: ws.X, Y: ws.Y, W: hw, H: ws.H}
	case SnapFullRight:
		return grid.Rect{X: ws.X + hw, Y: ws.Y, W: ws.W - hw, H: ws.H}
	case SnapFullTop:
		return grid.Rect{X: ws.X, Y: ws.Y, W: ws.W, H: hh}
	case SnapFullBottom:
		return grid.Rect{X: ws.X, Y: ws.Y + hh, W: ws.W, H: ws.H - hh}
	case SnapTopCenter:
		return grid.Rect{X: ws.X + tw, Y: ws.Y, W: ws.W - 2*tw, H: hh}
	case SnapBottomCenter:
		return grid.Rect{X: ws.X + tw, Y: ws.Y + hh, W: ws.W - 2*tw, H: ws.H - hh}
	case SnapMiddleLeft:
		return grid.Rect{X: ws.X, Y: ws.Y + th, W: hw, H: ws.H - 2*th}
	case SnapMiddleRight:
		return grid.Rect{X: ws.X + hw, Y: ws.Y + th, W: ws.W - hw, H: ws.H - 2*th}
	default:
		return grid.Rect{X: ws.X + tw, Y: ws.Y + th, W: ws.W - 2*tw, H: ws.H - 2*th}
	}
}

// gapRect leaves a one-cell gap around r plus room for the 2x1 shadow.
func gapRect(r grid.Rect) grid.Rect { return r.Inset(1, 1, 2, 1) }

// Layout selects the auto-tile arrangement.
type Layout int

const (
	LayoutAuto Layout = iota
	LayoutColumns
	LayoutRows
)

func (l Layout) String() string {
	switch l {
	case LayoutColumns:
		return "columns"
	case LayoutRows:
		return "rows"
	default:
		return "auto"
	}
}

// ParseLayout maps a configuration name to a layout.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return LayoutAuto, nil
	case "columns":
		return LayoutColumns, nil
	case "rows":
		return LayoutRows, nil
	}
	return LayoutAuto, fmt.Errorf("unknown layout %q", name)
}

// split divides length into n spans whose sizes differ by at most one.
func split(start, length, n int) [][2]int {
	out := make([][2]int, n)
	for i := 0; i < n; i++ {
		a := length * i / n
		b := length * (i + 1) / n
		out[i] = [2]int{start + a, b - a}
	}
	return out
}

func columns(r grid.Rect, n int) []grid.Rect {
	out := make([]grid.Rect, 0, n)
	for _, s := range split(r.X, r.W, n) {
		out = append(out, grid.Rect{X: s[0], Y: r.Y, W: s[1], H: r.H})
	}
	return out
}

func rows(r grid.Rect, n int) []grid.Rect {
	out := make([]grid.Rect, 0, n)
	for _, s := range split(r.Y, r.H, n) {
		out = append(out, grid.Rect{X: r.X, Y: s[0], W: r.W, H: s[1]})
	}
	return out
}

// tileRects returns n rectangles covering ws.
func tileRects(ws grid.Rect, n int, layout Layout) []grid.Rect {
	switch {
	case n <= 0:
		return nil
	case layout == LayoutColumns:
		return columns(ws, n)
	case layout == LayoutRows:
		return rows(ws, n)
	case n == 1:
		return []grid.Rect{ws}
	case n == 2:
		return columns(ws, 2)
	case n == 3:
		halves := columns(ws, 2)
		return append([]grid.Rect{halves[0]}, rows(halves[1], 2)...)
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	lines := (n + cols - 1) / cols
	out := make([]grid.Rect, 0, n)
	for i, line := range rows(ws, lines) {
		count := cols
		if i == lines-1 {
			count = n - cols*(lines-1)
		}
		out = append(out, columns(line, count)...)
	}
	return out
}

// cascadeStep is the offset between consecutively placed windows.
var cascadeStep = [2]int{2, 1}

// cascadeRect places a default-sized window after the previous offset.
// It returns the rectangle and the offset to remember.
func cascadeRect(ws grid.Rect, last [2]int) (grid.Rect, [2]int) {
	w := min(max(MinWidth, ws.W*2/3), max(ws.W-1, MinWidth))
	h := min(max(MinHeight, ws.H*2/3), max(ws.H-1, MinHeight))
	off := [2]int{1, 1}
	if last != [2]int{} {
		off = [2]int{last[0] + cascadeStep[0], last[1] + cascadeStep[1]}
	}
	if off[0]+w > ws.W || off[1]+h > ws.H {
		off = [2]int{1, 1}
	}
	return grid.Rect{X: ws.X + off[0], Y: ws.Y + off[1], W: w, H: h}, off
}
