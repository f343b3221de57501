// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/draw.go
// Summary: Text and box primitives shared by window chrome and desktop overlays.

package compositor

import (
	"github.com/framegrace/texelwm/grid"
	"github.com/mattn/go-runewidth"
)

// FillRect paints every cell of r with c.
func FillRect(frame *grid.Grid, r grid.Rect, c grid.Cell) {
	frame.Fill(r.X, r.Y, r.Right()-1, r.Bottom()-1, c)
}

// DrawText writes text from (col,row) using at most width columns and
// returns the columns used. Wide glyphs that do not fit are dropped.
func DrawText(frame *grid.Grid, col, row int, text string, st Style, width int) int {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > width {
			break
		}
		frame.Set(col+used, row, st.Cell(r))
		if w == 2 {
			frame.Set(col+used+1, row, st.Cell(0))
		}
		used += w
	}
	return used
}

// Truncate shortens s to width columns, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// DrawBox draws a framed, filled box with an optional centred caption on the top edge.
func DrawBox(frame *grid.Grid, r grid.Rect, st Style, cs Charset, caption string, captionStyle Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	FillRect(frame, r, st.Cell(' '))
	for x := r.X + 1; x < r.Right()-1; x++ {
		frame.Set(x, r.Y, st.Cell(cs.Horizontal))
		frame.Set(x, r.Bottom()-1, st.Cell(cs.Horizontal))
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		frame.Set(r.X, y, st.Cell(cs.Vertical))
		frame.Set(r.Right()-1, y, st.Cell(cs.Vertical))
	}
	frame.Set(r.X, r.Y, st.Cell(cs.TopLeft))
	frame.Set(r.Right()-1, r.Y, st.Cell(cs.TopRight))
	frame.Set(r.X, r.Bottom()-1, st.Cell(cs.BottomLeft))
	frame.Set(r.Right()-1, r.Bottom()-1, st.Cell(cs.BottomRight))
	if caption == "" {
		return
	}
	caption = " " + Truncate(caption, r.W-6) + " "
	w := runewidth.StringWidth(caption)
	DrawText(frame, r.X+(r.W-w)/2, r.Y, caption, captionStyle, w)
}
