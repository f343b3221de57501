// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"testing"

	"github.com/framegrace/texelwm/grid"
)

func TestHitTestZones(t *testing.T) {
	w := Window{Rect: grid.Rect{X: 10, Y: 5, W: 30, H: 10}}
	tests := []struct {
		col, row int
		hit      Hit
		edge     Edge
	}{
		{10, 5, HitResize, EdgeTopLeft},
		{11, 5, HitResize, EdgeTopLeft},
		{38, 5, HitResize, EdgeTopRight},
		{39, 5, HitResize, EdgeTopRight},
		{10, 14, HitResize, EdgeBottomLeft},
		{38, 14, HitResize, EdgeBottomRight},
		{39, 14, HitResize, EdgeBottomRight},
		{10, 8, HitResize, EdgeLeft},
		{11, 8, HitResize, EdgeLeft},
		{39, 8, HitResize, EdgeRight},
		{20, 14, HitResize, EdgeBottom},
		{12, 5, HitClose, EdgeNone},
		{14, 5, HitClose, EdgeNone},
		{15, 5, HitTitle, EdgeNone},
		{16, 5, HitMaximize, EdgeNone},
		{20, 5, HitMinimize, EdgeNone},
		{22, 5, HitMinimize, EdgeNone},
		{23, 5, HitTitle, EdgeNone},
		{37, 5, HitTitle, EdgeNone},
		{12, 6, HitContent, EdgeNone},
		{38, 8, HitContent, EdgeNone},
		{9, 5, HitNone, EdgeNone},
		{40, 8, HitNone, EdgeNone},
	}
	for _, tt := range tests {
		hit, edge := w.HitTest(tt.col, tt.row)
		if hit != tt.hit || edge != tt.edge {
			t.Errorf("HitTest(%d,%d) = %v/%d, want %v/%d", tt.col, tt.row, hit, edge, tt.hit, tt.edge)
		}
	}
	if !w.OnScrollbar(38, 8) || w.OnScrollbar(37, 8) || w.OnScrollbar(38, 5) {
		t.Fatalf("scrollbar column misidentified")
	}
}

func TestHitTestPartitionsEveryCell(t *testing.T) {
	for _, r := range []grid.Rect{{X: 0, Y: 0, W: MinWidth, H: MinHeight}, {X: 3, Y: 2, W: 41, H: 17}} {
		w := Window{Rect: r}
		counts := map[Hit]int{}
		for row := r.Y; row < r.Bottom(); row++ {
			for col := r.X; col < r.Right(); col++ {
				hit, edge := w.HitTest(col, row)
				if hit == HitNone {
					t.Fatalf("(%d,%d) inside %v has no zone", col, row, r)
				}
				if (hit == HitResize) != (edge != EdgeNone) {
					t.Fatalf("(%d,%d): hit %v with edge %d", col, row, hit, edge)
				}
				counts[hit]++
			}
		}
		if counts[HitClose] != 3 || counts[HitMaximize] != 3 || counts[HitMinimize] != 3 {
			t.Fatalf("button zones = %v", counts)
		}
		// Content includes the scrollbar column.
		if want := (r.W - 3) * (r.H - 2); counts[HitContent] != want {
			t.Fatalf("content cells = %d, want %d", counts[HitContent], want)
		}
	}
}

func TestResizeRectEnforcesMinima(t *testing.T) {
	r := grid.Rect{X: 10, Y: 5, W: 30, H: 10}
	tests := []struct {
		edge   Edge
		dx, dy int
		want   grid.Rect
	}{
		{EdgeLeft, 10, 0, grid.Rect{X: 16, Y: 5, W: 24, H: 10}},
		{EdgeLeft, -4, 0, grid.Rect{X: 6, Y: 5, W: 34, H: 10}},
		{EdgeRight, -100, 0, grid.Rect{X: 10, Y: 5, W: 24, H: 10}},
		{EdgeTop, 0, 8, grid.Rect{X: 10, Y: 10, W: 30, H: 5}},
		{EdgeBottom, 0, -20, grid.Rect{X: 10, Y: 5, W: 30, H: 5}},
		{EdgeBottomRight, 5, 2, grid.Rect{X: 10, Y: 5, W: 35, H: 12}},
		{EdgeTopLeft, -3, -2, grid.Rect{X: 7, Y: 3, W: 33, H: 12}},
	}
	for _, tt := range tests {
		if got := resizeRect(r, tt.edge, tt.dx, tt.dy); got != tt.want {
			t.Errorf("resizeRect(%d, %d, %d) = %+v, want %+v", tt.edge, tt.dx, tt.dy, got, tt.want)
		}
	}
}
