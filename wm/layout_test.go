// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"testing"

	"github.com/framegrace/texelwm/grid"
)

func TestSnapRects(t *testing.T) {
	ws := testWorkspace
	tests := []struct {
		pos  SnapPosition
		want grid.Rect
	}{
		{SnapTopLeft, grid.Rect{X: 0, Y: 1, W: 40, H: 11}},
		{SnapTopRight, grid.Rect{X: 40, Y: 1, W: 40, H: 11}},
		{SnapBottomLeft, grid.Rect{X: 0, Y: 12, W: 40, H: 11}},
		{SnapBottomRight, grid.Rect{X: 40, Y: 12, W: 40, H: 11}},
		{SnapFullLeft, grid.Rect{X: 0, Y: 1, W: 40, H: 22}},
		{SnapFullRight, grid.Rect{X: 40, Y: 1, W: 40, H: 22}},
		{SnapFullTop, grid.Rect{X: 0, Y: 1, W: 80, H: 11}},
		{SnapFullBottom, grid.Rect{X: 0, Y: 12, W: 80, H: 11}},
		{SnapTopCenter, grid.Rect{X: 26, Y: 1, W: 28, H: 11}},
		{SnapBottomCenter, grid.Rect{X: 26, Y: 12, W: 28, H: 11}},
		{SnapMiddleLeft, grid.Rect{X: 0, Y: 8, W: 40, H: 8}},
		{SnapMiddleRight, grid.Rect{X: 40, Y: 8, W: 40, H: 8}},
		{SnapCenter, grid.Rect{X: 26, Y: 8, W: 28, H: 8}},
	}
	for _, tt := range tests {
		if got := snapRect(ws, tt.pos); got != tt.want {
			t.Errorf("snapRect(%d) = %+v, want %+v", tt.pos, got, tt.want)
		}
	}
}

func overlaps(a, b grid.Rect) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}

func TestTileRectsCoverWorkspace(t *testing.T) {
	ws := testWorkspace
	for _, layout := range []Layout{LayoutAuto, LayoutColumns, LayoutRows} {
		for n := 1; n <= 10; n++ {
			rects := tileRects(ws, n, layout)
			if len(rects) != n {
				t.Fatalf("%v/%d: %d rects", layout, n, len(rects))
			}
			area := 0
			for i, r := range rects {
				if r.X < ws.X || r.Y < ws.Y || r.Right() > ws.Right() || r.Bottom() > ws.Bottom() {
					t.Fatalf("%v/%d: rect %+v outside workspace", layout, n, r)
				}
				area += r.W * r.H
				for _, o := range rects[i+1:] {
					if overlaps(r, o) {
						t.Fatalf("%v/%d: %+v overlaps %+v", layout, n, r, o)
					}
				}
			}
			if area != ws.W*ws.H {
				t.Fatalf("%v/%d: tiles cover %d cells, want %d", layout, n, area, ws.W*ws.H)
			}
		}
	}
}

func TestTileRectsAutoTable(t *testing.T) {
	ws := testWorkspace
	if got := tileRects(ws, 1, LayoutAuto); got[0] != ws {
		t.Fatalf("single tile = %+v", got[0])
	}
	three := tileRects(ws, 3, LayoutAuto)
	if three[0] != (grid.Rect{X: 0, Y: 1, W: 40, H: 22}) ||
		three[1] != (grid.Rect{X: 40, Y: 1, W: 40, H: 11}) ||
		three[2] != (grid.Rect{X: 40, Y: 12, W: 40, H: 11}) {
		t.Fatalf("three tiles = %+v", three)
	}
	four := tileRects(ws, 4, LayoutAuto)
	if four[3] != (grid.Rect{X: 40, Y: 12, W: 40, H: 11}) {
		t.Fatalf("2x2 last tile = %+v", four[3])
	}
	five := tileRects(ws, 5, LayoutAuto)
	if five[3].W != 40 || five[0].W != 26 {
		t.Fatalf("last row should stretch: %+v", five)
	}
}

func TestCascadeWraps(t *testing.T) {
	var off [2]int
	var r grid.Rect
	for i := 0; i < 8; i++ {
		r, off = cascadeRect(testWorkspace, off)
	}
	if r.X != 15 || r.Y != 9 || r.W != 53 || r.H != 14 {
		t.Fatalf("8th cascade rect = %+v", r)
	}
	r, off = cascadeRect(testWorkspace, off)
	if r.X != 1 || r.Y != 2 || off != [2]int{1, 1} {
		t.Fatalf("cascade did not wrap: %+v %v", r, off)
	}
}

func TestParseLayout(t *testing.T) {
	for name, want := range map[string]Layout{"": LayoutAuto, "Columns": LayoutColumns, "rows": LayoutRows} {
		if got, err := ParseLayout(name); err != nil || got != want {
			t.Errorf("ParseLayout(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLayout("spiral"); err == nil {
		t.Errorf("ParseLayout accepted an unknown name")
	}
}
