// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package vterm

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/framegrace/texelwm/grid"
)

func feed(v *VTerm, s string) { v.Feed([]byte(s)) }

func rowString(v *VTerm, row int) string {
	var sb strings.Builder
	for col := 0; col < v.Cols(); col++ {
		c := v.Screen().Get(col, row)
		if c.IsContinuation() {
			continue
		}
		sb.WriteRune(c.Glyph)
	}
	return strings.TrimRight(sb.String(), " ")
}

func assertCursor(t *testing.T, v *VTerm, col, row int) {
	t.Helper()
	if c := v.Cursor(); c.Col != col || c.Row != row {
		t.Fatalf("cursor = (%d,%d), want (%d,%d)", c.Col, c.Row, col, row)
	}
}

func TestHelloPrint(t *testing.T) {
	v := New(20, 5)
	feed(v, "Hello\r\nWorld")

	if got := rowString(v, 0); got != "Hello" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := rowString(v, 1); got != "World" {
		t.Fatalf("row 1 = %q", got)
	}
	for col := 0; col < 5; col++ {
		c := v.Screen().Get(col, 0)
		if c.Attrs != 0 || !c.FG.IsDefault() || !c.BG.IsDefault() {
			t.Fatalf("cell %d has non-default style: %+v", col, c)
		}
	}
	assertCursor(t, v, 5, 1)
}

func TestSGRColorAndReset(t *testing.T) {
	v := New(20, 5)
	feed(v, "\x1b[31;1mAB\x1b[0mC")

	for col := 0; col < 2; col++ {
		c := v.Screen().Get(col, 0)
		if c.FG != grid.Named(grid.Red) || !c.Attrs.Has(grid.AttrBold) {
			t.Fatalf("cell %d = %+v, want bold red", col, c)
		}
	}
	c := v.Screen().Get(2, 0)
	if !c.FG.IsDefault() || c.Attrs != 0 {
		t.Fatalf("cell 2 = %+v, want default", c)
	}
}

func TestSGRExtendedColors(t *testing.T) {
	v := New(10, 1)
	feed(v, "\x1b[38;5;208;48;2;1;2;3mX\x1b[22;39;49m\x1b[2;9;92mY")

	x := v.Screen().Get(0, 0)
	if x.FG != grid.Indexed(208) || x.BG != grid.RGB(1, 2, 3) {
		t.Fatalf("X = %+v", x)
	}
	y := v.Screen().Get(1, 0)
	if y.FG != grid.Named(grid.BrightGreen) || !y.Attrs.Has(grid.AttrDim|grid.AttrStrikethrough) {
		t.Fatalf("Y = %+v", y)
	}
}

func TestScrollAtBottomFeedsScrollback(t *testing.T) {
	v := New(10, 3)
	feed(v, "row0\r\nrow1\r\nrow2\r\n")

	sb := v.Scrollback()
	if sb.Len() != 1 {
		t.Fatalf("scrollback len = %d, want 1", sb.Len())
	}
	if got := strings.TrimRight(cellsText(sb.Line(0)), " "); got != "row0" {
		t.Fatalf("scrollback head = %q", got)
	}
	if got := rowString(v, 0); got != "row1" {
		t.Fatalf("row 0 = %q", got)
	}
}

func cellsText(cells []grid.Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if !c.IsContinuation() {
			sb.WriteRune(c.Glyph)
		}
	}
	return sb.String()
}

func TestScrollbackRingEvictsOldest(t *testing.T) {
	v := New(5, 2, WithScrollbackSize(3))
	for i := 0; i < 6; i++ {
		feed(v, string(rune('a'+i))+"\r\n")
	}
	sb := v.Scrollback()
	if sb.Len() != 3 {
		t.Fatalf("len = %d", sb.Len())
	}
	got := ""
	for i := 0; i < sb.Len(); i++ {
		got += strings.TrimSpace(cellsText(sb.Line(i)))
	}
	if got != "cde" {
		t.Fatalf("scrollback = %q, want cde", got)
	}
}

func TestScrollRegionDoesNotFeedScrollback(t *testing.T) {
	v := New(5, 4)
	feed(v, "\x1b[2;3r\x1b[3;1Hx\n\n")
	if v.Scrollback().Len() != 0 {
		t.Fatalf("region scroll leaked %d rows to scrollback", v.Scrollback().Len())
	}
	top, bottom := v.ScrollMargins()
	if top != 1 || bottom != 2 {
		t.Fatalf("margins = %d,%d", top, bottom)
	}
}

func TestAlternateScreen1049(t *testing.T) {
	v := New(10, 4)
	feed(v, "ab\x1b[2;3H")
	before := v.Screen().Get(0, 0)

	feed(v, "\x1b[?1049h")
	if !v.AltScreen() {
		t.Fatalf("alternate screen not active")
	}
	if v.Screen().Get(0, 0) != grid.DefaultCell {
		t.Fatalf("alternate screen not cleared on entry")
	}
	feed(v, "\x1b[HX")
	feed(v, "\x1b[?1049l")

	if v.AltScreen() {
		t.Fatalf("still on alternate screen")
	}
	if got := v.Screen().Get(0, 0); got != before {
		t.Fatalf("(0,0) = %+v, want %+v", got, before)
	}
	assertCursor(t, v, 2, 1)
}

func TestAlternateScreen47KeepsCursor(t *testing.T) {
	v := New(10, 4)
	feed(v, "\x1b[3;4H\x1b[?47h\x1b[1;1H\x1b[?47l")
	assertCursor(t, v, 0, 0)
}

func TestNoScrollbackOnAlternateScreen(t *testing.T) {
	v := New(5, 2)
	feed(v, "\x1b[?1049h1\r\n2\r\n3\r\n4\r\n")
	if v.Scrollback().Len() != 0 {
		t.Fatalf("alternate screen produced scrollback")
	}
}

func TestDeferredWrap(t *testing.T) {
	v := New(5, 3)
	feed(v, "abcde")
	assertCursor(t, v, 4, 0)
	feed(v, "f")
	if rowString(v, 1) != "f" {
		t.Fatalf("row 1 = %q", rowString(v, 1))
	}
	assertCursor(t, v, 1, 1)

	feed(v, "\x1b[?7l\x1b[3;1Hvwxyz123")
	if rowString(v, 2) != "vwxy3" {
		t.Fatalf("no-wrap row = %q", rowString(v, 2))
	}
	assertCursor(t, v, 4, 2)
}

func TestWideGlyphs(t *testing.T) {
	v := New(6, 2)
	feed(v, "a世b")
	if v.Screen().Get(1, 0).Glyph != '世' || !v.Screen().Get(2, 0).IsContinuation() {
		t.Fatalf("wide glyph not spread over two cells")
	}
	assertCursor(t, v, 4, 0)

	feed(v, "\x1b[1;3Hx")
	if v.Screen().Get(1, 0).Glyph != ' ' {
		t.Fatalf("overwriting the right half should blank the left half")
	}

	feed(v, "\x1b[2;6H世")
	if v.Screen().Get(5, 1).Glyph != ' ' {
		t.Fatalf("wide glyph at the last column should wrap")
	}
}

func TestCursorMovementClipping(t *testing.T) {
	v := New(10, 5)
	tests := []struct {
		seq      string
		col, row int
	}{
		{"\x1b[3;4H", 3, 2},
		{"\x1b[99A", 3, 0},
		{"\x1b[99B", 3, 4},
		{"\x1b[99C", 9, 4},
		{"\x1b[99D", 0, 4},
		{"\x1b[5G", 4, 4},
		{"\x1b[2d", 4, 1},
		{"\x1b[2E", 0, 3},
		{"\x1b[F", 0, 2},
		{"\x1b[0;0H", 0, 0},
		{"\t\t", 9, 0},
		{"\x1b[Z", 8, 0},
	}
	for _, tt := range tests {
		feed(v, tt.seq)
		assertCursor(t, v, tt.col, tt.row)
	}
}

func TestOriginMode(t *testing.T) {
	v := New(10, 10)
	feed(v, "\x1b[3;6r\x1b[?6h")
	assertCursor(t, v, 0, 2)
	feed(v, "\x1b[99;1H")
	assertCursor(t, v, 0, 5)

	var resp []byte
	v.writeToPty = func(b []byte) { resp = append(resp, b...) }
	feed(v, "\x1b[6n")
	if string(resp) != "\x1b[4;1R" {
		t.Fatalf("DSR = %q", resp)
	}
}

func TestDeviceReports(t *testing.T) {
	var resp []string
	v := New(10, 5, WithPtyWriter(func(b []byte) { resp = append(resp, string(b)) }))
	feed(v, "\x1b[2;3H\x1b[6n\x1b[5n\x1b[c")
	want := []string{"\x1b[2;3R", "\x1b[0n", "\x1b[?1;2c"}
	if strings.Join(resp, "|") != strings.Join(want, "|") {
		t.Fatalf("responses = %q", resp)
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	v := New(10, 5)
	feed(v, "\x1b[2;3H\x1b[4m\x1b7\x1b[5;5H\x1b[0m\x1b8X")
	c := v.Screen().Get(2, 1)
	if c.Glyph != 'X' || !c.Attrs.Has(grid.AttrUnderline) {
		t.Fatalf("restored cell = %+v", c)
	}
}

func TestTitle(t *testing.T) {
	var got string
	v := New(10, 2, WithTitleChangeHandler(func(s string) { got = s }))
	feed(v, "\x1b]2;build;test\x07")
	if got != "build;test" || v.Title() != "build;test" {
		t.Fatalf("title = %q / %q", got, v.Title())
	}
	feed(v, "\x1b]1;icon\x07")
	if v.Title() != "build;test" {
		t.Fatalf("OSC 1 changed the title")
	}
}

func TestEditSequences(t *testing.T) {
	v := New(6, 3)
	feed(v, "abcdef\r\nghijkl\r\nmnopqr")
	feed(v, "\x1b[1;2H\x1b[2P")
	if rowString(v, 0) != "adef" {
		t.Fatalf("DCH: %q", rowString(v, 0))
	}
	feed(v, "\x1b[2@")
	if rowString(v, 0) != "a  def" {
		t.Fatalf("ICH: %q", rowString(v, 0))
	}
	feed(v, "\x1b[2;1H\x1b[L")
	if rowString(v, 1) != "" || rowString(v, 2) != "ghijkl" {
		t.Fatalf("IL: %q %q", rowString(v, 1), rowString(v, 2))
	}
	feed(v, "\x1b[M")
	if rowString(v, 1) != "ghijkl" {
		t.Fatalf("DL: %q", rowString(v, 1))
	}
	feed(v, "\x1b[3;3H\x1b[K")
	if rowString(v, 2) != "" {
		t.Fatalf("EL: %q", rowString(v, 2))
	}
	feed(v, "\x1b[2J")
	for row := 0; row < 3; row++ {
		if rowString(v, row) != "" {
			t.Fatalf("ED 2 left row %d = %q", row, rowString(v, row))
		}
	}
}

func TestInsertModeAndRepeat(t *testing.T) {
	v := New(8, 1)
	feed(v, "abc\x1b[1G\x1b[4hX\x1b[4l")
	if rowString(v, 0) != "Xabc" {
		t.Fatalf("IRM: %q", rowString(v, 0))
	}
	feed(v, "\x1b[8GZ\x1b[1G-\x1b[3b")
	if rowString(v, 0) != "----   Z" {
		t.Fatalf("REP: %q", rowString(v, 0))
	}
}

func TestCursorShapeAndModes(t *testing.T) {
	v := New(8, 2)
	feed(v, "\x1b[5 q\x1b[?25l\x1b[?1h\x1b[?2004h")
	c := v.Cursor()
	if c.Shape != CursorBar || c.Visible {
		t.Fatalf("cursor = %+v", c)
	}
	if !v.AppCursorKeys() || !v.BracketedPaste() {
		t.Fatalf("modes not set")
	}
	feed(v, "\x1b[!p")
	if !v.Cursor().Visible || v.AppCursorKeys() {
		t.Fatalf("soft reset did not reset modes")
	}
}

func TestResizeShrinkKeepsCursorRow(t *testing.T) {
	v := New(10, 5)
	feed(v, "0\r\n1\r\n2\r\n3\r\n4")
	v.Resize(10, 3)
	assertCursor(t, v, 1, 2)
	if rowString(v, 2) != "4" || rowString(v, 0) != "2" {
		t.Fatalf("rows = %q %q %q", rowString(v, 0), rowString(v, 1), rowString(v, 2))
	}
	if v.Scrollback().Len() != 2 {
		t.Fatalf("scrollback = %d, want 2", v.Scrollback().Len())
	}
}

func TestResizeGrowPreservesContent(t *testing.T) {
	v := New(40, 10)
	feed(v, "\x1b[10;40HA")
	v.Resize(60, 15)
	if v.Screen().Get(39, 9).Glyph != 'A' {
		t.Fatalf("content moved")
	}
	if v.Screen().Get(59, 14) != grid.DefaultCell {
		t.Fatalf("new cell not default")
	}
}

func TestViewportScroll(t *testing.T) {
	v := New(5, 2)
	feed(v, "a\r\nb\r\nc\r\nd")
	v.ScrollView(10)
	if v.ViewOffset() != 2 {
		t.Fatalf("offset = %d", v.ViewOffset())
	}
	if v.ViewCell(0, 0).Glyph != 'a' || v.ViewCell(0, 1).Glyph != 'b' {
		t.Fatalf("viewport shows %q%q", v.ViewCell(0, 0).Glyph, v.ViewCell(0, 1).Glyph)
	}
	if _, _, ok := v.CursorInView(); ok {
		t.Fatalf("cursor should be out of view")
	}
	feed(v, "e")
	if v.ViewOffset() != 0 {
		t.Fatalf("output should reset the viewport")
	}
}

func TestRandomInputKeepsCursorInBounds(t *testing.T) {
	buf := make([]byte, 1<<20)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("rand: %v", err)
	}
	v := New(37, 11)
	for off := 0; off < len(buf); off += 997 {
		end := min(off+997, len(buf))
		v.Feed(buf[off:end])
		c := v.Cursor()
		if c.Col < 0 || c.Col >= v.Cols() || c.Row < 0 || c.Row >= v.Rows() {
			t.Fatalf("cursor out of bounds: %+v", c)
		}
		if v.Screen().Cols() != v.Cols() || v.Screen().Rows() != v.Rows() {
			t.Fatalf("grid size drifted")
		}
	}
	feed(v, "\x1b[0m")
	if v.ParserState().String() != "Ground" {
		t.Fatalf("parser state = %v", v.ParserState())
	}
}
