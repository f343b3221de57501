// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/codec.go
// Summary: Conversion between emulator snapshots and the tagged on-disk form.

package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/vterm"
	"github.com/mattn/go-runewidth"
)

var namedColorTags = [16]string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright-black", "bright-red", "bright-green", "bright-yellow",
	"bright-blue", "bright-magenta", "bright-cyan", "bright-white",
}

// EncodeColor returns the stable tag for c. The default colour encodes as "".
func EncodeColor(c grid.Color) string {
	switch c.Kind {
	case grid.ColorNamed:
		return namedColorTags[c.Value&0x0f]
	case grid.ColorIndexed:
		return "idx:" + strconv.Itoa(int(c.Value))
	case grid.ColorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return ""
	}
}

// DecodeColor parses a tag produced by EncodeColor.
func DecodeColor(tag string) (grid.Color, error) {
	switch {
	case tag == "" || tag == "default":
		return grid.DefaultColor, nil
	case strings.HasPrefix(tag, "idx:"):
		n, err := strconv.ParseUint(tag[4:], 10, 8)
		if err != nil {
			return grid.DefaultColor, fmt.Errorf("colour %q: %w", tag, err)
		}
		return grid.Indexed(uint8(n)), nil
	case strings.HasPrefix(tag, "#") && len(tag) == 7:
		v, err := strconv.ParseUint(tag[1:], 16, 32)
		if err != nil {
			return grid.DefaultColor, fmt.Errorf("colour %q: %w", tag, err)
		}
		return grid.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	for i, name := range namedColorTags {
		if name == tag {
			return grid.Named(uint8(i)), nil
		}
	}
	return grid.DefaultColor, fmt.Errorf("unknown colour %q", tag)
}

func encodeStyle(fg, bg grid.Color, attrs grid.Attr) Style {
	return Style{FG: EncodeColor(fg), BG: EncodeColor(bg), Attrs: attrs.Names()}
}

func (s Style) decode() (fg, bg grid.Color, attrs grid.Attr, err error) {
	if fg, err = DecodeColor(s.FG); err != nil {
		return
	}
	if bg, err = DecodeColor(s.BG); err != nil {
		return
	}
	var ok bool
	if attrs, ok = grid.ParseAttr(s.Attrs); !ok {
		err = fmt.Errorf("unknown attribute in %v", s.Attrs)
	}
	return
}

func sameStyle(a, b grid.Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Attrs == b.Attrs
}

// EncodeLine packs a row into style runs. Continuation cells of wide glyphs
// are dropped and restored on decode; unpaired halves encode as blanks so
// the columns after them keep their position.
func EncodeLine(cells []grid.Cell) Line {
	end := len(cells)
	for end > 0 && cells[end-1] == grid.DefaultCell {
		end--
	}
	var (
		line  Line
		text  strings.Builder
		style grid.Cell
		open  bool
	)
	flush := func() {
		if open {
			line = append(line, Run{Text: text.String(), Style: encodeStyle(style.FG, style.BG, style.Attrs)})
			text.Reset()
		}
	}
	for i, c := range cells[:end] {
		switch {
		case c.IsContinuation():
			if i > 0 && isWideLead(cells[i-1]) {
				continue
			}
			c.Glyph = ' '
		case runewidth.RuneWidth(c.Glyph) == 2 && i+1 < len(cells) && !cells[i+1].IsContinuation():
			c.Glyph = ' '
		}
		if !open || !sameStyle(c, style) {
			flush()
			style, open = c, true
		}
		text.WriteRune(c.Glyph)
	}
	flush()
	return line
}

func isWideLead(c grid.Cell) bool {
	return !c.IsContinuation() && runewidth.RuneWidth(c.Glyph) == 2
}

// DecodeLine expands runs into exactly cols cells.
func DecodeLine(line Line, cols int) ([]grid.Cell, error) {
	out := make([]grid.Cell, cols)
	for i := range out {
		out[i] = grid.DefaultCell
	}
	col := 0
	for _, run := range line {
		fg, bg, attrs, err := run.decode()
		if err != nil {
			return nil, err
		}
		for _, r := range run.Text {
			if col >= cols {
				return out, nil
			}
			out[col] = grid.Cell{Glyph: r, FG: fg, BG: bg, Attrs: attrs}
			col++
			if runewidth.RuneWidth(r) == 2 && col < cols {
				out[col] = grid.Cell{Glyph: 0, FG: fg, BG: bg, Attrs: attrs}
				col++
			}
		}
	}
	return out, nil
}

// EncodeTerminal converts an emulator snapshot.
func EncodeTerminal(s vterm.Snapshot) Terminal {
	t := Terminal{
		Cols:         s.Cols,
		Rows:         s.Rows,
		ScrollOffset: s.ViewOffset,
		Title:        s.Title,
		Cursor: Cursor{
			Col:     s.Cursor.Col,
			Row:     s.Cursor.Row,
			Visible: s.Cursor.Visible,
			Shape:   s.Cursor.Shape.String(),
		},
		Pen:   encodeStyle(s.Pen.FG, s.Pen.BG, s.Pen.Attrs),
		Lines: make([]Line, len(s.Lines)),
	}
	for i, row := range s.Lines {
		t.Lines[i] = EncodeLine(row)
	}
	return t
}

// Snapshot converts t back into an emulator snapshot.
func (t Terminal) Snapshot() (vterm.Snapshot, error) {
	if t.Cols <= 0 || t.Rows <= 0 {
		return vterm.Snapshot{}, fmt.Errorf("invalid terminal size %dx%d", t.Cols, t.Rows)
	}
	shape, ok := vterm.ParseCursorShape(t.Cursor.Shape)
	if !ok && t.Cursor.Shape != "" {
		return vterm.Snapshot{}, fmt.Errorf("unknown cursor shape %q", t.Cursor.Shape)
	}
	fg, bg, attrs, err := t.Pen.decode()
	if err != nil {
		return vterm.Snapshot{}, fmt.Errorf("pen: %w", err)
	}
	s := vterm.Snapshot{
		Cols:       t.Cols,
		Rows:       t.Rows,
		Lines:      make([][]grid.Cell, len(t.Lines)),
		Cursor:     vterm.Cursor{Col: t.Cursor.Col, Row: t.Cursor.Row, Visible: t.Cursor.Visible, Shape: shape},
		Pen:        vterm.Pen{FG: fg, BG: bg, Attrs: attrs},
		ViewOffset: t.ScrollOffset,
		Title:      t.Title,
	}
	for i, line := range t.Lines {
		if s.Lines[i], err = DecodeLine(line, t.Cols); err != nil {
			return vterm.Snapshot{}, fmt.Errorf("line %d: %w", i, err)
		}
	}
	return s, nil
}
