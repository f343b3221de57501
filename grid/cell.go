// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/cell.go
// Summary: Cell, colour and attribute types shared by the emulator and compositor.
// Usage: Consumed by vterm, compositor, session and backend packages.

package grid

import "strings"

// Attr is a set of SGR text attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrStrikethrough
)

var attrNames = []struct {
	attr Attr
	name string
}{
	{AttrBold, "bold"},
	{AttrDim, "dim"},
	{AttrItalic, "italic"},
	{AttrUnderline, "underline"},
	{AttrBlink, "blink"},
	{AttrReverse, "reverse"},
	{AttrHidden, "hidden"},
	{AttrStrikethrough, "strikethrough"},
}

// Has reports whether every bit in b is set.
func (a Attr) Has(b Attr) bool { return a&b == b }

// Names returns the stable tag of every attribute in the set, in bit order.
func (a Attr) Names() []string {
	var out []string
	for _, n := range attrNames {
		if a&n.attr != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// ParseAttr is the inverse of Names. Unknown names are reported with ok=false.
func ParseAttr(names []string) (Attr, bool) {
	var a Attr
	ok := true
	for _, name := range names {
		found := false
		for _, n := range attrNames {
			if n.name == name {
				a |= n.attr
				found = true
				break
			}
		}
		if !found {
			ok = false
		}
	}
	return a, ok
}

// String returns a human-readable representation of the attribute flags.
func (a Attr) String() string {
	if a == 0 {
		return "none"
	}
	return strings.Join(a.Names(), "|")
}

// Cell is one screen position.
type Cell struct {
	Glyph rune
	FG    Color
	BG    Color
	Attrs Attr
}

// Blank returns an empty cell painted with the given background.
func Blank(bg Color) Cell {
	return Cell{Glyph: ' ', FG: DefaultColor, BG: bg}
}

// DefaultCell is a space with default colours and no attributes.
var DefaultCell = Blank(DefaultColor)

// IsContinuation reports whether the cell is the right half of a wide glyph.
func (c Cell) IsContinuation() bool { return c.Glyph == 0 }
