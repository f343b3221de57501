// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/theme.go
// Summary: Colour theme and box-drawing charset for the desktop chrome.

package compositor

import "github.com/framegrace/texelwm/grid"

// Style is a colour pair with attributes.
type Style struct {
	FG, BG grid.Color
	Attrs  grid.Attr
}

// Cell returns the glyph painted in s.
func (s Style) Cell(r rune) grid.Cell {
	return grid.Cell{Glyph: r, FG: s.FG, BG: s.BG, Attrs: s.Attrs}
}

// Theme holds every style the compositor and desktop chrome use.
type Theme struct {
	Desktop       Style
	Border        Style
	BorderFocused Style
	BorderKeyMode Style
	Title         Style
	TitleFocused  Style
	Button        Style
	Shadow        Style
	ScrollTrack   Style
	ScrollThumb   Style
	Number        Style

	Bar           Style
	BarAccent     Style
	TaskActive    Style
	TaskMinimized Style
	Dialog        Style
	DialogTitle   Style
	Toast         Style
}

// Charset holds the glyphs of the chrome.
type Charset struct {
	Desktop                 rune
	TopLeft, TopRight       rune
	BottomLeft, BottomRight rune
	Horizontal, Vertical    rune
	Shadow                  rune
	Track, Thumb            rune
	Block                   rune
}

// DefaultTheme is a blue text-mode desktop.
func DefaultTheme() Theme {
	blue := grid.Named(grid.Blue)
	cyan := grid.Named(grid.Cyan)
	white := grid.Named(grid.White)
	black := grid.Named(grid.Black)
	return Theme{
		Desktop:       Style{FG: cyan, BG: blue},
		Border:        Style{FG: white, BG: blue},
		BorderFocused: Style{FG: grid.Named(grid.BrightWhite), BG: blue, Attrs: grid.AttrBold},
		BorderKeyMode: Style{FG: grid.Named(grid.BrightYellow), BG: blue, Attrs: grid.AttrBold},
		Title:         Style{FG: white, BG: blue},
		TitleFocused:  Style{FG: black, BG: cyan},
		Button:        Style{FG: grid.Named(grid.BrightGreen), BG: blue, Attrs: grid.AttrBold},
		Shadow:        Style{FG: grid.Named(grid.BrightBlack), BG: black},
		ScrollTrack:   Style{FG: cyan, BG: blue},
		ScrollThumb:   Style{FG: grid.Named(grid.BrightCyan), BG: blue},
		Number:        Style{FG: grid.Named(grid.BrightYellow), BG: black, Attrs: grid.AttrBold},

		Bar:           Style{FG: black, BG: white},
		BarAccent:     Style{FG: grid.Named(grid.Red), BG: white, Attrs: grid.AttrBold},
		TaskActive:    Style{FG: grid.Named(grid.BrightWhite), BG: cyan, Attrs: grid.AttrBold},
		TaskMinimized: Style{FG: grid.Named(grid.BrightBlack), BG: white, Attrs: grid.AttrDim},
		Dialog:        Style{FG: black, BG: white},
		DialogTitle:   Style{FG: grid.Named(grid.BrightWhite), BG: grid.Named(grid.Red), Attrs: grid.AttrBold},
		Toast:         Style{FG: black, BG: grid.Named(grid.Yellow)},
	}
}

// DefaultCharset uses double-line box drawing.
func DefaultCharset() Charset {
	return Charset{
		Desktop:     '▒',
		TopLeft:     '╔',
		TopRight:    '╗',
		BottomLeft:  '╚',
		BottomRight: '╝',
		Horizontal:  '═',
		Vertical:    '║',
		Shadow:      '░',
		Track:       '░',
		Thumb:       '█',
		Block:       '█',
	}
}
