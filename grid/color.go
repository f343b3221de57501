// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/color.go
// Summary: Tagged colour variant (default, named 16, indexed 256, 24-bit RGB).

package grid

import "fmt"

// ColorKind identifies which variant a Color holds.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota // Terminal default foreground/background
	ColorNamed                    // One of the 16 ANSI colours (0-7 normal, 8-15 bright)
	ColorIndexed                  // 256-colour palette
	ColorRGB                      // 24-bit true colour
)

// Color is a tagged colour value. Value holds the palette index for Named and
// Indexed colours; R, G, B are only meaningful for ColorRGB.
type Color struct {
	Kind    ColorKind
	Value   uint8
	R, G, B uint8
}

// Named ANSI colours.
const (
	Black uint8 = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// DefaultColor is the terminal default colour.
var DefaultColor = Color{Kind: ColorDefault}

// Named returns one of the 16 ANSI colours. Values above 15 wrap.
func Named(n uint8) Color { return Color{Kind: ColorNamed, Value: n & 0x0f} }

// Indexed returns a 256-palette colour.
func Indexed(n uint8) Color { return Color{Kind: ColorIndexed, Value: n} }

// RGB returns a true-colour value.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool { return c.Kind == ColorDefault }

func (c Color) String() string {
	switch c.Kind {
	case ColorNamed:
		return fmt.Sprintf("named(%d)", c.Value)
	case ColorIndexed:
		return fmt.Sprintf("indexed(%d)", c.Value)
	case ColorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	default:
		return "default"
	}
}
