// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/vterm_sgr.go
// Summary: SGR (Select Graphic Rendition) - text attributes and colors.

package vterm

import "github.com/framegrace/texelwm/grid"

var sgrOn = map[int]grid.Attr{
	1: grid.AttrBold,
	2: grid.AttrDim,
	3: grid.AttrItalic,
	4: grid.AttrUnderline,
	5: grid.AttrBlink,
	7: grid.AttrReverse,
	8: grid.AttrHidden,
	9: grid.AttrStrikethrough,
}

var sgrOff = map[int]grid.Attr{
	22: grid.AttrBold | grid.AttrDim,
	23: grid.AttrItalic,
	24: grid.AttrUnderline,
	25: grid.AttrBlink,
	27: grid.AttrReverse,
	28: grid.AttrHidden,
	29: grid.AttrStrikethrough,
}

// handleSGR updates the pen. Unknown parameters are skipped.
func (v *VTerm) handleSGR(params []int) {
	if len(params) == 0 {
		v.pen = Pen{}
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		if a, ok := sgrOn[p]; ok {
			v.pen.Attrs |= a
			continue
		}
		if a, ok := sgrOff[p]; ok {
			v.pen.Attrs &^= a
			continue
		}
		switch {
		case p == 0:
			v.pen = Pen{}
		case p >= 30 && p <= 37:
			v.pen.FG = grid.Named(uint8(p - 30))
		case p == 39:
			v.pen.FG = grid.DefaultColor
		case p >= 40 && p <= 47:
			v.pen.BG = grid.Named(uint8(p - 40))
		case p == 49:
			v.pen.BG = grid.DefaultColor
		case p >= 90 && p <= 97:
			v.pen.FG = grid.Named(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			v.pen.BG = grid.Named(uint8(p - 100 + 8))
		case p == 38, p == 48:
			c, used, ok := extendedColor(params[i+1:])
			i += used
			if !ok {
				continue
			}
			if p == 38 {
				v.pen.FG = c
			} else {
				v.pen.BG = c
			}
		}
	}
}

// extendedColor parses the arguments following 38/48 and returns how many
// parameters were consumed.
func extendedColor(args []int) (grid.Color, int, bool) {
	if len(args) == 0 {
		return grid.Color{}, 0, false
	}
	switch args[0] {
	case 5:
		if len(args) < 2 {
			return grid.Color{}, len(args), false
		}
		return grid.Indexed(clampByte(args[1])), 2, true
	case 2:
		if len(args) < 4 {
			return grid.Color{}, len(args), false
		}
		return grid.RGB(clampByte(args[1]), clampByte(args[2]), clampByte(args[3])), 4, true
	}
	return grid.Color{}, 1, false
}

func clampByte(n int) uint8 {
	return uint8(max(0, min(n, 255)))
}
