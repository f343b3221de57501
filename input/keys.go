// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/keys.go
// Summary: Key event to xterm byte sequence encoding and key chord parsing.
// Notes: Application cursor mode switches arrows, Home and End to SS3.

package input

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// cursorFinal maps keys that use the CSI/SS3 cursor form.
var cursorFinal = map[Key]byte{
	KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D', KeyHome: 'H', KeyEnd: 'F',
	KeyF1: 'P', KeyF2: 'Q', KeyF3: 'R', KeyF4: 'S',
}

// tildeCode maps keys that use the CSI n ~ form.
var tildeCode = map[Key]int{
	KeyInsert: 2, KeyDelete: 3, KeyPgUp: 5, KeyPgDn: 6,
	KeyF5: 15, KeyF6: 17, KeyF7: 18, KeyF8: 19, KeyF9: 20, KeyF10: 21, KeyF11: 23, KeyF12: 24,
}

// modParam is the xterm modifier parameter, or 0 when no modifier is held.
func modParam(m Mod) int {
	n := 0
	if m&ModShift != 0 {
		n |= 1
	}
	if m&(ModAlt|ModMeta) != 0 {
		n |= 2
	}
	if m&ModCtrl != 0 {
		n |= 4
	}
	if n == 0 {
		return 0
	}
	return n + 1
}

// EncodeKey returns the bytes a terminal sends for ev.
func EncodeKey(ev KeyEvent, appCursor bool) []byte {
	if final, ok := cursorFinal[ev.Code]; ok {
		m := modParam(ev.Mod)
		switch {
		case m != 0:
			return []byte(fmt.Sprintf("\x1b[1;%d%c", m, final))
		case appCursor || ev.Code >= KeyF1:
			return []byte{0x1b, 'O', final}
		default:
			return []byte{0x1b, '[', final}
		}
	}
	if code, ok := tildeCode[ev.Code]; ok {
		if m := modParam(ev.Mod); m != 0 {
			return []byte(fmt.Sprintf("\x1b[%d;%d~", code, m))
		}
		return []byte(fmt.Sprintf("\x1b[%d~", code))
	}

	var out []byte
	switch ev.Code {
	case KeyEnter:
		out = []byte{'\r'}
	case KeyTab:
		if ev.Mod&ModShift != 0 {
			return []byte("\x1b[Z")
		}
		out = []byte{'\t'}
	case KeyBacktab:
		return []byte("\x1b[Z")
	case KeyBackspace:
		if ev.Mod&ModCtrl != 0 {
			out = []byte{0x08}
		} else {
			out = []byte{0x7f}
		}
	case KeyEsc:
		out = []byte{0x1b}
	case KeyRune:
		out = encodeRune(ev)
	default:
		return nil
	}
	if ev.Mod&(ModAlt|ModMeta) != 0 && len(out) > 0 {
		out = append([]byte{0x1b}, out...)
	}
	return out
}

func encodeRune(ev KeyEvent) []byte {
	r := ev.Rune
	if ev.Mod&ModCtrl != 0 {
		switch {
		case r >= 'a' && r <= 'z':
			return []byte{byte(r - 'a' + 1)}
		case r >= 'A' && r <= 'Z':
			return []byte{byte(r - 'A' + 1)}
		case r == '@' || r == ' ' || r == '2':
			return []byte{0}
		case r >= '[' && r <= '_':
			return []byte{byte(r - '[' + 0x1b)}
		case r == '?':
			return []byte{0x7f}
		}
	}
	if r == 0 || !utf8.ValidRune(r) {
		return nil
	}
	return []byte(string(r))
}

var namedKeys = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[strings.ToLower(name)] = k
	}
	m["escape"] = KeyEsc
	m["return"] = KeyEnter
	m["pageup"] = KeyPgUp
	m["pagedown"] = KeyPgDn
	return m
}()

// ParseKey parses chords such as "Ctrl+B", "Alt+Shift+Left" or "F12".
func ParseKey(chord string) (KeyEvent, error) {
	parts := strings.Split(strings.TrimSpace(chord), "+")
	var ev KeyEvent
	for i, part := range parts {
		p := strings.ToLower(strings.TrimSpace(part))
		if i < len(parts)-1 {
			switch p {
			case "ctrl", "control", "c":
				ev.Mod |= ModCtrl
			case "alt", "a", "m":
				ev.Mod |= ModAlt
			case "shift", "s":
				ev.Mod |= ModShift
			case "meta", "super":
				ev.Mod |= ModMeta
			default:
				return KeyEvent{}, fmt.Errorf("parse key %q: unknown modifier %q", chord, part)
			}
			continue
		}
		if p == "space" {
			ev.Code, ev.Rune = KeyRune, ' '
			break
		}
		if k, ok := namedKeys[p]; ok {
			ev.Code = k
			break
		}
		if utf8.RuneCountInString(part) == 1 {
			r, _ := utf8.DecodeRuneInString(part)
			ev.Code, ev.Rune = KeyRune, r
			break
		}
		return KeyEvent{}, fmt.Errorf("parse key %q: unknown key %q", chord, part)
	}
	return ev, nil
}
