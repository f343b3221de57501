// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/event.go
// Summary: Backend-neutral host input events (keys, mouse, resize, paste).
// Usage: Produced by backend implementations, consumed by wm and desktop.

package input

import (
	"strings"
	"time"
)

// Key identifies a non-printable key; printable input uses KeyRune.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyEsc
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPgUp
	KeyPgDn
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyEnter: "Enter", KeyTab: "Tab", KeyBacktab: "Backtab", KeyBackspace: "Backspace",
	KeyEsc: "Esc", KeyUp: "Up", KeyDown: "Down", KeyLeft: "Left", KeyRight: "Right",
	KeyHome: "Home", KeyEnd: "End", KeyInsert: "Insert", KeyDelete: "Delete",
	KeyPgUp: "PgUp", KeyPgDn: "PgDn",
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
}

// Mod is a modifier set.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
)

// KeyEvent is a single key press.
type KeyEvent struct {
	Code Key
	Rune rune
	Mod  Mod
}

// Matches reports whether both events describe the same chord. Letter case
// is ignored for Ctrl chords.
func (k KeyEvent) Matches(o KeyEvent) bool {
	if k.Code != o.Code {
		return false
	}
	if k.Code != KeyRune {
		return k.Mod == o.Mod
	}
	if k.Mod&^ModShift != o.Mod&^ModShift {
		return false
	}
	if k.Mod&ModCtrl != 0 {
		return toLower(k.Rune) == toLower(o.Rune)
	}
	return k.Rune == o.Rune
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

func (k KeyEvent) String() string {
	var parts []string
	if k.Mod&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Mod&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if k.Mod&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if k.Mod&ModMeta != 0 {
		parts = append(parts, "Meta")
	}
	if k.Code == KeyRune {
		parts = append(parts, string(k.Rune))
	} else {
		parts = append(parts, keyNames[k.Code])
	}
	return strings.Join(parts, "+")
}

// MouseKind is the mouse action.
type MouseKind int

const (
	MouseDown MouseKind = iota
	MouseUp
	MouseDrag
	MouseMove
	MouseScrollUp
	MouseScrollDown
)

// Button is a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// MouseEvent is a mouse action at a screen cell.
type MouseEvent struct {
	Kind     MouseKind
	Button   Button
	Col, Row int
	Mod      Mod
	When     time.Time
}

// EventKind discriminates Event.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouse
	EventResize
	EventPaste
)

// Event is a host input event. Only the field matching Kind is meaningful.
type Event struct {
	Kind  EventKind
	Key   KeyEvent
	Mouse MouseEvent
	// Cols and Rows carry the new host size for EventResize.
	Cols, Rows int
	// Text carries pasted text for EventPaste.
	Text string
}
