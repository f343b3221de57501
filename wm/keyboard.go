// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/keyboard.go
// Summary: Prefix-key keyboard mode and key routing to the focused window.
// Notes: Navigation commands keep keyboard mode active; one-shot commands
// (new, close, focus by number, copy, paste, save, quit) leave it.

package wm

import (
	"log"

	"github.com/framegrace/texelwm/input"
)

// ActionKind is a host-level effect requested by the manager.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionQuit
	ActionSave
	ActionCopy
	ActionPaste
	ActionError
)

// Action is returned from input handlers for the event loop to perform.
type Action struct {
	Kind ActionKind
	// Text is the selection for ActionCopy.
	Text string
	// Err is the failure for ActionError.
	Err error
}

// KeyboardMode reports whether the prefix key is active.
func (m *Manager) KeyboardMode() bool { return m.keyMode }

// SetKeyboardMode enters or leaves keyboard mode.
func (m *Manager) SetKeyboardMode(on bool) { m.keyMode = on }

// HandleKey routes a key press. The prefix toggles keyboard mode; pressing
// it twice sends it to the focused window.
func (m *Manager) HandleKey(ev input.KeyEvent) Action {
	if ev.Matches(m.opts.PrefixKey) {
		if m.keyMode {
			m.keyMode = false
			m.toFocused(ev)
			return Action{}
		}
		m.keyMode = true
		return Action{}
	}
	if m.keyMode {
		return m.command(ev)
	}
	m.toFocused(ev)
	return Action{}
}

func (m *Manager) toFocused(ev input.KeyEvent) {
	w := m.focused()
	if w == nil || w.sess == nil {
		return
	}
	w.term.SetViewOffset(0)
	if err := m.SendKey(w.ID, ev); err != nil {
		log.Printf("WM: window %d key: %v", w.ID, err)
	}
}

func (m *Manager) command(ev input.KeyEvent) Action {
	w := m.focused()
	id := uint32(0)
	if w != nil {
		id = w.ID
	}
	shift := ev.Mod&input.ModShift != 0

	switch ev.Code {
	case input.KeyEsc:
		m.keyMode = false
	case input.KeyTab:
		if shift {
			m.CyclePrev()
		} else {
			m.CycleNext()
		}
	case input.KeyBacktab:
		m.CyclePrev()
	case input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight:
		dx, dy := arrowDelta(ev.Code)
		if w == nil {
			break
		}
		if shift {
			m.Resize(id, EdgeBottomRight, dx, dy)
		} else {
			m.MoveTo(id, w.Rect.X+dx, w.Rect.Y+dy)
		}
	case input.KeyPgUp, input.KeyPgDn:
		if w == nil {
			break
		}
		page := max(1, w.term.Rows()-1)
		if ev.Code == input.KeyPgDn {
			page = -page
		}
		w.term.ScrollView(page)
	case input.KeyRune:
		return m.runeCommand(ev, w)
	}
	return Action{}
}

func arrowDelta(k input.Key) (int, int) {
	switch k {
	case input.KeyUp:
		return 0, -1
	case input.KeyDown:
		return 0, 1
	case input.KeyLeft:
		return -2, 0
	default:
		return 2, 0
	}
}

var halfSnaps = map[rune]SnapPosition{
	'H': SnapFullLeft, 'J': SnapFullBottom, 'K': SnapFullTop, 'L': SnapFullRight,
}

func (m *Manager) runeCommand(ev input.KeyEvent, w *managed) Action {
	r := ev.Rune
	if ev.Mod&input.ModAlt != 0 {
		if pos, ok := numpadSnaps[r]; ok && w != nil {
			m.Snap(w.ID, pos)
		}
		return Action{}
	}
	if pos, ok := halfSnaps[r]; ok {
		if w != nil {
			m.Snap(w.ID, pos)
		}
		return Action{}
	}
	if r >= '1' && r <= '9' {
		m.keyMode = false
		m.FocusNumber(int(r - '0'))
		return Action{}
	}

	switch r {
	case 'n':
		m.keyMode = false
		if _, err := m.Open("", nil); err != nil {
			return Action{Kind: ActionError, Err: err}
		}
	case 'x':
		m.keyMode = false
		if w != nil {
			m.Close(w.ID)
		}
	case 'm':
		if w != nil {
			m.ToggleMaximize(w.ID)
		}
	case 'i':
		if w != nil {
			m.Minimize(w.ID)
		}
	case 't':
		m.AutoTile(m.layout)
	case 'T':
		m.SetTiling(!m.tiling)
	case 'g':
		m.SetGaps(!m.gaps)
	case 'c':
		m.keyMode = false
		if w != nil {
			if text := w.term.SelectedText(); text != "" {
				return Action{Kind: ActionCopy, Text: text}
			}
		}
	case 'v':
		m.keyMode = false
		if w != nil {
			return Action{Kind: ActionPaste}
		}
	case 'S':
		m.keyMode = false
		return Action{Kind: ActionSave}
	case 'q':
		m.keyMode = false
		return Action{Kind: ActionQuit}
	}
	return Action{}
}
