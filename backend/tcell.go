// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: backend/tcell.go
// Summary: tcell implementation of Backend.
// Usage: b, err := backend.NewTcell(); defer b.Close()
// Notes: A goroutine pumps tcell events into a channel so PollEvent can time
// out. Mouse transitions are derived from the previous button mask.

package backend

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
)

type styleKey struct {
	fg, bg grid.Color
	attrs  grid.Attr
}

// Tcell draws on a tcell.Screen.
type Tcell struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	styles map[styleKey]tcell.Style
	last   *grid.Grid

	prevButtons tcell.ButtonMask
	inPaste     bool
	paste       strings.Builder

	closeOnce sync.Once
	closed    bool
}

// NewTcell opens the controlling terminal.
func NewTcell() (*Tcell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewTcellScreen(screen)
}

// NewTcellScreen initialises screen and takes ownership of it.
func NewTcellScreen(screen tcell.Screen) (*Tcell, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	screen.HideCursor()
	screen.EnableMouse()
	screen.EnablePaste()
	screen.Clear()

	t := &Tcell{
		screen: screen,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
		styles: make(map[styleKey]tcell.Style),
	}
	go t.pump()
	return t, nil
}

func (t *Tcell) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// Dimensions implements Backend.
func (t *Tcell) Dimensions() (int, int) { return t.screen.Size() }

// Screen exposes the wrapped screen.
func (t *Tcell) Screen() tcell.Screen { return t.screen }

// Present implements Backend. Cells equal to the previous frame are skipped.
func (t *Tcell) Present(frame *grid.Grid) error {
	if t.closed {
		return ErrClosed
	}
	full := t.last == nil || t.last.Cols() != frame.Cols() || t.last.Rows() != frame.Rows()
	if full {
		t.screen.Clear()
	}
	for y := 0; y < frame.Rows(); y++ {
		for x := 0; x < frame.Cols(); x++ {
			c := frame.Get(x, y)
			if c.IsContinuation() {
				continue
			}
			if !full && t.last.Get(x, y) == c {
				continue
			}
			glyph := c.Glyph
			if glyph < ' ' {
				glyph = ' '
			}
			t.screen.SetContent(x, y, glyph, nil, t.style(c))
		}
	}
	t.screen.Show()
	t.last = frame.Clone()
	return nil
}

func (t *Tcell) style(c grid.Cell) tcell.Style {
	key := styleKey{fg: c.FG, bg: c.BG, attrs: c.Attrs}
	if st, ok := t.styles[key]; ok {
		return st
	}
	fg, bg := tcellColor(c.FG), tcellColor(c.BG)
	if c.Attrs&grid.AttrHidden != 0 {
		fg = bg
	}
	st := tcell.StyleDefault.Foreground(fg).Background(bg).
		Bold(c.Attrs&grid.AttrBold != 0).
		Dim(c.Attrs&grid.AttrDim != 0).
		Italic(c.Attrs&grid.AttrItalic != 0).
		Underline(c.Attrs&grid.AttrUnderline != 0).
		Blink(c.Attrs&grid.AttrBlink != 0).
		Reverse(c.Attrs&grid.AttrReverse != 0).
		StrikeThrough(c.Attrs&grid.AttrStrikethrough != 0)
	t.styles[key] = st
	return st
}

func tcellColor(c grid.Color) tcell.Color {
	switch c.Kind {
	case grid.ColorNamed, grid.ColorIndexed:
		return tcell.PaletteColor(int(c.Value))
	case grid.ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorReset
	}
}

// PollEvent implements Backend.
func (t *Tcell) PollEvent(timeout time.Duration) (input.Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev := <-t.events:
			if out, ok := t.translate(ev); ok {
				return out, true
			}
		case <-timer.C:
			return input.Event{}, false
		}
	}
}

func (t *Tcell) translate(ev tcell.Event) (input.Event, bool) {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		t.last = nil
		cols, rows := tev.Size()
		return input.Event{Kind: input.EventResize, Cols: cols, Rows: rows}, true
	case *tcell.EventPaste:
		if tev.Start() {
			t.inPaste = true
			t.paste.Reset()
			return input.Event{}, false
		}
		t.inPaste = false
		text := t.paste.String()
		t.paste.Reset()
		return input.Event{Kind: input.EventPaste, Text: text}, text != ""
	case *tcell.EventKey:
		if t.inPaste {
			switch {
			case tev.Key() == tcell.KeyRune:
				t.paste.WriteRune(tev.Rune())
			case tev.Key() == tcell.KeyEnter || tev.Key() == tcell.KeyLF:
				t.paste.WriteByte('\n')
			case tev.Key() == tcell.KeyTab:
				t.paste.WriteByte('\t')
			}
			return input.Event{}, false
		}
		key, ok := translateKey(tev)
		return input.Event{Kind: input.EventKey, Key: key}, ok
	case *tcell.EventMouse:
		return input.Event{Kind: input.EventMouse, Mouse: t.translateMouse(tev)}, true
	}
	return input.Event{}, false
}

var namedKeys = map[tcell.Key]input.Key{
	tcell.KeyEnter: input.KeyEnter, tcell.KeyLF: input.KeyEnter,
	tcell.KeyTab: input.KeyTab, tcell.KeyBacktab: input.KeyBacktab,
	tcell.KeyBackspace: input.KeyBackspace, tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyEscape: input.KeyEsc,
	tcell.KeyUp: input.KeyUp, tcell.KeyDown: input.KeyDown,
	tcell.KeyLeft: input.KeyLeft, tcell.KeyRight: input.KeyRight,
	tcell.KeyHome: input.KeyHome, tcell.KeyEnd: input.KeyEnd,
	tcell.KeyInsert: input.KeyInsert, tcell.KeyDelete: input.KeyDelete,
	tcell.KeyPgUp: input.KeyPgUp, tcell.KeyPgDn: input.KeyPgDn,
	tcell.KeyF1: input.KeyF1, tcell.KeyF2: input.KeyF2, tcell.KeyF3: input.KeyF3,
	tcell.KeyF4: input.KeyF4, tcell.KeyF5: input.KeyF5, tcell.KeyF6: input.KeyF6,
	tcell.KeyF7: input.KeyF7, tcell.KeyF8: input.KeyF8, tcell.KeyF9: input.KeyF9,
	tcell.KeyF10: input.KeyF10, tcell.KeyF11: input.KeyF11, tcell.KeyF12: input.KeyF12,
}

func translateMods(m tcell.ModMask) input.Mod {
	var out input.Mod
	if m&tcell.ModShift != 0 {
		out |= input.ModShift
	}
	if m&tcell.ModAlt != 0 {
		out |= input.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		out |= input.ModCtrl
	}
	if m&tcell.ModMeta != 0 {
		out |= input.ModMeta
	}
	return out
}

func translateKey(ev *tcell.EventKey) (input.KeyEvent, bool) {
	mod := translateMods(ev.Modifiers())
	k := ev.Key()
	if code, ok := namedKeys[k]; ok {
		return input.KeyEvent{Code: code, Mod: mod}, true
	}
	switch {
	case k == tcell.KeyRune:
		return input.KeyEvent{Code: input.KeyRune, Rune: ev.Rune(), Mod: mod}, true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return input.KeyEvent{Code: input.KeyRune, Rune: rune('a' + k - tcell.KeyCtrlA), Mod: mod | input.ModCtrl}, true
	case k == tcell.KeyCtrlSpace:
		return input.KeyEvent{Code: input.KeyRune, Rune: ' ', Mod: mod | input.ModCtrl}, true
	case k >= tcell.KeyCtrlLeftSq && k <= tcell.KeyCtrlUnderscore:
		return input.KeyEvent{Code: input.KeyRune, Rune: rune('[' + k - tcell.KeyCtrlLeftSq), Mod: mod | input.ModCtrl}, true
	}
	log.Printf("Backend: unmapped key %v", k)
	return input.KeyEvent{}, false
}

func (t *Tcell) translateMouse(ev *tcell.EventMouse) input.MouseEvent {
	x, y := ev.Position()
	buttons := ev.Buttons()
	prev := t.prevButtons
	out := input.MouseEvent{Col: x, Row: y, Mod: translateMods(ev.Modifiers()), When: ev.When()}

	switch {
	case buttons&tcell.WheelUp != 0:
		out.Kind = input.MouseScrollUp
		return out
	case buttons&tcell.WheelDown != 0:
		out.Kind = input.MouseScrollDown
		return out
	}
	buttons &= tcell.Button1 | tcell.Button2 | tcell.Button3
	t.prevButtons = buttons

	pressed := buttons &^ prev
	switch {
	case pressed&tcell.Button1 != 0:
		out.Kind, out.Button = input.MouseDown, input.ButtonLeft
	case pressed&tcell.Button3 != 0:
		out.Kind, out.Button = input.MouseDown, input.ButtonMiddle
	case pressed&tcell.Button2 != 0:
		out.Kind, out.Button = input.MouseDown, input.ButtonRight
	case buttons != 0:
		out.Kind, out.Button = input.MouseDrag, buttonOf(buttons)
	case prev != 0:
		out.Kind, out.Button = input.MouseUp, buttonOf(prev)
	default:
		out.Kind = input.MouseMove
	}
	return out
}

func buttonOf(mask tcell.ButtonMask) input.Button {
	switch {
	case mask&tcell.Button1 != 0:
		return input.ButtonLeft
	case mask&tcell.Button3 != 0:
		return input.ButtonMiddle
	case mask&tcell.Button2 != 0:
		return input.ButtonRight
	}
	return input.ButtonNone
}

// Close restores the terminal.
func (t *Tcell) Close() error {
	t.closeOnce.Do(func() {
		t.closed = true
		close(t.quit)
		t.screen.DisableMouse()
		t.screen.DisablePaste()
		t.screen.Fini()
	})
	return nil
}
