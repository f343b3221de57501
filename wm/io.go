// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/io.go
// Summary: PTY draining, key/paste delivery and scrollback history flushing.

package wm

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/framegrace/texelwm/history"
	"github.com/framegrace/texelwm/input"
	"github.com/framegrace/texelwm/ptysession"
)

// ErrNoHistory is returned by SearchScrollback when no index is configured.
var ErrNoHistory = errors.New("wm: scrollback history disabled")

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// Tick drains every live session once and feeds its emulator. It reports
// whether anything visible changed.
func (m *Manager) Tick() bool {
	changed := false
	var ended []*managed
	for _, w := range m.stack {
		if w.sess == nil {
			continue
		}
		data, err := w.sess.Drain(ptysession.DefaultDrainMax)
		if len(data) > 0 {
			w.term.Feed(data)
			changed = true
		}
		switch {
		case errors.Is(err, io.EOF):
			ended = append(ended, w)
		case err != nil:
			log.Printf("WM: window %d drain: %v", w.ID, err)
			ended = append(ended, w)
		case w.writeErr != nil:
			log.Printf("WM: window %d write: %v", w.ID, w.writeErr)
			ended = append(ended, w)
		}
	}
	m.flushHistory()
	for _, w := range ended {
		m.sessionEnded(w)
		changed = true
	}
	return changed
}

func (m *Manager) sessionEnded(w *managed) {
	log.Printf("WM: window %d session ended", w.ID)
	if m.opts.CloseOnExit {
		m.Close(w.ID)
		return
	}
	w.sess.Reap()
	w.sess = nil
	w.Exited = true
}

func (m *Manager) flushHistory() {
	if m.opts.History == nil {
		return
	}
	for _, w := range m.stack {
		if len(w.scrolled) == 0 {
			continue
		}
		if err := m.opts.History.Append(w.ID, w.scrolled); err != nil {
			log.Printf("WM: %v", err)
		}
		w.scrolled = nil
	}
}

// SearchScrollback searches the lines that scrolled off a window.
func (m *Manager) SearchScrollback(id uint32, query string, limit int) ([]history.Match, error) {
	if m.opts.History == nil {
		return nil, ErrNoHistory
	}
	m.flushHistory()
	return m.opts.History.Search(id, query, limit)
}

func (m *Manager) writable(id uint32) (*managed, error) {
	w := m.find(id)
	if w == nil {
		return nil, ErrUnknownWindow
	}
	if w.sess == nil {
		return nil, ptysession.ErrClosed
	}
	return w, nil
}

// SendKey encodes a key for the window's current cursor-key mode and writes it.
func (m *Manager) SendKey(id uint32, ev input.KeyEvent) error {
	w, err := m.writable(id)
	if err != nil {
		return err
	}
	data := input.EncodeKey(ev, w.term.AppCursorKeys())
	if len(data) == 0 {
		return nil
	}
	return w.send(data)
}

// SendPaste writes text with newlines mapped to CR. When the guest enabled
// bracketed paste the text is wrapped and embedded end markers are removed.
func (m *Manager) SendPaste(id uint32, text string) error {
	w, err := m.writable(id)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\r")
	text = strings.ReplaceAll(text, "\n", "\r")
	if m.opts.BracketedPaste && w.term.BracketedPaste() {
		text = pasteStart + strings.ReplaceAll(text, pasteEnd, "") + pasteEnd
	}
	w.term.SetViewOffset(0)
	return w.send([]byte(text))
}
