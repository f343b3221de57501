// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/clipboard/clipboard.go
// Summary: Clipboard collaborator backed by the system clipboard.
// Notes: The system clipboard needs xclip/xsel/wl-clipboard on Linux; when
// none is present every call fails with ErrUnavailable.

package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable reports that no clipboard tool is installed.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard copies and pastes plain text.
type Clipboard interface {
	Copy(text string) error
	Paste() (string, error)
}

// System uses the host clipboard.
type System struct{}

// Copy implements Clipboard.
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Paste implements Clipboard.
func (System) Paste() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return text, nil
}

// Memory is a process-local clipboard, used when the system one is missing
// and in tests.
type Memory struct {
	mu   sync.Mutex
	text string
	set  bool
}

// Copy implements Clipboard.
func (m *Memory) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text, m.set = text, true
	return nil
}

// Paste implements Clipboard. An empty clipboard returns ("", nil).
func (m *Memory) Paste() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Fallback tries Primary first and keeps a Memory copy so pastes still work
// inside the desktop when the system clipboard is missing.
type Fallback struct {
	Primary Clipboard
	local   Memory
}

// Copy implements Clipboard. The returned error still reports Primary's
// failure so the caller can tell the user.
func (f *Fallback) Copy(text string) error {
	_ = f.local.Copy(text)
	if f.Primary == nil {
		return ErrUnavailable
	}
	return f.Primary.Copy(text)
}

// Paste implements Clipboard.
func (f *Fallback) Paste() (string, error) {
	if f.Primary != nil {
		if text, err := f.Primary.Paste(); err == nil {
			return text, nil
		}
	}
	f.local.mu.Lock()
	set := f.local.set
	f.local.mu.Unlock()
	if !set {
		return "", ErrUnavailable
	}
	return f.local.Paste()
}
