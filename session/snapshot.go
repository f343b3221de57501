// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/snapshot.go
// Summary: Versioned on-disk representation of the desktop layout and terminal contents.
// Notes: Colours, attributes and cursor shapes are stored as stable string tags.
// Bump Version whenever a field changes meaning; older files are rejected.

package session

const (
	// Version is the only snapshot version this build reads or writes.
	Version = 1
	// MaxFileBytes caps the size of a session file.
	MaxFileBytes = 10 << 20
	// MaxLinesPerTerminal caps scrollback plus visible rows stored per window.
	MaxLinesPerTerminal = 2000
)

// Snapshot is the whole persisted desktop.
type Snapshot struct {
	Version   uint8    `json:"version"`
	NextID    uint32   `json:"next_id"`
	FocusedID *uint32  `json:"focused_id,omitempty"`
	Windows   []Window `json:"windows"`
}

// Rect is a window rectangle in screen cells.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Window is one window in z-order (back to front).
type Window struct {
	ID        uint32   `json:"id"`
	Title     string   `json:"title"`
	Command   []string `json:"command,omitempty"`
	Rect      Rect     `json:"rect"`
	PreMax    *Rect    `json:"pre_max,omitempty"`
	Minimized bool     `json:"minimized,omitempty"`
	Maximized bool     `json:"maximized,omitempty"`
	Terminal  Terminal `json:"terminal"`
}

// Terminal is the restorable emulator state of a window.
type Terminal struct {
	Cols         int    `json:"cols"`
	Rows         int    `json:"rows"`
	ScrollOffset int    `json:"scroll_offset"`
	Title        string `json:"title,omitempty"`
	Cursor       Cursor `json:"cursor"`
	Pen          Style  `json:"pen"`
	// Lines holds scrollback followed by the visible rows, oldest first.
	Lines []Line `json:"lines"`
}

// Cursor mirrors vterm.Cursor with a tagged shape.
type Cursor struct {
	Col     int    `json:"col"`
	Row     int    `json:"row"`
	Visible bool   `json:"visible"`
	Shape   string `json:"shape"`
}

// Style is a colour pair plus attribute tags. Empty colours are the default.
type Style struct {
	FG    string   `json:"fg,omitempty"`
	BG    string   `json:"bg,omitempty"`
	Attrs []string `json:"attrs,omitempty"`
}

// Run is a span of text sharing one style.
type Run struct {
	Text string `json:"text"`
	Style
}

// Line is a row encoded as style runs with trailing default blanks removed.
type Line []Run
