// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/vterm.go
// Summary: VT100/xterm emulator state: screens, cursor, pen, modes and callbacks.
// Usage: v := vterm.New(80, 24, vterm.WithPtyWriter(sess.Write)); v.Feed(data)
// Notes: Every operation is total. The cursor is kept inside the grid after
// each step; scrollback only collects rows leaving the primary screen.

package vterm

import (
	"log"

	"github.com/framegrace/texelwm/ansi"
	"github.com/framegrace/texelwm/grid"
	"github.com/mattn/go-runewidth"
)

const defaultScrollback = 2000

// CursorShape is the DECSCUSR cursor style.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

var cursorShapeNames = [...]string{"block", "underline", "bar"}

func (s CursorShape) String() string {
	if s < 0 || int(s) >= len(cursorShapeNames) {
		return "block"
	}
	return cursorShapeNames[s]
}

// ParseCursorShape maps a stable tag back to a shape.
func ParseCursorShape(name string) (CursorShape, bool) {
	for i, n := range cursorShapeNames {
		if n == name {
			return CursorShape(i), true
		}
	}
	return CursorBlock, false
}

// Cursor is the emulator cursor.
type Cursor struct {
	Col, Row int
	Visible  bool
	Shape    CursorShape
}

// Pen is the SGR accumulator applied to printed cells.
type Pen struct {
	FG, BG grid.Color
	Attrs  grid.Attr
}

func (p Pen) cell(r rune) grid.Cell {
	return grid.Cell{Glyph: r, FG: p.FG, BG: p.BG, Attrs: p.Attrs}
}

type savedCursor struct {
	valid       bool
	col, row    int
	pen         Pen
	origin      bool
	wrapPending bool
}

// Option configures a VTerm.
type Option func(*VTerm)

// WithPtyWriter sets the callback used for terminal responses (DSR, DA).
func WithPtyWriter(w func([]byte)) Option { return func(v *VTerm) { v.writeToPty = w } }

// WithTitleChangeHandler is invoked when the guest sets the title via OSC 0/2.
func WithTitleChangeHandler(h func(string)) Option { return func(v *VTerm) { v.titleChanged = h } }

// WithBellHandler is invoked on BEL.
func WithBellHandler(h func()) Option { return func(v *VTerm) { v.bell = h } }

// WithScrollbackHandler receives each row as it enters scrollback.
func WithScrollbackHandler(h func([]grid.Cell)) Option {
	return func(v *VTerm) { v.scrolledOff = h }
}

// WithScrollbackSize caps the scrollback ring. Zero disables scrollback.
func WithScrollbackSize(n int) Option {
	return func(v *VTerm) { v.scrollback = NewScrollback(n) }
}

// WithDebugLog logs unhandled sequences.
func WithDebugLog(enabled bool) Option { return func(v *VTerm) { v.debug = enabled } }

// VTerm is a terminal emulator bound to one PTY stream.
type VTerm struct {
	cols, rows int
	primary    *grid.Grid
	alt        *grid.Grid
	altActive  bool
	scrollback *Scrollback

	cursor      Cursor
	wrapPending bool
	pen         Pen
	top, bottom int
	tabStops    []bool
	saved       savedCursor
	savedAlt    savedCursor // cursor saved by ?1049h

	wrapMode       bool
	originMode     bool
	appCursorKeys  bool
	appKeypad      bool
	insertMode     bool
	bracketedPaste bool

	title       string
	lastGraphic rune
	viewOffset  int
	selection   *Selection

	parser *ansi.Parser
	debug  bool

	writeToPty   func([]byte)
	titleChanged func(string)
	bell         func()
	scrolledOff  func([]grid.Cell)
}

// New creates an emulator of the given size. Sizes below 1 are raised to 1.
func New(cols, rows int, opts ...Option) *VTerm {
	cols, rows = max(cols, 1), max(rows, 1)
	v := &VTerm{
		cols:       cols,
		rows:       rows,
		primary:    grid.New(cols, rows),
		alt:        grid.New(cols, rows),
		scrollback: NewScrollback(defaultScrollback),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.parser = ansi.NewParser(v)
	v.resetState()
	return v
}

func (v *VTerm) resetState() {
	v.cursor = Cursor{Visible: true}
	v.wrapPending = false
	v.pen = Pen{}
	v.top, v.bottom = 0, v.rows-1
	v.saved = savedCursor{}
	v.savedAlt = savedCursor{}
	v.wrapMode = true
	v.originMode = false
	v.appCursorKeys = false
	v.appKeypad = false
	v.insertMode = false
	v.bracketedPaste = false
	v.lastGraphic = 0
	v.resetTabStops()
}

func (v *VTerm) resetTabStops() {
	v.tabStops = make([]bool, v.cols)
	for i := 0; i < v.cols; i += 8 {
		v.tabStops[i] = true
	}
}

// Feed runs PTY output through the parser. Any output snaps the viewport
// back to the live screen.
func (v *VTerm) Feed(data []byte) {
	if len(data) == 0 {
		return
	}
	v.viewOffset = 0
	v.parser.Feed(data)
}

// ParserState exposes the parser state for diagnostics.
func (v *VTerm) ParserState() ansi.State { return v.parser.State() }

func (v *VTerm) Cols() int                 { return v.cols }
func (v *VTerm) Rows() int                 { return v.rows }
func (v *VTerm) Cursor() Cursor            { return v.cursor }
func (v *VTerm) Pen() Pen                  { return v.pen }
func (v *VTerm) Title() string             { return v.title }
func (v *VTerm) AltScreen() bool           { return v.altActive }
func (v *VTerm) AppCursorKeys() bool       { return v.appCursorKeys }
func (v *VTerm) AppKeypad() bool           { return v.appKeypad }
func (v *VTerm) BracketedPaste() bool      { return v.bracketedPaste }
func (v *VTerm) WrapMode() bool            { return v.wrapMode }
func (v *VTerm) OriginMode() bool          { return v.originMode }
func (v *VTerm) InsertMode() bool          { return v.insertMode }
func (v *VTerm) ScrollMargins() (int, int) { return v.top, v.bottom }
func (v *VTerm) Scrollback() *Scrollback   { return v.scrollback }

// Screen returns the active grid.
func (v *VTerm) Screen() *grid.Grid {
	if v.altActive {
		return v.alt
	}
	return v.primary
}

// Primary returns the primary grid regardless of which screen is active.
func (v *VTerm) Primary() *grid.Grid { return v.primary }

// SetTitle sets the title and notifies the title handler.
func (v *VTerm) SetTitle(title string) {
	v.title = title
	if v.titleChanged != nil {
		v.titleChanged(title)
	}
}

func (v *VTerm) respond(s string) {
	if v.writeToPty != nil {
		v.writeToPty([]byte(s))
	}
}

func (v *VTerm) debugf(format string, args ...interface{}) {
	if v.debug {
		log.Printf("VTerm: "+format, args...)
	}
}

// --- ansi.Handler ---

// Print places a glyph at the cursor with deferred wrap.
func (v *VTerm) Print(r rune) {
	width := runewidth.RuneWidth(r)
	if width == 0 {
		return
	}
	if width > 2 {
		width = 2
	}
	if width == 2 && v.cols < 2 {
		return
	}
	if v.wrapPending {
		if v.wrapMode {
			v.cursor.Col = 0
			v.lineFeed()
		}
		v.wrapPending = false
	}
	if width == 2 && v.cursor.Col == v.cols-1 {
		if v.wrapMode {
			v.Screen().Set(v.cursor.Col, v.cursor.Row, grid.Blank(v.pen.BG))
			v.cursor.Col = 0
			v.lineFeed()
		} else {
			v.cursor.Col = v.cols - 2
		}
	}

	scr := v.Screen()
	col, row := v.cursor.Col, v.cursor.Row
	if v.insertMode {
		scr.InsertChars(col, row, width, v.pen.BG)
	}
	v.breakWide(col, row)
	if width == 2 {
		v.breakWide(col+1, row)
	}
	scr.Set(col, row, v.pen.cell(r))
	if width == 2 {
		scr.Set(col+1, row, v.pen.cell(0))
	}
	v.lastGraphic = r

	next := col + width
	if next >= v.cols {
		v.cursor.Col = v.cols - 1
		v.wrapPending = v.wrapMode
		return
	}
	v.cursor.Col = next
}

// breakWide blanks the other half of a wide glyph about to be overwritten at (col,row).
func (v *VTerm) breakWide(col, row int) {
	scr := v.Screen()
	c := scr.Get(col, row)
	if c.IsContinuation() && col > 0 {
		scr.Set(col-1, row, grid.Blank(c.BG))
		return
	}
	if next := scr.Get(col+1, row); col+1 < v.cols && next.IsContinuation() {
		scr.Set(col+1, row, grid.Blank(next.BG))
	}
}

// Execute handles C0 controls.
func (v *VTerm) Execute(b byte) {
	switch b {
	case '\b':
		v.wrapPending = false
		if v.cursor.Col > 0 {
			v.cursor.Col--
		}
	case '\t':
		v.tabForward(1)
	case '\n', '\v', '\f':
		v.lineFeed()
	case '\r':
		v.carriageReturn()
	case 0x07:
		if v.bell != nil {
			v.bell()
		}
	}
}

// OSCDispatch handles operating system commands. Only the title is honoured.
func (v *VTerm) OSCDispatch(params []string) {
	if len(params) < 2 {
		return
	}
	switch params[0] {
	case "0", "2":
		title := params[1]
		for _, p := range params[2:] {
			title += ";" + p
		}
		v.SetTitle(title)
	default:
		v.debugf("ignored OSC %s", params[0])
	}
}

// ESCDispatch handles two-byte escape sequences.
func (v *VTerm) ESCDispatch(final byte, intermediates []byte) {
	if len(intermediates) > 0 {
		if intermediates[0] == '#' && final == '8' {
			v.alignmentTest()
		}
		// Charset designations are consumed.
		return
	}
	switch final {
	case '7':
		v.saveCursor()
	case '8':
		v.restoreCursor()
	case 'D':
		v.lineFeed()
	case 'E':
		v.carriageReturn()
		v.lineFeed()
	case 'M':
		v.reverseIndex()
	case 'H':
		if v.cursor.Col < len(v.tabStops) {
			v.tabStops[v.cursor.Col] = true
		}
	case 'c':
		v.Reset()
	case '=':
		v.appKeypad = true
	case '>':
		v.appKeypad = false
	case '\\':
		// String terminator.
	default:
		v.debugf("unhandled ESC %q", final)
	}
}

// --- movement and scrolling ---

func (v *VTerm) carriageReturn() {
	v.cursor.Col = 0
	v.wrapPending = false
}

func (v *VTerm) lineFeed() {
	v.wrapPending = false
	switch {
	case v.cursor.Row == v.bottom:
		v.scrollUp(1)
	case v.cursor.Row < v.rows-1:
		v.cursor.Row++
	}
}

func (v *VTerm) reverseIndex() {
	v.wrapPending = false
	switch {
	case v.cursor.Row == v.top:
		v.scrollDown(1)
	case v.cursor.Row > 0:
		v.cursor.Row--
	}
}

// scrollUp scrolls the margin region. Rows leaving a full-screen region of
// the primary grid are pushed to scrollback.
func (v *VTerm) scrollUp(n int) {
	out := v.Screen().ScrollUp(v.top, v.bottom, n, v.pen.BG)
	if v.altActive || v.top != 0 || v.bottom != v.rows-1 {
		return
	}
	for _, row := range out {
		v.pushScrollback(row)
	}
}

func (v *VTerm) scrollDown(n int) {
	v.Screen().ScrollDown(v.top, v.bottom, n, v.pen.BG)
}

func (v *VTerm) pushScrollback(row []grid.Cell) {
	if v.scrollback.Cap() == 0 {
		return
	}
	v.scrollback.Push(row)
	if v.scrolledOff != nil {
		v.scrolledOff(row)
	}
	if v.selection != nil {
		v.shiftSelection(-1)
	}
}

func (v *VTerm) tabForward(n int) {
	v.wrapPending = false
	for ; n > 0; n-- {
		col := v.cursor.Col + 1
		for col < v.cols-1 && !v.tabStops[col] {
			col++
		}
		v.cursor.Col = min(col, v.cols-1)
	}
}

func (v *VTerm) tabBackward(n int) {
	v.wrapPending = false
	for ; n > 0; n-- {
		col := v.cursor.Col - 1
		for col > 0 && !v.tabStops[col] {
			col--
		}
		v.cursor.Col = max(col, 0)
	}
}

func (v *VTerm) clampCursor() {
	v.cursor.Col = max(0, min(v.cursor.Col, v.cols-1))
	v.cursor.Row = max(0, min(v.cursor.Row, v.rows-1))
}

// alignmentTest fills the screen with 'E' (DECALN).
func (v *VTerm) alignmentTest() {
	v.Screen().Fill(0, 0, v.cols-1, v.rows-1, grid.Cell{Glyph: 'E'})
	v.top, v.bottom = 0, v.rows-1
	v.cursor.Col, v.cursor.Row = 0, 0
	v.wrapPending = false
}

// Resize changes both screens. No reflow is performed. When rows shrink
// below the cursor, the primary screen scrolls so the cursor row stays
// visible; rows pushed off the top go to scrollback.
func (v *VTerm) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == v.cols && rows == v.rows {
		return
	}

	anchor := v.cursor.Row
	if v.altActive {
		anchor = 0
		if v.savedAlt.valid {
			anchor = v.savedAlt.row
		}
	}
	if shift := anchor - rows + 1; shift > 0 {
		for _, row := range v.primary.ScrollUp(0, v.primary.Rows()-1, shift, grid.DefaultColor) {
			v.pushScrollback(row)
		}
		if v.altActive {
			v.savedAlt.row -= shift
		} else {
			v.cursor.Row -= shift
		}
	}
	v.primary.Resize(cols, rows)
	v.alt.Resize(cols, rows)

	v.cols, v.rows = cols, rows
	v.top, v.bottom = 0, rows-1
	v.wrapPending = false
	v.clampCursor()
	v.savedAlt.col = max(0, min(v.savedAlt.col, cols-1))
	v.savedAlt.row = max(0, min(v.savedAlt.row, rows-1))
	v.saved.col = max(0, min(v.saved.col, cols-1))
	v.saved.row = max(0, min(v.saved.row, rows-1))

	old := v.tabStops
	v.resetTabStops()
	copy(v.tabStops, old)

	v.selection = nil
	v.viewOffset = min(v.viewOffset, v.maxViewOffset())
}

// Reset performs RIS. Scrollback is kept.
func (v *VTerm) Reset() {
	v.primary.Clear(grid.DefaultColor)
	v.alt.Clear(grid.DefaultColor)
	v.altActive = false
	v.selection = nil
	v.viewOffset = 0
	v.resetState()
}
