// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/manager.go
// Summary: Window stack, focus policy and geometry operations.
// Usage: m := wm.NewManager(workspace, wm.DefaultOptions()); id, err := m.Open("shell", nil)
// Notes: The stack is ordered back to front. At most one window is focused
// and a focused window is always on top. Unknown ids are ignored.

package wm

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"slices"
	"time"

	"github.com/framegrace/texelwm/compositor"
	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/history"
	"github.com/framegrace/texelwm/input"
	"github.com/framegrace/texelwm/ptysession"
	"github.com/framegrace/texelwm/vterm"
)

// ErrUnknownWindow is returned for operations on ids the manager does not own.
var ErrUnknownWindow = errors.New("wm: unknown window")

// Options configure a Manager.
type Options struct {
	// Shell is the command for windows created without an explicit one.
	Shell   ptysession.Command
	Spawner Spawner
	// Scrollback is the per-window history size in rows.
	Scrollback int
	// PrefixKey toggles keyboard mode.
	PrefixKey input.KeyEvent
	Layout    Layout
	Gaps      bool
	Tiling    bool
	// CloseOnExit removes windows whose child exited; otherwise they stay
	// with an "[exited]" title.
	CloseOnExit          bool
	ClearSelectionOnBlur bool
	SnapOnDrag           bool
	// BracketedPaste wraps pastes when the guest enabled ?2004.
	BracketedPaste bool
	// History, when set, receives every row that scrolls off a window.
	History *history.Index
	Debug   bool
	// Now is the clock used for multi-click detection.
	Now func() time.Time
}

// DefaultOptions returns the stock policy with a /bin/sh shell.
func DefaultOptions() Options {
	return Options{
		Shell:          ptysession.Command{Path: "/bin/sh"},
		Spawner:        PTYSpawner{},
		Scrollback:     2000,
		PrefixKey:      input.KeyEvent{Code: input.KeyRune, Rune: 'b', Mod: input.ModCtrl},
		CloseOnExit:    true,
		SnapOnDrag:     true,
		BracketedPaste: true,
	}
}

// FocusKind says what holds keyboard focus.
type FocusKind int

const (
	FocusDesktop FocusKind = iota
	FocusTopBar
	FocusWindow
)

// FocusState is the current focus target. ID is only set for FocusWindow.
type FocusState struct {
	Kind FocusKind
	ID   uint32
}

type managed struct {
	Window
	term     *vterm.VTerm
	sess     Session
	cmd      ptysession.Command
	writeErr error
	scrolled []string
}

// Manager owns every window, emulator and session.
type Manager struct {
	opts      Options
	workspace grid.Rect
	stack     []*managed
	nextID    uint32
	focus     FocusState
	cascade   [2]int
	keyMode   bool
	tiling    bool
	gaps      bool
	layout    Layout

	mouse mouseState
	click clickState

	comp *compositor.Compositor
}

// NewManager returns an empty manager for the given workspace.
func NewManager(workspace grid.Rect, opts Options) *Manager {
	if opts.Spawner == nil {
		opts.Spawner = PTYSpawner{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		opts:      opts,
		workspace: workspace,
		nextID:    1,
		tiling:    opts.Tiling,
		gaps:      opts.Gaps,
		layout:    opts.Layout,
		comp:      compositor.New(),
	}
}

// Workspace returns the area available to windows.
func (m *Manager) Workspace() grid.Rect { return m.workspace }

// Compositor returns the compositor used by Compose.
func (m *Manager) Compositor() *compositor.Compositor { return m.comp }

// SetCompositor replaces the compositor, e.g. to apply a theme.
func (m *Manager) SetCompositor(c *compositor.Compositor) { m.comp = c }

func (m *Manager) find(id uint32) *managed {
	for _, w := range m.stack {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (w *managed) liveTitle() string {
	t := w.term.Title()
	if t == "" {
		t = w.Title
	}
	if w.Exited {
		t += " [exited]"
	}
	return t
}

func (w *managed) view() Window {
	v := w.Window
	v.Title = w.liveTitle()
	return v
}

// Window returns a copy of the window with its live title.
func (m *Manager) Window(id uint32) (Window, bool) {
	if w := m.find(id); w != nil {
		return w.view(), true
	}
	return Window{}, false
}

// Windows returns every window back to front.
func (m *Manager) Windows() []Window {
	out := make([]Window, len(m.stack))
	for i, w := range m.stack {
		out[i] = w.view()
	}
	return out
}

// Terminal returns the emulator of a window.
func (m *Manager) Terminal(id uint32) *vterm.VTerm {
	if w := m.find(id); w != nil {
		return w.term
	}
	return nil
}

// FocusState reports the focus target.
func (m *Manager) FocusState() FocusState { return m.focus }

// FocusedID returns the focused window, if any.
func (m *Manager) FocusedID() (uint32, bool) {
	if m.focus.Kind == FocusWindow {
		return m.focus.ID, true
	}
	return 0, false
}

func (m *Manager) focused() *managed {
	if id, ok := m.FocusedID(); ok {
		return m.find(id)
	}
	return nil
}

// Tiling reports whether create/close/minimize re-tile automatically.
func (m *Manager) Tiling() bool { return m.tiling }

// Gaps reports whether gaps mode is on.
func (m *Manager) Gaps() bool { return m.gaps }

func contentSize(r grid.Rect) (int, int) {
	c := compositor.ContentRect(r)
	return max(1, c.W), max(1, c.H)
}

func (m *Manager) newTerm(w *managed, cols, rows int) *vterm.VTerm {
	opts := []vterm.Option{
		vterm.WithPtyWriter(w.write),
		vterm.WithScrollbackSize(m.opts.Scrollback),
		vterm.WithDebugLog(m.opts.Debug),
		vterm.WithTitleChangeHandler(func(title string) {
			if m.opts.Debug {
				log.Printf("WM: window %d title %q", w.ID, title)
			}
		}),
	}
	if m.opts.History != nil {
		opts = append(opts, vterm.WithScrollbackHandler(func(row []grid.Cell) {
			w.scrolled = append(w.scrolled, rowText(row))
		}))
	}
	return vterm.New(cols, rows, opts...)
}

func (w *managed) write(p []byte) {
	if w.sess == nil || w.writeErr != nil {
		return
	}
	w.send(p)
}

// send writes p and records the first failure so Tick ends the session.
func (w *managed) send(p []byte) error {
	err := w.sess.Write(p)
	if err != nil && w.writeErr == nil {
		w.writeErr = err
	}
	return err
}

func rowText(row []grid.Cell) string {
	buf := make([]rune, 0, len(row))
	for _, c := range row {
		if !c.IsContinuation() {
			buf = append(buf, c.Glyph)
		}
	}
	end := len(buf)
	for end > 0 && buf[end-1] == ' ' {
		end--
	}
	return string(buf[:end])
}

// spawnWindow builds a window with a fresh session. It does not touch the stack.
func (m *Manager) spawnWindow(id uint32, r grid.Rect, title string, cmd ptysession.Command) (*managed, error) {
	cols, rows := contentSize(r)
	sess, err := m.opts.Spawner.Spawn(cmd, cols, rows)
	if err != nil {
		return nil, err
	}
	w := &managed{Window: Window{ID: id, Rect: r, Title: title}, sess: sess, cmd: cmd}
	w.term = m.newTerm(w, cols, rows)
	return w, nil
}

// placeholder is a window without a session, used when a restored command
// can no longer be started.
func (m *Manager) placeholder(id uint32, r grid.Rect, title string, cmd ptysession.Command) *managed {
	cols, rows := contentSize(r)
	w := &managed{Window: Window{ID: id, Rect: r, Title: title, Exited: true}, cmd: cmd}
	w.term = m.newTerm(w, cols, rows)
	return w
}

// defaultTitle names windows after their command.
func defaultTitle(cmd ptysession.Command) string {
	if cmd.Path == "" {
		return "terminal"
	}
	return filepath.Base(cmd.Path)
}

// Create opens a window with the given geometry. A nil cmd runs the shell.
func (m *Manager) Create(r grid.Rect, title string, cmd *ptysession.Command) (uint32, error) {
	command := m.opts.Shell
	if cmd != nil {
		command = *cmd
	}
	if title == "" {
		title = defaultTitle(command)
	}
	r = m.clampPosition(enforceMin(r))
	id := m.nextID
	w, err := m.spawnWindow(id, r, title, command)
	if err != nil {
		log.Printf("WM: create window failed: %v", err)
		return 0, fmt.Errorf("create window: %w", err)
	}
	m.nextID++
	m.stack = append(m.stack, w)
	m.focusWindow(w)
	log.Printf("WM: created window %d (%s) at %dx%d+%d+%d", id, command, r.W, r.H, r.X, r.Y)
	if m.tiling {
		m.AutoTile(m.layout)
	}
	return id, nil
}

// Open creates a window at the next cascade position.
func (m *Manager) Open(title string, cmd *ptysession.Command) (uint32, error) {
	r, off := cascadeRect(m.workspace, m.cascade)
	id, err := m.Create(r, title, cmd)
	if err == nil {
		m.cascade = off
	}
	return id, err
}

// Close reaps the session and removes the window.
func (m *Manager) Close(id uint32) {
	i := slices.IndexFunc(m.stack, func(w *managed) bool { return w.ID == id })
	if i < 0 {
		return
	}
	w := m.stack[i]
	if w.sess != nil {
		w.sess.Reap()
		w.sess = nil
	}
	m.stack = slices.Delete(m.stack, i, i+1)
	if m.opts.History != nil {
		if err := m.opts.History.Forget(id); err != nil {
			log.Printf("WM: %v", err)
		}
	}
	if m.mouse.id == id {
		m.mouse = mouseState{}
	}
	if m.focus.Kind == FocusWindow && m.focus.ID == id {
		m.focusTopmost()
	}
	log.Printf("WM: closed window %d", id)
	if m.tiling {
		m.AutoTile(m.layout)
	}
}

// Shutdown reaps every session. Windows stay in place so a final save still
// captures them.
func (m *Manager) Shutdown() {
	m.flushHistory()
	for _, w := range m.stack {
		if w.sess != nil {
			w.sess.Reap()
			w.sess = nil
		}
	}
}

func (m *Manager) blur() {
	for _, w := range m.stack {
		if w.Focused {
			w.Focused = false
			if m.opts.ClearSelectionOnBlur {
				w.term.ClearSelection()
			}
		}
	}
}

func (m *Manager) focusWindow(w *managed) {
	if !w.Focused {
		m.blur()
	}
	if i := slices.Index(m.stack, w); i >= 0 && i != len(m.stack)-1 {
		m.stack = append(slices.Delete(m.stack, i, i+1), w)
	}
	w.Focused = true
	m.focus = FocusState{Kind: FocusWindow, ID: w.ID}
}

// focusTopmost focuses the topmost visible window, or the desktop.
func (m *Manager) focusTopmost() {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if !m.stack[i].Minimized {
			m.focusWindow(m.stack[i])
			return
		}
	}
	m.FocusDesktop()
}

// Focus raises a window and gives it focus. Minimized windows are restored.
func (m *Manager) Focus(id uint32) {
	w := m.find(id)
	if w == nil {
		return
	}
	if w.Minimized {
		w.Minimized = false
		if m.tiling {
			defer m.AutoTile(m.layout)
		}
	}
	m.focusWindow(w)
}

// FocusDesktop clears window focus.
func (m *Manager) FocusDesktop() {
	m.blur()
	m.focus = FocusState{Kind: FocusDesktop}
}

// FocusTopBar moves keyboard focus to the top bar.
func (m *Manager) FocusTopBar() {
	m.blur()
	m.focus = FocusState{Kind: FocusTopBar}
}

// visibleByID returns non-minimized windows in ascending id order.
func (m *Manager) visibleByID() []*managed {
	var out []*managed
	for _, w := range m.stack {
		if !w.Minimized {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b *managed) int { return int(a.ID) - int(b.ID) })
	return out
}

// CycleNext focuses the next visible window in creation order, wrapping.
func (m *Manager) CycleNext() { m.cycle(1) }

// CyclePrev focuses the previous visible window, wrapping.
func (m *Manager) CyclePrev() { m.cycle(-1) }

func (m *Manager) cycle(dir int) {
	vis := m.visibleByID()
	if len(vis) == 0 {
		m.FocusDesktop()
		return
	}
	cur := -1
	if id, ok := m.FocusedID(); ok {
		cur = slices.IndexFunc(vis, func(w *managed) bool { return w.ID == id })
	}
	next := 0
	switch {
	case cur >= 0:
		next = (cur + dir + len(vis)) % len(vis)
	case dir < 0:
		next = len(vis) - 1
	}
	m.focusWindow(vis[next])
}

// Numbers maps window ids to their overlay digit (1-9) in creation order.
func (m *Manager) Numbers() map[uint32]int {
	ids := make([]uint32, 0, len(m.stack))
	for _, w := range m.stack {
		ids = append(ids, w.ID)
	}
	slices.Sort(ids)
	out := make(map[uint32]int, min(len(ids), 9))
	for i, id := range ids {
		if i >= 9 {
			break
		}
		out[id] = i + 1
	}
	return out
}

// FocusNumber focuses the window carrying overlay digit n.
func (m *Manager) FocusNumber(n int) bool {
	for id, num := range m.Numbers() {
		if num == n {
			m.Focus(id)
			return true
		}
	}
	return false
}

// clampPosition keeps the title row inside the workspace with at least one
// column visible.
func (m *Manager) clampPosition(r grid.Rect) grid.Rect {
	ws := m.workspace
	r.Y = max(ws.Y, min(r.Y, ws.Bottom()-1))
	r.X = max(ws.X-r.W+1, min(r.X, ws.Right()-1))
	return r
}

// setRect applies geometry and propagates size changes to the emulator and PTY.
func (m *Manager) setRect(w *managed, r grid.Rect) {
	r = enforceMin(r)
	if r.W != w.Rect.W || r.H != w.Rect.H {
		cols, rows := contentSize(r)
		w.term.Resize(cols, rows)
		if w.sess != nil {
			if err := w.sess.Resize(cols, rows); err != nil && !errors.Is(err, ptysession.ErrClosed) {
				log.Printf("WM: window %d: %v", w.ID, err)
			}
		}
	}
	w.Rect = r
}

// MoveTo moves a window; maximized windows lose their maximized state.
func (m *Manager) MoveTo(id uint32, x, y int) {
	w := m.find(id)
	if w == nil {
		return
	}
	w.Maximized = false
	r := w.Rect
	r.X, r.Y = x, y
	m.setRect(w, m.clampPosition(r))
}

// Resize moves the named edge by (dx,dy), respecting the minimum size.
func (m *Manager) Resize(id uint32, edge Edge, dx, dy int) {
	w := m.find(id)
	if w == nil {
		return
	}
	w.Maximized = false
	m.setRect(w, resizeRect(w.Rect, edge, dx, dy))
}

func (m *Manager) maxRect() grid.Rect {
	if m.gaps {
		return gapRect(m.workspace)
	}
	return m.workspace
}

// Maximize remembers the geometry and fills the workspace.
func (m *Manager) Maximize(id uint32) {
	w := m.find(id)
	if w == nil || w.Maximized {
		return
	}
	w.PreMax = w.Rect
	m.setRect(w, m.maxRect())
	w.Maximized = true
}

// Restore un-minimizes a window and returns a maximized one to its
// remembered geometry.
func (m *Manager) Restore(id uint32) {
	w := m.find(id)
	if w == nil {
		return
	}
	if w.Minimized {
		m.Focus(id)
	}
	if w.Maximized {
		w.Maximized = false
		m.setRect(w, w.PreMax)
	}
}

// ToggleMaximize maximizes or restores.
func (m *Manager) ToggleMaximize(id uint32) {
	if w := m.find(id); w != nil && w.Maximized {
		m.Restore(id)
		return
	}
	m.Maximize(id)
}

// Minimize hides a window; focus falls to the topmost visible one.
func (m *Manager) Minimize(id uint32) {
	w := m.find(id)
	if w == nil || w.Minimized {
		return
	}
	w.Minimized = true
	if w.Focused {
		w.Focused = false
		m.focusTopmost()
	}
	if m.tiling {
		m.AutoTile(m.layout)
	}
}

// Snap moves a window to a predefined position.
func (m *Manager) Snap(id uint32, pos SnapPosition) {
	w := m.find(id)
	if w == nil {
		return
	}
	r := snapRect(m.workspace, pos)
	if m.gaps {
		r = gapRect(r)
	}
	w.Maximized = false
	m.setRect(w, r)
}

// AutoTile arranges all visible windows, in creation order.
func (m *Manager) AutoTile(layout Layout) {
	m.layout = layout
	vis := m.visibleByID()
	for i, r := range tileRects(m.workspace, len(vis), layout) {
		if m.gaps {
			r = gapRect(r)
		}
		vis[i].Maximized = false
		m.setRect(vis[i], r)
	}
}

// SetTiling turns automatic re-tiling on or off.
func (m *Manager) SetTiling(on bool) {
	m.tiling = on
	if on {
		m.AutoTile(m.layout)
	}
}

// SetGaps turns gaps on or off and re-applies tiled and maximized geometry.
func (m *Manager) SetGaps(on bool) {
	m.gaps = on
	m.reflow()
}

// SetWorkspace adapts to a new host size.
func (m *Manager) SetWorkspace(ws grid.Rect) {
	m.workspace = ws
	m.reflow()
}

func (m *Manager) reflow() {
	for _, w := range m.stack {
		if w.Maximized {
			m.setRect(w, m.maxRect())
		} else {
			m.setRect(w, m.clampPosition(w.Rect))
		}
	}
	if m.tiling {
		m.AutoTile(m.layout)
	}
}

// windowAt returns the topmost visible window containing the point.
func (m *Manager) windowAt(col, row int) *managed {
	for i := len(m.stack) - 1; i >= 0; i-- {
		w := m.stack[i]
		if !w.Minimized && w.Rect.Contains(col, row) {
			return w
		}
	}
	return nil
}

// WindowAt returns the id of the topmost visible window under a point.
func (m *Manager) WindowAt(col, row int) (uint32, bool) {
	if w := m.windowAt(col, row); w != nil {
		return w.ID, true
	}
	return 0, false
}
