// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/desktop.go
// Summary: Single-threaded event loop tying the backend, window manager and
// clipboard together.
// Usage: d := desktop.New(backend, mgr, desktop.Options{}); err := d.Run(ctx)
// Notes: One iteration polls input, ticks every session and presents one
// frame. Modal dialogs swallow input until dismissed.

package desktop

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/framegrace/texelwm/backend"
	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/input"
	"github.com/framegrace/texelwm/internal/clipboard"
	"github.com/framegrace/texelwm/wm"
)

const (
	// PollTimeout bounds how long an idle iteration waits for input.
	PollTimeout = 50 * time.Millisecond
	// maxBatch caps the events handled per frame.
	maxBatch = 64
)

// Options configure the event loop.
type Options struct {
	// SessionPath is where ActionSave and the exit save write.
	SessionPath string
	SaveOnExit  bool
	Clipboard   clipboard.Clipboard
	// Now is the clock behind the top-bar time and toast expiry.
	Now func() time.Time
}

// Desktop is the running multiplexer.
type Desktop struct {
	backend backend.Backend
	mgr     *wm.Manager
	opts    Options
	frame   *grid.Grid
	dialog  *Dialog
	toast   toast
	quit    bool
}

// New wires a desktop around a manager whose workspace already matches the
// backend size.
func New(b backend.Backend, mgr *wm.Manager, opts Options) *Desktop {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &clipboard.Memory{}
	}
	cols, rows := b.Dimensions()
	return &Desktop{backend: b, mgr: mgr, opts: opts, frame: grid.New(cols, rows)}
}

// Manager returns the window manager.
func (d *Desktop) Manager() *wm.Manager { return d.mgr }

// Frame returns the last rendered frame.
func (d *Desktop) Frame() *grid.Grid { return d.frame }

// Dialog returns the open modal dialog, if any.
func (d *Desktop) Dialog() *Dialog { return d.dialog }

// Quitting reports whether a quit was requested.
func (d *Desktop) Quitting() bool { return d.quit }

// EnsureWindow opens a shell window when the desktop is empty. Failures are
// shown in a dialog rather than returned.
func (d *Desktop) EnsureWindow() {
	if len(d.mgr.Windows()) > 0 {
		return
	}
	if _, err := d.mgr.Open("", nil); err != nil {
		d.ShowError("Cannot start shell", err)
	}
}

// Run loops until ctx is cancelled or a quit is requested, then saves (when
// configured) and reaps every session.
func (d *Desktop) Run(ctx context.Context) error {
	log.Printf("Desktop: running %dx%d", d.frame.Cols(), d.frame.Rows())
	var err error
	for !d.quit {
		if ctx.Err() != nil {
			break
		}
		if err = d.Step(PollTimeout); err != nil {
			break
		}
	}
	d.shutdown()
	if errors.Is(err, backend.ErrClosed) {
		return nil
	}
	return err
}

func (d *Desktop) shutdown() {
	if d.opts.SaveOnExit && d.opts.SessionPath != "" {
		if err := d.mgr.Save(d.opts.SessionPath); err != nil {
			log.Printf("Desktop: save on exit: %v", err)
		}
	}
	d.mgr.Shutdown()
	log.Printf("Desktop: stopped")
}

// Step runs one loop iteration: input, session I/O, render and present.
func (d *Desktop) Step(timeout time.Duration) error {
	if ev, ok := d.backend.PollEvent(timeout); ok {
		d.HandleEvent(ev)
		for i := 0; i < maxBatch && !d.quit; i++ {
			ev, ok := d.backend.PollEvent(0)
			if !ok {
				break
			}
			d.HandleEvent(ev)
		}
	}
	d.mgr.Tick()
	d.Render()
	if err := d.backend.Present(d.frame); err != nil {
		return err
	}
	return nil
}

// Render draws the whole desktop into the frame.
func (d *Desktop) Render() {
	d.mgr.Compose(d.frame)
	d.drawTopBar()
	d.drawTaskbar()
	ws := d.mgr.Workspace()
	th := d.mgr.Compositor().Theme
	if d.toast.active(d.opts.Now()) {
		d.toast.draw(d.frame, ws, th.Toast)
	}
	if d.dialog != nil {
		d.dialog.draw(d.frame, grid.Rect{W: d.frame.Cols(), H: d.frame.Rows()}, th, d.mgr.Compositor().Charset)
	}
}

// HandleEvent routes one host event.
func (d *Desktop) HandleEvent(ev input.Event) {
	if ev.Kind == input.EventResize {
		d.resize(ev.Cols, ev.Rows)
		return
	}
	if d.dialog != nil {
		d.dialogInput(ev)
		return
	}
	switch ev.Kind {
	case input.EventKey:
		d.perform(d.mgr.HandleKey(ev.Key))
	case input.EventMouse:
		d.mouse(ev.Mouse)
	case input.EventPaste:
		d.paste(ev.Text)
	}
}

func (d *Desktop) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	d.frame.Resize(cols, rows)
	d.mgr.SetWorkspace(Workspace(cols, rows))
	log.Printf("Desktop: resized to %dx%d", cols, rows)
}

func (d *Desktop) dialogInput(ev input.Event) {
	switch ev.Kind {
	case input.EventKey:
		k := ev.Key
		if k.Code == input.KeyEnter || k.Code == input.KeyEsc || (k.Code == input.KeyRune && k.Rune == ' ') {
			d.dialog = nil
		}
	case input.EventMouse:
		m := ev.Mouse
		if m.Kind != input.MouseDown || m.Button != input.ButtonLeft {
			return
		}
		r := d.dialog.rect(grid.Rect{W: d.frame.Cols(), H: d.frame.Rows()})
		if d.dialog.okRect(r).Contains(m.Col, m.Row) {
			d.dialog = nil
		}
	}
}

func (d *Desktop) mouse(ev input.MouseEvent) {
	if d.mgr.Dragging() {
		d.perform(d.mgr.HandleMouse(ev))
		return
	}
	barRow := d.frame.Rows() - 1
	switch {
	case ev.Row == 0:
		if ev.Kind != input.MouseDown || ev.Button != input.ButtonLeft {
			return
		}
		if topBarHit(ev.Col) {
			if _, err := d.mgr.Open("", nil); err != nil {
				d.ShowError("Cannot open window", err)
			}
			return
		}
		d.mgr.FocusTopBar()
	case ev.Row == barRow && barRow > 0:
		if ev.Kind != input.MouseDown || ev.Button != input.ButtonLeft {
			return
		}
		id, ok := d.taskAt(ev.Col)
		if !ok {
			return
		}
		w, _ := d.mgr.Window(id)
		if w.Focused && !w.Minimized {
			d.mgr.Minimize(id)
			return
		}
		d.mgr.Focus(id)
	default:
		d.perform(d.mgr.HandleMouse(ev))
	}
}

func (d *Desktop) paste(text string) {
	id, ok := d.mgr.FocusedID()
	if !ok || text == "" {
		return
	}
	if err := d.mgr.SendPaste(id, text); err != nil {
		log.Printf("Desktop: paste to window %d: %v", id, err)
	}
}

func (d *Desktop) perform(a wm.Action) {
	switch a.Kind {
	case wm.ActionQuit:
		d.quit = true
	case wm.ActionSave:
		if d.opts.SessionPath == "" {
			d.Toast("no session path configured")
			return
		}
		if err := d.mgr.Save(d.opts.SessionPath); err != nil {
			d.ShowError("Save failed", err)
			return
		}
		d.Toast("session saved")
	case wm.ActionCopy:
		if err := d.opts.Clipboard.Copy(a.Text); err != nil {
			log.Printf("Desktop: copy: %v", err)
			d.Toast("clipboard unavailable")
			return
		}
		d.Toast("copied")
	case wm.ActionPaste:
		text, err := d.opts.Clipboard.Paste()
		if err != nil {
			log.Printf("Desktop: paste: %v", err)
			d.Toast("clipboard unavailable")
			return
		}
		d.paste(text)
	case wm.ActionError:
		d.ShowError("Error", a.Err)
	}
}
