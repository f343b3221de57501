// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/overlay.go
// Summary: Modal error dialog and transient toast.

package desktop

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelwm/compositor"
	"github.com/framegrace/texelwm/grid"
	"github.com/framegrace/texelwm/ptysession"
	"github.com/framegrace/texelwm/session"
)

const (
	toastDuration  = 3 * time.Second
	okButton       = "[ OK ]"
	dialogMinWidth = 30
)

// Dialog is a modal message with a single OK button.
type Dialog struct {
	Title string
	Lines []string
}

// ErrorDialog describes err, spelling out the structured reason of spawn
// and session failures.
func ErrorDialog(title string, err error) *Dialog {
	d := &Dialog{Title: title}
	var se *ptysession.SpawnError
	var fe *session.Error
	switch {
	case errors.As(err, &se):
		d.Lines = []string{
			"Command: " + se.Path,
			"Reason:  " + se.Reason.String(),
		}
		if se.Err != nil {
			d.Lines = append(d.Lines, "Detail:  "+se.Err.Error())
		}
	case errors.As(err, &fe):
		d.Lines = []string{
			"File:    " + fe.Path,
			"Problem: " + fe.Kind.String(),
		}
		if fe.Err != nil {
			d.Lines = append(d.Lines, "Detail:  "+fe.Err.Error())
		}
	case err != nil:
		d.Lines = strings.Split(err.Error(), "\n")
	}
	return d
}

// rect centres the dialog in area.
func (dl *Dialog) rect(area grid.Rect) grid.Rect {
	w := max(dialogMinWidth, runewidth.StringWidth(dl.Title)+8)
	for _, l := range dl.Lines {
		w = max(w, runewidth.StringWidth(l)+4)
	}
	w = min(w, area.W)
	h := min(len(dl.Lines)+4, area.H)
	return grid.Rect{X: area.X + (area.W-w)/2, Y: area.Y + (area.H-h)/2, W: w, H: h}
}

func (dl *Dialog) okRect(r grid.Rect) grid.Rect {
	w := len(okButton)
	return grid.Rect{X: r.X + (r.W-w)/2, Y: r.Bottom() - 2, W: w, H: 1}
}

func (dl *Dialog) draw(frame *grid.Grid, area grid.Rect, th compositor.Theme, cs compositor.Charset) {
	r := dl.rect(area)
	compositor.DrawBox(frame, r, th.Dialog, cs, dl.Title, th.DialogTitle)
	for i, l := range dl.Lines {
		y := r.Y + 1 + i
		if y >= r.Bottom()-2 {
			break
		}
		compositor.DrawText(frame, r.X+2, y, compositor.Truncate(l, r.W-4), th.Dialog, r.W-4)
	}
	ok := dl.okRect(r)
	compositor.DrawText(frame, ok.X, ok.Y, okButton, th.DialogTitle, ok.W)
}

type toast struct {
	text  string
	until time.Time
}

func (t toast) active(now time.Time) bool { return t.text != "" && now.Before(t.until) }

func (t toast) draw(frame *grid.Grid, area grid.Rect, st compositor.Style) {
	text := compositor.Truncate(" "+t.text+" ", area.W)
	w := runewidth.StringWidth(text)
	compositor.DrawText(frame, area.Right()-w, area.Bottom()-1, text, st, w)
}

// ShowError opens the modal error dialog.
func (d *Desktop) ShowError(title string, err error) {
	d.dialog = ErrorDialog(title, err)
}

// Toast shows a short message for a few seconds.
func (d *Desktop) Toast(format string, args ...interface{}) {
	d.toast = toast{text: fmt.Sprintf(format, args...), until: d.opts.Now().Add(toastDuration)}
}
