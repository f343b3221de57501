// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ansi/sequence.go
// Summary: Dispatched sequence types and the handler contract of the parser.
// Usage: vterm implements Handler; tests use Recorder.

package ansi

import (
	"fmt"
	"strings"
)

const (
	// MaxParams is the number of CSI parameters retained; extras are dropped.
	MaxParams = 32
	// MaxParamValue clamps numeric parameters.
	MaxParamValue = 65535
	// MaxOSCBytes caps the OSC payload; the rest of the string is discarded.
	MaxOSCBytes = 4096

	maxIntermediates = 4
)

// CSI is a completed control sequence.
type CSI struct {
	Final         byte
	Params        []int
	Intermediates []byte
	// Marker is the private parameter prefix ('?', '>', '<', '=') or 0.
	Marker byte
}

// Param returns parameter i, or def when it is missing or zero (ECMA-48 default).
func (c CSI) Param(i, def int) int {
	if i < 0 || i >= len(c.Params) || c.Params[i] == 0 {
		return def
	}
	return c.Params[i]
}

// Raw returns parameter i as sent, or 0 when missing.
func (c CSI) Raw(i int) int {
	if i < 0 || i >= len(c.Params) {
		return 0
	}
	return c.Params[i]
}

// HasIntermediate reports whether b was among the intermediate bytes.
func (c CSI) HasIntermediate(b byte) bool {
	for _, x := range c.Intermediates {
		if x == b {
			return true
		}
	}
	return false
}

func (c CSI) String() string {
	var sb strings.Builder
	sb.WriteString("CSI ")
	if c.Marker != 0 {
		sb.WriteByte(c.Marker)
	}
	for i, p := range c.Params {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%d", p)
	}
	sb.Write(c.Intermediates)
	sb.WriteByte(c.Final)
	return sb.String()
}

// Handler receives parser events. Slices passed to the handler are only
// valid for the duration of the call.
type Handler interface {
	Print(r rune)
	Execute(b byte)
	CSIDispatch(seq CSI)
	OSCDispatch(params []string)
	ESCDispatch(final byte, intermediates []byte)
}

// Event is a recorded parser event.
type Event struct {
	Kind          string // print, execute, csi, osc, esc
	Rune          rune
	Byte          byte
	CSI           CSI
	OSC           []string
	Intermediates []byte
}

// Recorder is a Handler that keeps every event. Used by tests and tooling.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Print(c rune)    { r.Events = append(r.Events, Event{Kind: "print", Rune: c}) }
func (r *Recorder) Execute(b byte)  { r.Events = append(r.Events, Event{Kind: "execute", Byte: b}) }
func (r *Recorder) CSIDispatch(s CSI) {
	s.Params = append([]int(nil), s.Params...)
	s.Intermediates = append([]byte(nil), s.Intermediates...)
	r.Events = append(r.Events, Event{Kind: "csi", CSI: s})
}
func (r *Recorder) OSCDispatch(p []string) {
	r.Events = append(r.Events, Event{Kind: "osc", OSC: append([]string(nil), p...)})
}
func (r *Recorder) ESCDispatch(final byte, inter []byte) {
	r.Events = append(r.Events, Event{Kind: "esc", Byte: final, Intermediates: append([]byte(nil), inter...)})
}

// Text concatenates all printed runes.
func (r *Recorder) Text() string {
	var sb strings.Builder
	for _, e := range r.Events {
		if e.Kind == "print" {
			sb.WriteRune(e.Rune)
		}
	}
	return sb.String()
}
