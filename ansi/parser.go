// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ansi/parser.go
// Summary: DEC-style escape sequence state machine with integrated UTF-8 decoding.
// Usage: p := ansi.NewParser(handler); p.Feed(ptyBytes)
// Notes: Total over all inputs. Malformed sequences are abandoned and the
// parser returns to Ground; nothing is ever reported as an error.

package ansi

import (
	"strings"
	"unicode/utf8"
)

// State is a parser state.
type State int

const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCSIEntry
	StateCSIParam
	StateCSIIntermediate
	StateCSIIgnore
	StateOSCString
	StateDCSEntry
	StateDCSParam
	StateDCSIntermediate
	StateDCSPassthrough
	StateDCSIgnore
	StateSOSPMAPCString
)

var stateNames = [...]string{
	"Ground", "Escape", "EscapeIntermediate", "CSIEntry", "CSIParam",
	"CSIIntermediate", "CSIIgnore", "OSCString", "DCSEntry", "DCSParam",
	"DCSIntermediate", "DCSPassthrough", "DCSIgnore", "SOSPMAPCString",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Invalid"
	}
	return stateNames[s]
}

// Valid reports whether s is one of the defined states.
func (s State) Valid() bool { return s >= StateGround && s <= StateSOSPMAPCString }

const (
	bel = 0x07
	can = 0x18
	sub = 0x1a
	esc = 0x1b
	del = 0x7f
)

// Parser turns a byte stream into Handler calls. It is restartable: Feed may
// be called with arbitrary splits of the stream.
type Parser struct {
	h     Handler
	state State

	params   []int
	cur      int
	hasParam bool
	marker   byte
	inter    []byte

	osc []byte

	utf8buf [utf8.UTFMax]byte
	utf8n   int
}

// NewParser returns a parser in the Ground state.
func NewParser(h Handler) *Parser {
	return &Parser{
		h:      h,
		params: make([]int, 0, MaxParams),
		inter:  make([]byte, 0, maxIntermediates),
		osc:    make([]byte, 0, 128),
	}
}

// State returns the current state.
func (p *Parser) State() State { return p.state }

// Reset drops any partial sequence and returns to Ground.
func (p *Parser) Reset() {
	p.state = StateGround
	p.utf8n = 0
	p.clear()
}

// Feed consumes data.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.step(b)
	}
}

func (p *Parser) clear() {
	p.params = p.params[:0]
	p.cur = 0
	p.hasParam = false
	p.marker = 0
	p.inter = p.inter[:0]
}

func (p *Parser) step(b byte) {
	if p.utf8n > 0 {
		if b&0xc0 == 0x80 {
			p.utf8buf[p.utf8n] = b
			p.utf8n++
			p.flushUTF8(false)
			return
		}
		// Sequence interrupted by a non-continuation byte.
		p.utf8n = 0
		p.h.Print(utf8.RuneError)
	}

	// Transitions valid from any state.
	switch b {
	case can, sub:
		if p.state == StateOSCString {
			p.osc = p.osc[:0]
		}
		p.h.Execute(b)
		p.state = StateGround
		return
	case esc:
		if p.state == StateOSCString {
			p.dispatchOSC()
		}
		p.clear()
		p.state = StateEscape
		return
	}

	switch p.state {
	case StateGround:
		p.ground(b)
	case StateEscape:
		p.escape(b)
	case StateEscapeIntermediate:
		p.escapeIntermediate(b)
	case StateCSIEntry, StateCSIParam, StateCSIIntermediate:
		p.csi(b)
	case StateCSIIgnore:
		switch {
		case b < 0x20:
			p.h.Execute(b)
		case b >= 0x40 && b <= 0x7e:
			p.state = StateGround
		}
	case StateOSCString:
		p.oscString(b)
	case StateDCSEntry, StateDCSParam, StateDCSIntermediate:
		p.dcs(b)
	case StateDCSPassthrough, StateDCSIgnore, StateSOSPMAPCString:
		// Payload is consumed until ST (ESC \), CAN or SUB.
	default:
		p.state = StateGround
	}
}

func (p *Parser) ground(b byte) {
	switch {
	case b < 0x20:
		p.h.Execute(b)
	case b < del:
		p.h.Print(rune(b))
	case b == del:
	default:
		p.utf8buf[0] = b
		p.utf8n = 1
		p.flushUTF8(true)
	}
}

// flushUTF8 emits the buffered rune once complete. A lone invalid lead byte
// is reported as U+FFFD.
func (p *Parser) flushUTF8(lead bool) {
	buf := p.utf8buf[:p.utf8n]
	if !utf8.FullRune(buf) {
		if lead && !utf8.RuneStart(buf[0]) {
			p.utf8n = 0
			p.h.Print(utf8.RuneError)
		}
		return
	}
	r, size := utf8.DecodeRune(buf)
	p.utf8n = 0
	p.h.Print(r)
	if size < len(buf) {
		// Invalid sequence: the remaining bytes are continuation bytes and
		// are therefore replacement characters too.
		for range buf[size:] {
			p.h.Print(utf8.RuneError)
		}
	}
}

func (p *Parser) escape(b byte) {
	switch {
	case b < 0x20:
		p.h.Execute(b)
	case b <= 0x2f:
		p.collect(b)
		p.state = StateEscapeIntermediate
	case b == '[':
		p.state = StateCSIEntry
	case b == ']':
		p.osc = p.osc[:0]
		p.state = StateOSCString
	case b == 'P':
		p.state = StateDCSEntry
	case b == 'X' || b == '^' || b == '_':
		p.state = StateSOSPMAPCString
	case b == del:
	default:
		p.h.ESCDispatch(b, p.inter)
		p.state = StateGround
	}
}

func (p *Parser) escapeIntermediate(b byte) {
	switch {
	case b < 0x20:
		p.h.Execute(b)
	case b <= 0x2f:
		p.collect(b)
	case b == del:
	default:
		p.h.ESCDispatch(b, p.inter)
		p.state = StateGround
	}
}

func (p *Parser) csi(b byte) {
	switch {
	case b < 0x20:
		p.h.Execute(b)
	case b >= '0' && b <= '9':
		if p.state == StateCSIIntermediate {
			p.state = StateCSIIgnore
			return
		}
		p.digit(b)
		p.state = StateCSIParam
	case b == ';' || b == ':':
		if p.state == StateCSIIntermediate {
			p.state = StateCSIIgnore
			return
		}
		p.separator()
		p.state = StateCSIParam
	case b >= '<' && b <= '?':
		if p.state != StateCSIEntry {
			p.state = StateCSIIgnore
			return
		}
		p.marker = b
		p.state = StateCSIParam
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
		p.state = StateCSIIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.finishParams()
		p.h.CSIDispatch(CSI{Final: b, Params: p.params, Intermediates: p.inter, Marker: p.marker})
		p.state = StateGround
	default:
		// DEL is ignored.
	}
}

func (p *Parser) dcs(b byte) {
	switch {
	case b < 0x20:
	case b >= '0' && b <= '9', b == ';', b == ':':
		if p.state == StateDCSIntermediate {
			p.state = StateDCSIgnore
			return
		}
		p.state = StateDCSParam
	case b >= '<' && b <= '?':
		if p.state != StateDCSEntry {
			p.state = StateDCSIgnore
			return
		}
		p.state = StateDCSParam
	case b >= 0x20 && b <= 0x2f:
		p.state = StateDCSIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.state = StateDCSPassthrough
	}
}

func (p *Parser) oscString(b byte) {
	switch {
	case b == bel:
		p.dispatchOSC()
		p.state = StateGround
	case b < 0x20:
	default:
		if len(p.osc) < MaxOSCBytes {
			p.osc = append(p.osc, b)
		}
	}
}

func (p *Parser) dispatchOSC() {
	params := strings.Split(string(p.osc), ";")
	p.osc = p.osc[:0]
	p.h.OSCDispatch(params)
}

func (p *Parser) collect(b byte) {
	if len(p.inter) < maxIntermediates {
		p.inter = append(p.inter, b)
	}
}

func (p *Parser) digit(b byte) {
	p.hasParam = true
	if p.cur < MaxParamValue {
		p.cur = p.cur*10 + int(b-'0')
		if p.cur > MaxParamValue {
			p.cur = MaxParamValue
		}
	}
}

func (p *Parser) separator() {
	p.hasParam = true
	if len(p.params) < MaxParams {
		p.params = append(p.params, p.cur)
	}
	p.cur = 0
}

func (p *Parser) finishParams() {
	if p.hasParam && len(p.params) < MaxParams {
		p.params = append(p.params, p.cur)
	}
	p.cur = 0
}
