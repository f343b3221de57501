// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import "testing"

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name      string
		ev        KeyEvent
		appCursor bool
		want      string
	}{
		{"rune", KeyEvent{Code: KeyRune, Rune: 'a'}, false, "a"},
		{"utf8", KeyEvent{Code: KeyRune, Rune: 'é'}, false, "é"},
		{"ctrl-c", KeyEvent{Code: KeyRune, Rune: 'c', Mod: ModCtrl}, false, "\x03"},
		{"ctrl-upper", KeyEvent{Code: KeyRune, Rune: 'B', Mod: ModCtrl}, false, "\x02"},
		{"ctrl-space", KeyEvent{Code: KeyRune, Rune: ' ', Mod: ModCtrl}, false, "\x00"},
		{"ctrl-bracket", KeyEvent{Code: KeyRune, Rune: ']', Mod: ModCtrl}, false, "\x1d"},
		{"alt-x", KeyEvent{Code: KeyRune, Rune: 'x', Mod: ModAlt}, false, "\x1bx"},
		{"enter", KeyEvent{Code: KeyEnter}, false, "\r"},
		{"backspace", KeyEvent{Code: KeyBackspace}, false, "\x7f"},
		{"shift-tab", KeyEvent{Code: KeyTab, Mod: ModShift}, false, "\x1b[Z"},
		{"up-normal", KeyEvent{Code: KeyUp}, false, "\x1b[A"},
		{"up-app", KeyEvent{Code: KeyUp}, true, "\x1bOA"},
		{"home-app", KeyEvent{Code: KeyHome}, true, "\x1bOH"},
		{"end-normal", KeyEvent{Code: KeyEnd}, false, "\x1b[F"},
		{"ctrl-left", KeyEvent{Code: KeyLeft, Mod: ModCtrl}, true, "\x1b[1;5D"},
		{"shift-alt-right", KeyEvent{Code: KeyRight, Mod: ModShift | ModAlt}, false, "\x1b[1;4C"},
		{"delete", KeyEvent{Code: KeyDelete}, false, "\x1b[3~"},
		{"ctrl-pgdn", KeyEvent{Code: KeyPgDn, Mod: ModCtrl}, false, "\x1b[6;5~"},
		{"f1", KeyEvent{Code: KeyF1}, false, "\x1bOP"},
		{"f5", KeyEvent{Code: KeyF5}, false, "\x1b[15~"},
		{"f12", KeyEvent{Code: KeyF12}, false, "\x1b[24~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(EncodeKey(tt.ev, tt.appCursor)); got != tt.want {
				t.Fatalf("EncodeKey(%v) = %q, want %q", tt.ev, got, tt.want)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		chord string
		want KeyEvent
	}{
		{"Ctrl+B", KeyEvent{Code: KeyRune, Rune: 'B', Mod: ModCtrl}},
		{"ctrl+a", KeyEvent{Code: KeyRune, Rune: 'a', Mod: ModCtrl}},
		{"Alt+Shift+Left", KeyEvent{Code: KeyLeft, Mod: ModAlt | ModShift}},
		{"F12", KeyEvent{Code: KeyF12}},
		{"Ctrl+Space", KeyEvent{Code: KeyRune, Rune: ' ', Mod: ModCtrl}},
		{"Esc", KeyEvent{Code: KeyEsc}},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.chord)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tt.chord, err)
		}
		if got != tt.want {
			t.Fatalf("ParseKey(%q) = %+v, want %+v", tt.chord, got, tt.want)
		}
	}
	for _, bad := range []string{"", "Hyper+X", "Ctrl+Nope"} {
		if _, err := ParseKey(bad); err == nil {
			t.Fatalf("ParseKey(%q) should fail", bad)
		}
	}
}

func TestMatchesIgnoresCtrlCase(t *testing.T) {
	prefix := KeyEvent{Code: KeyRune, Rune: 'b', Mod: ModCtrl}
	if !prefix.Matches(KeyEvent{Code: KeyRune, Rune: 'B', Mod: ModCtrl | ModShift}) {
		t.Fatalf("ctrl chords should match regardless of case")
	}
	if prefix.Matches(KeyEvent{Code: KeyRune, Rune: 'b'}) {
		t.Fatalf("missing ctrl should not match")
	}
	if (KeyEvent{Code: KeyUp}).Matches(KeyEvent{Code: KeyUp, Mod: ModShift}) {
		t.Fatalf("modifiers matter for named keys")
	}
}
