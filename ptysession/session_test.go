// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ptysession

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func shell(t *testing.T, script string) *Session {
	t.Helper()
	s, err := Spawn(Command{Path: "/bin/sh", Args: []string{"-c", script}, Env: []string{"PATH=/usr/bin:/bin"}}, 80, 24, Options{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	t.Cleanup(s.Reap)
	return s
}

// collect drains until want appears, EOF, or the deadline passes.
func collect(t *testing.T, s *Session, want string) (string, bool) {
	t.Helper()
	var out strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		data, err := s.Drain(DefaultDrainMax)
		out.Write(data)
		if strings.Contains(out.String(), want) {
			return out.String(), false
		}
		if errors.Is(err, io.EOF) {
			return out.String(), true
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, got %q", want, out.String())
	return "", false
}

func TestSpawnEchoAndEOF(t *testing.T) {
	s := shell(t, "echo hello-pty")
	out, _ := collect(t, s, "hello-pty")
	if !strings.Contains(out, "hello-pty") {
		t.Fatalf("output = %q", out)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, err := s.Drain(0)
		if errors.Is(err, io.EOF) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no EOF after child exit")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if s.Alive() {
		t.Fatalf("session reported alive after EOF")
	}
}

func TestTermIsExported(t *testing.T) {
	s := shell(t, `echo "term=$TERM"`)
	if out, _ := collect(t, s, "term=xterm-256color"); !strings.Contains(out, "term=xterm-256color") {
		t.Fatalf("output = %q", out)
	}
}

func TestWriteReachesChild(t *testing.T) {
	s := shell(t, `read line; echo "got:$line"`)
	if err := s.Write([]byte("ping\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out, _ := collect(t, s, "got:ping"); !strings.Contains(out, "got:ping") {
		t.Fatalf("output = %q", out)
	}
}

func TestSplitChunks(t *testing.T) {
	chunks := splitChunks(make([]byte, ChunkSize*2+10))
	if len(chunks) != 3 || len(chunks[0]) != ChunkSize || len(chunks[2]) != 10 {
		t.Fatalf("unexpected chunking: %d chunks", len(chunks))
	}
	if splitChunks(nil) != nil {
		t.Fatalf("empty input should produce no chunks")
	}
}

func TestLargeWriteIsDelivered(t *testing.T) {
	s := shell(t, "stty raw -echo; echo ready; head -c 9000 | wc -c")
	collect(t, s, "ready")
	if err := s.Write([]byte(strings.Repeat("x", 9000))); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out, _ := collect(t, s, "9000"); !strings.Contains(out, "9000") {
		t.Fatalf("output = %q", out)
	}
}

func TestResizePropagates(t *testing.T) {
	s := shell(t, `read x; stty size`)
	if err := s.Resize(100, 30); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := s.Write([]byte("\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out, _ := collect(t, s, "30 100"); !strings.Contains(out, "30 100") {
		t.Fatalf("output = %q", out)
	}
}

func TestReapTerminatesChild(t *testing.T) {
	s := shell(t, "sleep 30")
	start := time.Now()
	s.Reap()
	if time.Since(start) > 3*time.Second {
		t.Fatalf("reap took %v", time.Since(start))
	}
	if s.Alive() {
		t.Fatalf("child still alive after reap")
	}
	if err := s.Write([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Fatalf("write after reap = %v, want ErrClosed", err)
	}
	if err := s.Resize(10, 10); !errors.Is(err, ErrClosed) {
		t.Fatalf("resize after reap = %v, want ErrClosed", err)
	}
	s.Reap()
}

func TestSpawnErrors(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "not-executable")
	if err := os.WriteFile(plain, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		path string
		want SpawnReason
	}{
		{filepath.Join(dir, "missing"), SpawnNotFound},
		{"definitely-not-a-command-texelwm", SpawnNotFound},
		{plain, SpawnPermission},
	}
	for _, tt := range tests {
		_, err := Spawn(Command{Path: tt.path}, 80, 24, Options{})
		var se *SpawnError
		if !errors.As(err, &se) {
			t.Fatalf("%s: err = %v, want SpawnError", tt.path, err)
		}
		if se.Reason != tt.want {
			t.Fatalf("%s: reason = %v, want %v", tt.path, se.Reason, tt.want)
		}
	}
}
