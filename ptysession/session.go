// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ptysession/session.go
// Summary: Child process on a pseudo-terminal with non-blocking drain and queued writes.
// Usage: s, err := ptysession.Spawn(cmd, 80, 24, ptysession.Options{}); data, err := s.Drain(64 << 10)
// Notes: A reader goroutine fills a bounded buffer so Drain never blocks; a
// writer goroutine flushes the write queue in chunks. Reap always collects
// the child.

package ptysession

import (
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

const (
	// DefaultDrainMax is the recommended per-tick drain size.
	DefaultDrainMax = 64 << 10
	// ChunkSize bounds a single PTY write.
	ChunkSize = 4 << 10
	// DefaultReapGrace is how long Reap waits after SIGTERM.
	DefaultReapGrace = 250 * time.Millisecond

	readBufferLimit = 1 << 20
	defaultTerm     = "xterm-256color"
)

// Command describes the child to run. Env is passed through as given; TERM
// is added when absent.
type Command struct {
	Path string
	Args []string
	Env  []string
	Dir  string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Options tune session behaviour.
type Options struct {
	// ChunkDelay is slept between queued write chunks.
	ChunkDelay time.Duration
	// ReapGrace is the wait between SIGTERM and SIGKILL.
	ReapGrace time.Duration
}

// Session owns a child process and the PTY master.
type Session struct {
	command Command
	cmd     *exec.Cmd
	pty     *os.File
	opts    Options

	mu       sync.Mutex
	readCond *sync.Cond
	pending  []byte
	eof      bool

	writeMu   sync.Mutex
	writeCond *sync.Cond
	writeQ    [][]byte
	writeErr  error
	closed    bool

	exited chan struct{}
	reaped sync.Once
}

// Spawn starts cmd on a new PTY of the given size.
func Spawn(command Command, cols, rows int, opts Options) (*Session, error) {
	path, err := exec.LookPath(command.Path)
	if err != nil {
		return nil, classifySpawn(command.Path, err)
	}
	cmd := exec.Command(path, command.Args...)
	cmd.Env = withTerm(command.Env)
	cmd.Dir = command.Dir

	ptmx, err := pty.StartWithSize(cmd, winsize(cols, rows))
	if err != nil {
		return nil, classifySpawn(path, err)
	}
	if opts.ReapGrace <= 0 {
		opts.ReapGrace = DefaultReapGrace
	}

	s := &Session{
		command: command,
		cmd:     cmd,
		pty:     ptmx,
		opts:    opts,
		exited:  make(chan struct{}),
	}
	s.readCond = sync.NewCond(&s.mu)
	s.writeCond = sync.NewCond(&s.writeMu)

	go s.readLoop()
	go s.writeLoop()
	go func() {
		_ = cmd.Wait()
		close(s.exited)
	}()
	log.Printf("PTY: started %s (pid %d, %dx%d)", command, cmd.Process.Pid, cols, rows)
	return s, nil
}

func withTerm(env []string) []string {
	out := append([]string(nil), env...)
	for _, kv := range out {
		if strings.HasPrefix(kv, "TERM=") {
			return out
		}
	}
	return append(out, "TERM="+defaultTerm)
}

func winsize(cols, rows int) *pty.Winsize {
	return &pty.Winsize{Cols: uint16(max(cols, 1)), Rows: uint16(max(rows, 1))}
}

// Command returns the command line the session was started with.
func (s *Session) Command() Command { return s.command }

// Pid returns the child's process id.
func (s *Session) Pid() int { return s.cmd.Process.Pid }

func (s *Session) readLoop() {
	buf := make([]byte, 32<<10)
	for {
		n, err := s.pty.Read(buf)
		s.mu.Lock()
		if n > 0 {
			s.pending = append(s.pending, buf[:n]...)
		}
		if err != nil {
			// Every read failure, EIO on slave hangup included, ends the stream.
			if err != io.EOF && !isHangup(err) {
				log.Printf("PTY: %v", &IOError{Op: OpRead, Err: err})
			}
			s.eof = true
			s.mu.Unlock()
			return
		}
		for len(s.pending) >= readBufferLimit && !s.eof {
			s.readCond.Wait()
		}
		s.mu.Unlock()
	}
}

func isHangup(err error) bool {
	return errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}

// Drain returns up to limit buffered bytes without blocking. It returns
// (nil, nil) when nothing is pending and io.EOF once the child side closed
// and everything has been delivered.
func (s *Session) Drain(limit int) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultDrainMax
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		if s.eof {
			return nil, io.EOF
		}
		return nil, nil
	}
	n := min(limit, len(s.pending))
	out := make([]byte, n)
	copy(out, s.pending)
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
	s.readCond.Signal()
	return out, nil
}

// Write queues p for the child. Large writes are split into ChunkSize pieces.
func (s *Session) Write(p []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writeQ = append(s.writeQ, splitChunks(p)...)
	s.writeCond.Signal()
	return nil
}

// splitChunks copies p into pieces of at most ChunkSize bytes.
func splitChunks(p []byte) [][]byte {
	var out [][]byte
	for len(p) > 0 {
		n := min(len(p), ChunkSize)
		out = append(out, append([]byte(nil), p[:n]...))
		p = p[n:]
	}
	return out
}

func (s *Session) writeLoop() {
	for {
		s.writeMu.Lock()
		for len(s.writeQ) == 0 && !s.closed {
			s.writeCond.Wait()
		}
		if s.closed {
			s.writeQ = nil
			s.writeMu.Unlock()
			return
		}
		chunk := s.writeQ[0]
		s.writeQ = s.writeQ[1:]
		more := len(s.writeQ) > 0
		s.writeMu.Unlock()

		if _, err := s.pty.Write(chunk); err != nil {
			s.writeMu.Lock()
			s.writeErr = &IOError{Op: OpWrite, Err: err}
			s.writeQ = nil
			s.writeMu.Unlock()
			log.Printf("PTY: %v", s.writeErr)
			return
		}
		if more && s.opts.ChunkDelay > 0 {
			time.Sleep(s.opts.ChunkDelay)
		}
	}
}

// Resize updates the kernel window size.
func (s *Session) Resize(cols, rows int) error {
	s.writeMu.Lock()
	closed := s.closed
	s.writeMu.Unlock()
	if closed {
		return ErrClosed
	}
	if err := pty.Setsize(s.pty, winsize(cols, rows)); err != nil {
		return &IOError{Op: OpResize, Err: err}
	}
	return nil
}

// Alive reports whether the child is still running and its output is open.
func (s *Session) Alive() bool {
	select {
	case <-s.exited:
		return false
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.eof
}

// Exited is closed once the child has been collected.
func (s *Session) Exited() <-chan struct{} { return s.exited }

// ExitCode returns the child's exit status, or -1 while it is running.
func (s *Session) ExitCode() int {
	select {
	case <-s.exited:
		if s.cmd.ProcessState != nil {
			return s.cmd.ProcessState.ExitCode()
		}
	default:
	}
	return -1
}

// Reap terminates the child's process group with SIGTERM, escalates to
// SIGKILL after the grace period and waits for the child. Safe to call more
// than once.
func (s *Session) Reap() {
	s.reaped.Do(func() {
		s.writeMu.Lock()
		s.closed = true
		s.writeCond.Broadcast()
		s.writeMu.Unlock()

		pid := s.cmd.Process.Pid
		select {
		case <-s.exited:
		default:
			s.signal(pid, unix.SIGTERM)
			timer := time.NewTimer(s.opts.ReapGrace)
			select {
			case <-s.exited:
				timer.Stop()
			case <-timer.C:
				log.Printf("PTY: pid %d ignored SIGTERM, killing", pid)
				s.signal(pid, unix.SIGKILL)
				<-s.exited
			}
		}
		s.pty.Close()

		s.mu.Lock()
		s.eof = true
		s.readCond.Broadcast()
		s.mu.Unlock()
		log.Printf("PTY: reaped pid %d (exit %d)", pid, s.ExitCode())
	})
}

// signal targets the process group created by Setsid, falling back to the
// process itself.
func (s *Session) signal(pid int, sig unix.Signal) {
	if err := unix.Kill(-pid, sig); err != nil {
		_ = s.cmd.Process.Signal(sig)
	}
}
