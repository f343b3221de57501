// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ptysession/errors.go
// Summary: Structured spawn and I/O errors.

package ptysession

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned by Write and Resize on a dead session.
var ErrClosed = errors.New("ptysession: session closed")

// SpawnReason classifies spawn failures.
type SpawnReason int

const (
	SpawnOther SpawnReason = iota
	SpawnNotFound
	SpawnPermission
	SpawnResourceLimit
)

func (r SpawnReason) String() string {
	switch r {
	case SpawnNotFound:
		return "executable not found"
	case SpawnPermission:
		return "permission denied"
	case SpawnResourceLimit:
		return "resource limit reached"
	default:
		return "spawn failed"
	}
}

// SpawnError reports why a child could not be started.
type SpawnError struct {
	Reason SpawnReason
	Path   string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

func classifySpawn(path string, err error) *SpawnError {
	reason := SpawnOther
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		reason = SpawnNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		reason = SpawnPermission
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EMFILE),
		errors.Is(err, unix.ENFILE), errors.Is(err, unix.ENOMEM):
		reason = SpawnResourceLimit
	}
	return &SpawnError{Reason: reason, Path: path, Err: err}
}

// IOOp names the failing PTY operation.
type IOOp string

const (
	OpRead   IOOp = "read"
	OpWrite  IOOp = "write"
	OpResize IOOp = "resize"
)

// IOError wraps a PTY I/O failure.
type IOError struct {
	Op  IOOp
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("pty %s: %v", e.Op, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }
