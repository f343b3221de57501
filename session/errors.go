// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/errors.go
// Summary: Structured session file errors.

package session

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against *Error.
var (
	ErrTooLarge   = errors.New("session: file too large")
	ErrBadVersion = errors.New("session: incompatible version")
	ErrCorrupt    = errors.New("session: corrupt file")
)

// ErrorKind classifies session failures.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindTooLarge
	KindBadVersion
	KindCorrupt
)

func (k ErrorKind) String() string {
	switch k {
	case KindTooLarge:
		return "too large"
	case KindBadVersion:
		return "bad version"
	case KindCorrupt:
		return "corrupt"
	default:
		return "io"
	}
}

// Error reports a load or save failure for a session file.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("session %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("session %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTooLarge:
		return e.Kind == KindTooLarge
	case ErrBadVersion:
		return e.Kind == KindBadVersion
	case ErrCorrupt:
		return e.Kind == KindCorrupt
	}
	return false
}
