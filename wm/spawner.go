// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/spawner.go
// Summary: Session and Spawner seams between the manager and ptysession.

package wm

import "github.com/framegrace/texelwm/ptysession"

// Session is the part of a PTY session the manager drives.
type Session interface {
	Drain(limit int) ([]byte, error)
	Write(p []byte) error
	Resize(cols, rows int) error
	Reap()
}

// Spawner starts sessions for new windows.
type Spawner interface {
	Spawn(cmd ptysession.Command, cols, rows int) (Session, error)
}

// PTYSpawner spawns real pseudo-terminal sessions.
type PTYSpawner struct {
	Options ptysession.Options
}

// Spawn implements Spawner.
func (p PTYSpawner) Spawn(cmd ptysession.Command, cols, rows int) (Session, error) {
	s, err := ptysession.Spawn(cmd, cols, rows, p.Options)
	if err != nil {
		return nil, err
	}
	return s, nil
}
