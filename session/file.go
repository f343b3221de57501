// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/file.go
// Summary: Atomic save and size/version checked load of session files.

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/framegrace/texelwm/internal/atomicfile"
)

// Save writes s to path atomically. Version is forced to the current value.
func Save(path string, s *Snapshot) error {
	s.Version = Version
	data, err := json.Marshal(s)
	if err != nil {
		return &Error{Kind: KindIO, Path: path, Err: err}
	}
	if len(data) > MaxFileBytes {
		return &Error{Kind: KindTooLarge, Path: path, Err: fmt.Errorf("%d bytes", len(data))}
	}
	if err := atomicfile.Write(path, data, 0o600); err != nil {
		return &Error{Kind: KindIO, Path: path, Err: err}
	}
	log.Printf("Session: saved %d windows to %s (%d bytes)", len(s.Windows), path, len(data))
	return nil
}

// Load reads and validates the file at path. A missing file yields
// (nil, nil) so callers can start fresh.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: path, Err: err}
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileBytes {
		return nil, &Error{Kind: KindTooLarge, Path: path, Err: fmt.Errorf("%d bytes", info.Size())}
	}
	data, err := io.ReadAll(io.LimitReader(f, MaxFileBytes+1))
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: path, Err: err}
	}
	if len(data) > MaxFileBytes {
		return nil, &Error{Kind: KindTooLarge, Path: path}
	}
	return Decode(path, data)
}

// Decode parses and validates an encoded snapshot. path is only used in errors.
func Decode(path string, data []byte) (*Snapshot, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &Error{Kind: KindCorrupt, Path: path, Err: err}
	}
	if head.Version == nil {
		return nil, &Error{Kind: KindCorrupt, Path: path, Err: errors.New("missing version")}
	}
	if *head.Version != Version {
		return nil, &Error{Kind: KindBadVersion, Path: path, Err: fmt.Errorf("version %d, want %d", *head.Version, Version)}
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &Error{Kind: KindCorrupt, Path: path, Err: err}
	}
	if err := s.validate(); err != nil {
		return nil, &Error{Kind: KindCorrupt, Path: path, Err: err}
	}
	return &s, nil
}

func (s *Snapshot) validate() error {
	seen := make(map[uint32]bool, len(s.Windows))
	for _, w := range s.Windows {
		if w.ID == 0 {
			return errors.New("window id 0")
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate window id %d", w.ID)
		}
		seen[w.ID] = true
		if w.Rect.W <= 0 || w.Rect.H <= 0 {
			return fmt.Errorf("window %d: empty rectangle", w.ID)
		}
		if _, err := w.Terminal.Snapshot(); err != nil {
			return fmt.Errorf("window %d: %w", w.ID, err)
		}
	}
	if s.FocusedID != nil && !seen[*s.FocusedID] {
		return fmt.Errorf("focused id %d does not exist", *s.FocusedID)
	}
	return nil
}
