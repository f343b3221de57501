// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/compose.go
// Summary: Builds the compositor scene from the window stack.

package wm

import (
	"github.com/framegrace/texelwm/compositor"
	"github.com/framegrace/texelwm/grid"
)

// Scene returns the drawable state of the desktop.
func (m *Manager) Scene() compositor.Scene {
	numbers := m.Numbers()
	scene := compositor.Scene{Workspace: m.workspace, ShowNumbers: m.keyMode}
	for _, w := range m.stack {
		if w.Minimized {
			continue
		}
		scene.Windows = append(scene.Windows, compositor.WindowView{
			Rect:    w.Rect,
			Title:   w.liveTitle(),
			Focused: w.Focused,
			KeyMode: m.keyMode,
			Number:  numbers[w.ID],
			Content: w.term,
		})
	}
	return scene
}

// Compose renders the workspace into frame.
func (m *Manager) Compose(frame *grid.Grid) {
	m.comp.Compose(frame, m.Scene())
}
