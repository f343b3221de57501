// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/options.go
// Summary: Translates resolved settings into window manager options.

package desktop

import (
	"fmt"
	"strings"

	"github.com/framegrace/texelwm/config"
	"github.com/framegrace/texelwm/input"
	"github.com/framegrace/texelwm/ptysession"
	"github.com/framegrace/texelwm/wm"
)

// ManagerOptions builds wm.Options from settings. env is the environment
// handed to every child; TERM is replaced with the configured value.
func ManagerOptions(s config.Settings, env []string) (wm.Options, error) {
	if len(s.Shell) == 0 {
		return wm.Options{}, fmt.Errorf("shell: no command configured")
	}
	prefix, err := input.ParseKey(s.PrefixKey)
	if err != nil {
		return wm.Options{}, fmt.Errorf("wm.prefix_key: %w", err)
	}
	layout, err := wm.ParseLayout(s.Layout)
	if err != nil {
		return wm.Options{}, fmt.Errorf("wm.layout: %w", err)
	}

	opts := wm.DefaultOptions()
	opts.Shell = ptysession.Command{Path: s.Shell[0], Args: s.Shell[1:], Env: withTerm(env, s.Term)}
	opts.Spawner = wm.PTYSpawner{Options: ptysession.Options{ChunkDelay: s.ChunkDelay, ReapGrace: s.ReapGrace}}
	opts.Scrollback = s.Scrollback
	opts.PrefixKey = prefix
	opts.Layout = layout
	opts.Gaps = s.Gaps
	opts.Tiling = s.Tiling
	opts.CloseOnExit = s.CloseOnExit
	opts.ClearSelectionOnBlur = s.ClearSelectionOnBlur
	opts.SnapOnDrag = s.SnapOnDrag
	opts.BracketedPaste = s.BracketedPaste
	return opts, nil
}

func withTerm(env []string, term string) []string {
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if !strings.HasPrefix(kv, "TERM=") {
			out = append(out, kv)
		}
	}
	if term == "" {
		term = "xterm-256color"
	}
	return append(out, "TERM="+term)
}
