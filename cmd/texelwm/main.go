// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelwm/main.go
// Summary: Entry point for the texelwm terminal desktop.
// Usage: texelwm [-session path] [-no-restore] [-restore-required] [-shell cmd] [-verbose] [-log path]
// Notes: Exit codes are 0 on success, 1 on generic failure, 2 when a required
// session restore fails and 3 when the terminal backend cannot start.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/framegrace/texelwm/backend"
	"github.com/framegrace/texelwm/config"
	"github.com/framegrace/texelwm/desktop"
	"github.com/framegrace/texelwm/history"
	"github.com/framegrace/texelwm/internal/clipboard"
	"github.com/framegrace/texelwm/internal/logging"
	"github.com/framegrace/texelwm/session"
	"github.com/framegrace/texelwm/wm"
)

const (
	exitOK = iota
	exitFailure
	exitBadSession
	exitBackend
)

func main() {
	os.Exit(run())
}

func run() int {
	sessionPath := flag.String("session", "", "Session file to restore and save (default from config)")
	noRestore := flag.Bool("no-restore", false, "Start with an empty desktop")
	restoreRequired := flag.Bool("restore-required", false, "Fail with exit code 2 when the session cannot be restored")
	shell := flag.String("shell", "", "Shell command for new windows")
	verbose := flag.Bool("verbose", false, "Log every escape sequence and unhandled control")
	logPath := flag.String("log", "", "Log file path (default under the config directory)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "texelwm: stdout is not a terminal")
		return exitBackend
	}

	if *logPath == "" {
		if p, err := config.DefaultLogPath(); err == nil {
			*logPath = p
		}
	}
	closer, err := logging.Setup(logging.Options{Path: *logPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "texelwm: %v\n", err)
		return exitFailure
	}
	defer closer.Close()

	if err := config.Err(); err != nil {
		log.Printf("Config: using defaults: %v", err)
	}
	settings, err := config.FromConfig(config.System(), os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "texelwm: config: %v\n", err)
		return exitFailure
	}
	if *shell != "" {
		argv, err := config.ParseCommand(*shell)
		if err != nil {
			fmt.Fprintf(os.Stderr, "texelwm: -shell: %v\n", err)
			return exitFailure
		}
		settings.Shell = argv
	}
	if *sessionPath != "" {
		settings.SessionPath = *sessionPath
	}

	opts, err := desktop.ManagerOptions(settings, os.Environ())
	if err != nil {
		fmt.Fprintf(os.Stderr, "texelwm: config: %v\n", err)
		return exitFailure
	}
	opts.Debug = *verbose

	if settings.HistoryEnabled {
		idx, err := history.Open(settings.HistoryPath)
		if err != nil {
			log.Printf("History: disabled: %v", err)
		} else {
			defer idx.Close()
			opts.History = idx
		}
	}

	// Validate a mandatory session before taking over the terminal.
	restore := *restoreRequired || (settings.RestoreOnStart && !*noRestore)
	if *restoreRequired {
		if _, err := session.Load(settings.SessionPath); err != nil {
			fmt.Fprintf(os.Stderr, "texelwm: %v\n", err)
			return exitBadSession
		}
	}

	be, err := backend.NewTcell()
	if err != nil {
		fmt.Fprintf(os.Stderr, "texelwm: terminal: %v\n", err)
		return exitBackend
	}
	defer be.Close()

	cols, rows := be.Dimensions()
	ws := desktop.Workspace(cols, rows)
	var mgr *wm.Manager
	var restoreErr error
	if restore {
		mgr, restoreErr = wm.Load(settings.SessionPath, ws, opts)
		if restoreErr != nil {
			if *restoreRequired {
				be.Close()
				fmt.Fprintf(os.Stderr, "texelwm: %v\n", restoreErr)
				return exitBadSession
			}
			log.Printf("Session: restore failed: %v", restoreErr)
		}
	}
	if mgr == nil {
		mgr = wm.NewManager(ws, opts)
	}

	d := desktop.New(be, mgr, desktop.Options{
		SessionPath: settings.SessionPath,
		SaveOnExit:  settings.SaveOnExit,
		Clipboard:   &clipboard.Fallback{Primary: clipboard.System{}},
	})
	if restoreErr != nil {
		d.ShowError("Session restore failed", restoreErr)
	}
	d.EnsureWindow()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := d.Run(ctx); err != nil {
		log.Printf("Desktop: %v", err)
		return exitFailure
	}
	return exitOK
}
