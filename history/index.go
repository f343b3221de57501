// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/index.go
// Summary: SQLite FTS5 index over lines that scrolled out of each window.
//
// Lines are appended in one transaction per window and matched as
// case-insensitive substrings, newest first. Queries shorter than three
// characters bypass the trigram index and use LIKE.

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Match is one search hit.
type Match struct {
	WindowID uint32
	Seq      int64
	Time     time.Time
	Content  string
}

// Index stores scrollback lines keyed by window id.
type Index struct {
	db *sql.DB
	mu sync.Mutex
}

const schema = `
CREATE TABLE IF NOT EXISTS lines (
    seq       INTEGER PRIMARY KEY AUTOINCREMENT,
    window_id INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    content   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lines_window ON lines(window_id, seq);

CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
    content,
    content='lines',
    content_rowid='seq',
    tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
    INSERT INTO lines_fts(rowid, content) VALUES (new.seq, new.content);
END;

CREATE TRIGGER IF NOT EXISTS lines_ad AFTER DELETE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, content) VALUES ('delete', old.seq, old.content);
END;
`

// Open creates or opens the index at path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: connect %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	log.Printf("History: index open at %s", path)
	return &Index{db: db}, nil
}

// Append stores lines for a window in a single transaction. Blank lines are skipped.
func (x *Index) Append(windowID uint32, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO lines (window_id, timestamp, content) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("history: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := stmt.Exec(windowID, now, line); err != nil {
			tx.Rollback()
			return fmt.Errorf("history: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// Search returns up to limit lines of windowID containing query, newest first.
func (x *Index) Search(windowID uint32, query string, limit int) ([]Match, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	var (
		rows *sql.Rows
		err  error
	)
	if len(query) < 3 {
		pattern := "%" + strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(query) + "%"
		rows, err = x.db.Query(`
			SELECT seq, window_id, timestamp, content
			FROM lines
			WHERE window_id = ? AND content LIKE ? ESCAPE '\'
			ORDER BY seq DESC
			LIMIT ?`, windowID, pattern, limit)
	} else {
		quoted := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
		rows, err = x.db.Query(`
			SELECT l.seq, l.window_id, l.timestamp, l.content
			FROM lines_fts
			JOIN lines l ON l.seq = lines_fts.rowid
			WHERE lines_fts MATCH ? AND l.window_id = ?
			ORDER BY l.seq DESC
			LIMIT ?`, quoted, windowID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var (
			m  Match
			ts int64
		)
		if err := rows.Scan(&m.Seq, &m.WindowID, &ts, &m.Content); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		m.Time = time.Unix(0, ts)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of stored lines for a window.
func (x *Index) Count(windowID uint32) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	var n int
	err := x.db.QueryRow("SELECT COUNT(*) FROM lines WHERE window_id = ?", windowID).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}

// Forget drops every line of a window.
func (x *Index) Forget(windowID uint32) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, err := x.db.Exec("DELETE FROM lines WHERE window_id = ?", windowID); err != nil {
		return fmt.Errorf("history: forget %d: %w", windowID, err)
	}
	return nil
}

// Close releases the database.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.db.Close()
}
