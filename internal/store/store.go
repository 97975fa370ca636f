package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is the SQLite ledger of sessions and batch runs. It is bookkeeping
// only: callers log and carry on when a Store write fails.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session TEXT PRIMARY KEY,
	subject TEXT NOT NULL DEFAULT '',
	visit TEXT NOT NULL DEFAULT '',
	original_filename TEXT NOT NULL DEFAULT '',
	renamed_at DATETIME,
	aligned_at DATETIME,
	speaker_mapping TEXT NOT NULL DEFAULT '',
	annotated_at DATETIME,
	edit_count INTEGER NOT NULL DEFAULT 0,
	repeat_count INTEGER NOT NULL DEFAULT 0,
	restart_count INTEGER NOT NULL DEFAULT 0,
	exported_at DATETIME,
	export_lines INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	finished_at DATETIME,
	annotate INTEGER NOT NULL DEFAULT 0,
	liwc INTEGER NOT NULL DEFAULT 0,
	processed INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_subject ON sessions(subject);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Open opens (creating if needed) the session database at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRename upserts the normalization of one session.
func (s *Store) RecordRename(ctx context.Context, session, subject, visit, original string) error {
	query := `
	INSERT INTO sessions (session, subject, visit, original_filename, renamed_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(session) DO UPDATE SET
		subject = excluded.subject,
		visit = excluded.visit,
		original_filename = excluded.original_filename,
		renamed_at = excluded.renamed_at
	`
	if _, err := s.db.ExecContext(ctx, query, session, subject, visit, original, time.Now()); err != nil {
		return fmt.Errorf("record rename: %w", err)
	}
	return nil
}

// RecordAlign upserts the speaker mapping chosen for one session.
func (s *Store) RecordAlign(ctx context.Context, session string, mapping map[string]string) error {
	encoded, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	query := `
	INSERT INTO sessions (session, aligned_at, speaker_mapping)
	VALUES (?, ?, ?)
	ON CONFLICT(session) DO UPDATE SET
		aligned_at = excluded.aligned_at,
		speaker_mapping = excluded.speaker_mapping
	`
	if _, err := s.db.ExecContext(ctx, query, session, time.Now(), string(encoded)); err != nil {
		return fmt.Errorf("record align: %w", err)
	}
	return nil
}

// RecordAnnotation upserts the disfluency totals for one session.
func (s *Store) RecordAnnotation(ctx context.Context, session string, edit, repeat, restart int) error {
	query := `
	INSERT INTO sessions (session, annotated_at, edit_count, repeat_count, restart_count)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(session) DO UPDATE SET
		annotated_at = excluded.annotated_at,
		edit_count = excluded.edit_count,
		repeat_count = excluded.repeat_count,
		restart_count = excluded.restart_count
	`
	if _, err := s.db.ExecContext(ctx, query, session, time.Now(), edit, repeat, restart); err != nil {
		return fmt.Errorf("record annotation: %w", err)
	}
	return nil
}

// RecordExport upserts the LIWC export result for one session.
func (s *Store) RecordExport(ctx context.Context, session string, lines int) error {
	query := `
	INSERT INTO sessions (session, exported_at, export_lines)
	VALUES (?, ?, ?)
	ON CONFLICT(session) DO UPDATE SET
		exported_at = excluded.exported_at,
		export_lines = excluded.export_lines
	`
	if _, err := s.db.ExecContext(ctx, query, session, time.Now(), lines); err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// BeginRun inserts a new batch run and returns its ID.
func (s *Store) BeginRun(ctx context.Context, annotate, liwc bool) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO runs (id, started_at, annotate, liwc) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id, time.Now(), annotate, liwc); err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// FinishRun records the outcome of a batch run.
func (s *Store) FinishRun(ctx context.Context, id string, processed, failed int) error {
	query := `UPDATE runs SET finished_at = ?, processed = ?, failed = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, time.Now(), processed, failed, id); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Session is one row of the session ledger.
type Session struct {
	Session      string
	Subject      string
	Visit        string
	Original     string
	EditCount    int
	RepeatCount  int
	RestartCount int
	ExportLines  int
}

// ListSessions returns the ledger ordered by session ID.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	query := `
	SELECT session, subject, visit, original_filename,
	       edit_count, repeat_count, restart_count, export_lines
	FROM sessions ORDER BY session
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.Session, &sess.Subject, &sess.Visit, &sess.Original,
			&sess.EditCount, &sess.RepeatCount, &sess.RestartCount, &sess.ExportLines); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}
