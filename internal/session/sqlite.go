package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"scicalc/internal/calculator"
)

// SchemaVersion is the sessions table layout this build reads and writes.
const SchemaVersion = "1"

// SQLite is a SQLite-backed store. Each row holds one JSON-encoded state.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) checkSchema() error {
	var version string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec("INSERT INTO metadata (key, value) VALUES ('schema_version', ?)", SchemaVersion)
		return err
	case err != nil:
		return err
	case version != SchemaVersion:
		return fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, id string) (calculator.State, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM sessions WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return calculator.State{}, false, nil
	}
	if err != nil {
		return calculator.State{}, false, err
	}

	var st calculator.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return calculator.State{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return st, true, nil
}

func (s *SQLite) Save(ctx context.Context, id string, st calculator.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`, id, string(raw), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
