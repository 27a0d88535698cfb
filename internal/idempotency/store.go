package idempotency

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store is a SQLite-backed key-existence ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger database at dataDir. If dataDir is empty
// it defaults to ~/.gspace.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gspace")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS completed_actions (
			key        TEXT PRIMARY KEY,
			note       TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating completed_actions table: %w", err)
	}
	return nil
}

// Done reports whether key has already been recorded.
func (s *Store) Done(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is required")
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM completed_actions WHERE key = ?", key).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking key %q: %w", key, err)
	}
	return true, nil
}

// Mark records key as done. Marking an existing key is a no-op.
func (s *Store) Mark(ctx context.Context, key, note string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO completed_actions (key, note, created_at) VALUES (?, ?, ?)",
		key, note, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("marking key %q: %w", key, err)
	}
	return nil
}

// Forget removes key from the ledger so the action can run again.
func (s *Store) Forget(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM completed_actions WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("forgetting key %q: %w", key, err)
	}
	return nil
}

// Entry is one recorded action.
type Entry struct {
	Key       string
	Note      string
	CreatedAt time.Time
}

// List returns all recorded entries with the given key prefix, newest first.
// An empty prefix returns everything.
func (s *Store) List(ctx context.Context, prefix string) ([]Entry, error) {
	// LIKE wildcards in the prefix must match literally
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, note, created_at FROM completed_actions
		WHERE key LIKE ? || '%' ESCAPE '\'
		ORDER BY created_at DESC`, escaped)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
