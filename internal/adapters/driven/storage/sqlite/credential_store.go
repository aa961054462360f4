// Package sqlite stores the token cache blob in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS token_cache (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	blob       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// CredentialStore keeps the token cache in a single-row table.
type CredentialStore struct {
	db *sql.DB
}

// Open opens or creates the database at path. Parent directories are created.
func Open(path string) (*CredentialStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if path != ":memory:" {
		if err := os.Chmod(path, 0o600); err != nil {
			db.Close()
			return nil, fmt.Errorf("restricting database permissions: %w", err)
		}
	}
	return &CredentialStore{db: db}, nil
}

// Close closes the database.
func (s *CredentialStore) Close() error {
	return s.db.Close()
}

// Load returns the stored blob, or nil if none has been saved.
func (s *CredentialStore) Load(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM token_cache WHERE id = 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading token cache: %w", err)
	}
	return blob, nil
}

// Save upserts the blob. An identical blob leaves the row untouched.
func (s *CredentialStore) Save(ctx context.Context, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO token_cache (id, blob, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at
		WHERE token_cache.blob IS NOT excluded.blob`, blob)
	if err != nil {
		return fmt.Errorf("saving token cache: %w", err)
	}
	return nil
}
