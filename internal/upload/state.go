package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// StateDB tracks which files have been pushed so they are not sent twice.
// The server appends Alpha sessions without deduplicating, so this is the
// only thing keeping a re-run from doubling the log.
type StateDB struct {
	db *sqlx.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sqlx.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pushed_files (
		path      TEXT PRIMARY KEY,
		size      INTEGER NOT NULL,
		hash      TEXT NOT NULL,
		sessions  INTEGER NOT NULL DEFAULT 0,
		pushed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsPushed reports whether the file was already pushed with the same size and hash.
func (s *StateDB) IsPushed(ctx context.Context, relPath string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pushed_files WHERE path = ? AND size = ? AND hash = ?`,
		relPath, size, hash)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkPushed records a successful push. A changed file replaces its old row.
func (s *StateDB) MarkPushed(ctx context.Context, relPath string, size int64, hash string, sessions int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pushed_files (path, size, hash, sessions) VALUES (?, ?, ?, ?)`,
		relPath, size, hash, sessions)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashBytes returns the hex SHA-256 of data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
