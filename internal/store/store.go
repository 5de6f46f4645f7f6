package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Slot names for the three durable blobs. All persistent state in MartDesk
// lives in these slots; nothing else is written to the store.
const (
	SlotAdminUsers       = "adminUsers"       // JSON array of model.AdminUser
	SlotAdminCredentials = "adminCredentials" // JSON object username -> model.Credential
	SlotCurrentAdmin     = "currentAdmin"     // JSON model.Session, absent when logged out
)

// Store is the narrow interface over MartDesk's durable state: whole blobs
// read and written under named slots. There is exactly one writer per
// deployment, so each mutation is a full read-modify-write of one slot and
// no partial-update contract exists.
type Store interface {
	// Get returns the blob stored under slot, or ErrNotFound.
	Get(ctx context.Context, slot string) ([]byte, error)
	// Set replaces the blob stored under slot.
	Set(ctx context.Context, slot string, data []byte) error
	// Delete removes the slot. Deleting an absent slot is a no-op.
	Delete(ctx context.Context, slot string) error
	Close() error
}

// SQLiteStore persists slots in a single-table SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the slot database under dataDir. Pass
// empty string for in-memory.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	var dsn string
	if dataDir == "" {
		dsn = ":memory:?_journal_mode=WAL"
	} else {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, "martdesk.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open slot database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate slot database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const schema = `CREATE TABLE IF NOT EXISTS slots (
		slot TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create slots table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the blob stored under slot.
func (s *SQLiteStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var data string
	err := s.db.GetContext(ctx, &data, "SELECT data FROM slots WHERE slot = ?", slot)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot %q: %w", slot, err)
	}
	return []byte(data), nil
}

// Set replaces the blob stored under slot.
func (s *SQLiteStore) Set(ctx context.Context, slot string, data []byte) error {
	const q = `INSERT INTO slots (slot, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, q, slot, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("set slot %q: %w", slot, err)
	}
	return nil
}

// Delete removes the slot. Absent slots are ignored so callers can treat
// Delete as idempotent.
func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM slots WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
