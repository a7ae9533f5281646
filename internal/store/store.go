// Package store is the durable persistence adapter for the session model: a
// single versioned full-state snapshot in a local SQLite database, written
// behind the in-memory state and restored on process start.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/claude/liftlog/internal/workout"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// snapshotVersion tags the persisted record shape. An incompatible
	// future shape bumps this; old records are then treated as absent
	// rather than risking a crash on decode.
	snapshotVersion = "v1"

	// currentSlot is the single slot the active session lives in.
	currentSlot = "current"
)

// Store persists full session snapshots in a SQLite database at dir/state.db.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the state database and applies pending migrations.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating state db: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// SaveSession overwrites the current slot with a snapshot of the session.
// The full state is always written, never a diff; the most recent write is
// authoritative.
func (s *Store) SaveSession(sess *workout.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO session_snapshots (slot, version, data) VALUES (?, ?, ?)`,
		currentSlot, snapshotVersion, data,
	)
	if err != nil {
		return fmt.Errorf("writing session snapshot: %w", err)
	}
	return nil
}

// LoadSession restores the last durably-written session. An absent record, a
// version mismatch, or an undecodable payload all yield (nil, nil): losing an
// in-progress workout is preferable to failing at startup.
func (s *Store) LoadSession() (*workout.Session, error) {
	var version string
	var data []byte
	err := s.db.QueryRow(
		`SELECT version, data FROM session_snapshots WHERE slot = ?`, currentSlot,
	).Scan(&version, &data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session snapshot: %w", err)
	}

	if version != snapshotVersion {
		s.log.Warn("session snapshot version mismatch, starting fresh",
			"have", version, "want", snapshotVersion)
		return nil, nil
	}

	var sess workout.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.log.Warn("corrupt session snapshot, starting fresh", "error", err)
		return nil, nil
	}
	return &sess, nil
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}
