// Package sqlite stores game saves in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/emberfall/internal/game/snapshot"
)

// Store persists snapshots in SQLite, one row per slot.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest embedded schema. The special path ":memory:" opens a private in-memory database.
//
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if _, err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate brings the schema to the latest embedded version and returns it.
func (s *Store) Migrate() (uint, error) {
	mg, err := s.Migrator()
	if err != nil {
		return 0, err
	}
	if err := mg.Up(0); err != nil {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	version, _, err := mg.Version()
	return version, err
}

// Migrator returns a migrator bound to the store's database.
func (s *Store) Migrator() (*Migrator, error) {
	return NewMigrator(s.db)
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save upserts snap into slot.
//
// Precondition: slot must be non-empty.
func (s *Store) Save(ctx context.Context, slot string, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(slot) == "" {
		return fmt.Errorf("save slot is required")
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode save %q: %w", slot, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, player_name, level, location_id, game, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
		  player_name = excluded.player_name,
		  level       = excluded.level,
		  location_id = excluded.location_id,
		  game        = excluded.game,
		  updated_at  = excluded.updated_at`,
		slot, snap.Player.Name, snap.Player.Level, snap.LocationID, string(body), s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write save %q: %w", slot, err)
	}
	return nil
}

// Load returns the snapshot in slot, or snapshot.ErrSaveNotFound.
func (s *Store) Load(ctx context.Context, slot string) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT game FROM saves WHERE slot = ?`, slot).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.Snapshot{}, snapshot.ErrSaveNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("read save %q: %w", slot, err)
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decode save %q: %w", slot, err)
	}
	return snap, nil
}

// List returns a summary of every save, most recently updated first.
func (s *Store) List(ctx context.Context) ([]snapshot.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot, player_name, level, location_id, updated_at
		FROM saves ORDER BY updated_at DESC, slot ASC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []snapshot.Summary
	for rows.Next() {
		var sum snapshot.Summary
		var updated int64
		if err := rows.Scan(&sum.Slot, &sum.PlayerName, &sum.Level, &sum.LocationID, &updated); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		sum.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the save in slot, or returns snapshot.ErrSaveNotFound.
func (s *Store) Delete(ctx context.Context, slot string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete save %q: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save %q: %w", slot, err)
	}
	if n == 0 {
		return snapshot.ErrSaveNotFound
	}
	return nil
}
