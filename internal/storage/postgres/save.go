package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/emberfall/internal/game/snapshot"
)

// SaveRepository persists snapshots as JSONB rows keyed by slot.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the saves table migrated.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save upserts s into slot.
//
// Precondition: slot must be non-empty.
// Postcondition: A later Load(slot) returns s.
func (r *SaveRepository) Save(ctx context.Context, slot string, s snapshot.Snapshot) error {
	if slot == "" {
		return fmt.Errorf("saving game: slot must not be empty")
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", slot, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO saves (slot, player_name, level, location_id, game, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (slot) DO UPDATE
		SET player_name = EXCLUDED.player_name,
		    level       = EXCLUDED.level,
		    location_id = EXCLUDED.location_id,
		    game        = EXCLUDED.game,
		    updated_at  = NOW()`,
		slot, s.Player.Name, s.Player.Level, s.LocationID, body,
	)
	if err != nil {
		return fmt.Errorf("writing save %q: %w", slot, err)
	}
	return nil
}

// Load returns the snapshot in slot.
//
// Postcondition: Returns snapshot.ErrSaveNotFound when slot has no save.
func (r *SaveRepository) Load(ctx context.Context, slot string) (snapshot.Snapshot, error) {
	var body []byte
	err := r.db.QueryRow(ctx, `SELECT game FROM saves WHERE slot = $1`, slot).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snapshot.Snapshot{}, snapshot.ErrSaveNotFound
		}
		return snapshot.Snapshot{}, fmt.Errorf("reading save %q: %w", slot, err)
	}
	var s snapshot.Snapshot
	if err := json.Unmarshal(body, &s); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decoding save %q: %w", slot, err)
	}
	return s, nil
}

// List returns a summary of every save, most recently updated first.
func (r *SaveRepository) List(ctx context.Context) ([]snapshot.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot, player_name, level, location_id, updated_at
		FROM saves ORDER BY updated_at DESC, slot ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []snapshot.Summary
	for rows.Next() {
		var s snapshot.Summary
		var updated time.Time
		if err := rows.Scan(&s.Slot, &s.PlayerName, &s.Level, &s.LocationID, &updated); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		s.UpdatedAt = updated
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	return out, nil
}

// Delete removes the save in slot. Deleting a missing slot returns snapshot.ErrSaveNotFound.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("deleting save %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return snapshot.ErrSaveNotFound
	}
	return nil
}
