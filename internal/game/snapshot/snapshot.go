// Package snapshot defines the persisted game record and the pure transitions
// that produce a new record from an old one.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// LogRetained is the number of older log entries kept when a new one is appended.
const LogRetained = 20

// ErrSaveNotFound is returned by a Store when no save exists for a slot.
var ErrSaveNotFound = errors.New("save not found")

// Snapshot is the persisted record of a game in progress.
//
// Invariant: len(Log) <= LogRetained+1; LocationID names a location in World.
type Snapshot struct {
	Player     character.Player `json:"player"`
	StoryText  string           `json:"story_text"`
	Actions    []world.Action   `json:"actions"`
	Log        []string         `json:"log"`
	World      world.Map        `json:"world"`
	LocationID string           `json:"location_id"`
}

// Store persists snapshots by slot name.
type Store interface {
	// Save writes s to slot, replacing any previous save.
	Save(ctx context.Context, slot string, s Snapshot) error
	// Load returns the snapshot in slot, or ErrSaveNotFound.
	Load(ctx context.Context, slot string) (Snapshot, error)
}

// Summary describes one save without its full record.
type Summary struct {
	Slot       string    `json:"slot"`
	PlayerName string    `json:"player_name"`
	Level      int       `json:"level"`
	LocationID string    `json:"location_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Lister is implemented by stores that can enumerate their saves.
type Lister interface {
	// List returns every save, most recently updated first.
	List(ctx context.Context) ([]Summary, error)
}

// New starts a game for player on m at m's start location.
//
// Precondition: m passes Validate; class is player's class.
func New(player character.Player, class *ruleset.Class, m world.Map) Snapshot {
	m, _ = world.Move(m, m.StartLocationID)
	return Snapshot{
		Player:     player,
		World:      m,
		LocationID: m.StartLocationID,
		Log:        []string{fmt.Sprintf("The adventure of %s the %s begins...", player.Name, class.Name)},
	}
}

// Validate checks the snapshot's structural invariants.
func (s Snapshot) Validate() error {
	if s.Player.Name == "" {
		return fmt.Errorf("snapshot: player name must not be empty")
	}
	if err := s.World.Validate(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if _, ok := s.World.Location(s.LocationID); !ok {
		return fmt.Errorf("snapshot: location %q not found in world", s.LocationID)
	}
	if len(s.Log) > LogRetained+1 {
		return fmt.Errorf("snapshot: log holds %d entries, limit %d", len(s.Log), LogRetained+1)
	}
	return nil
}

// Location returns the player's current location.
func (s Snapshot) Location() world.Location {
	l, _ := s.World.Location(s.LocationID)
	return l
}

// appendLog returns log followed by msg, trimmed to the newest LogRetained+1
// entries. log is never modified.
func appendLog(log []string, msg ...string) []string {
	out := append(slices.Clone(log), msg...)
	if len(out) > LogRetained+1 {
		out = out[len(out)-(LogRetained+1):]
	}
	return slices.Clip(out)
}
