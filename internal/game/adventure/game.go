// Package adventure runs games: exploration, social encounters, fights and
// saves, layered over the pure snapshot transitions and the encounter engine.
package adventure

import (
	"errors"

	"github.com/google/uuid"

	"github.com/cory-johannsen/emberfall/internal/game/snapshot"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

var (
	// ErrGameNotFound is returned when no live game has the requested ID.
	ErrGameNotFound = errors.New("game not found")
	// ErrWrongMode is returned when an operation does not fit the game's current mode.
	ErrWrongMode = errors.New("operation not allowed in current mode")
	// ErrInvalidChoice is returned for an out-of-range action or social choice index.
	ErrInvalidChoice = errors.New("no such choice")
	// ErrUnknownClass is returned by NewGame for a class missing from the catalog.
	ErrUnknownClass = errors.New("unknown class")
	// ErrListUnsupported is returned by Saves when the store cannot enumerate.
	ErrListUnsupported = errors.New("save store cannot list saves")
)

// Game is the live state of one adventure.
type Game struct {
	ID    uuid.UUID         `json:"id"`
	Mode  snapshot.Mode     `json:"mode"`
	State snapshot.Snapshot `json:"state"`
	// EncounterID names the live encounter while Mode is combat.
	EncounterID uuid.UUID `json:"encounter_id,omitzero"`
	// Social holds the pending meeting while Mode is social.
	Social *world.SocialEncounter `json:"social,omitempty"`
}

func (g Game) require(m snapshot.Mode) error {
	if g.Mode != m {
		return ErrWrongMode
	}
	return nil
}
