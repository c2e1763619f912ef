// Package content is the boundary to whatever supplies narrative: scene text,
// enemy rosters and social encounters. Providers may fail; Guarded turns every
// failure into a deterministic fallback.
package content

import (
	"context"
	"errors"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// ErrUnsupported is returned by a provider that cannot produce a payload kind.
var ErrUnsupported = errors.New("content kind not supported by provider")

var errEmptyRoster = errors.New("encounter roster is empty")

// Notice is the narrative line logged whenever a fallback payload is used.
const Notice = "A strange energy interferes with your perception..."

// Scene is the narrative for arriving at or looking around a location.
type Scene struct {
	Description string          `json:"description"`
	Actions     []world.Action  `json:"actions"`
	FoundItem   *inventory.Item `json:"found_item,omitempty"`
	Fallback    bool            `json:"fallback,omitempty"`
}

// ExploreResult is the outcome of taking a non-travel action.
// At most one of TriggerCombat and TriggerSocial is set.
type ExploreResult struct {
	Outcome       string          `json:"outcome"`
	FoundItem     *inventory.Item `json:"found_item,omitempty"`
	TriggerCombat bool            `json:"trigger_combat,omitempty"`
	TriggerSocial bool            `json:"trigger_social,omitempty"`
	Fallback      bool            `json:"fallback,omitempty"`
}

// EncounterPayload is a roster of enemies to fight.
type EncounterPayload struct {
	Enemies  []npc.Enemy `json:"enemies"`
	Fallback bool        `json:"fallback,omitempty"`
}

// Social is a non-combat encounter.
type Social struct {
	Encounter world.SocialEncounter `json:"encounter"`
	Fallback  bool                  `json:"fallback,omitempty"`
}

// Provider supplies narrative content for a player.
type Provider interface {
	// Scene describes location at for p, with the local actions on offer.
	Scene(ctx context.Context, p character.Player, at world.Location) (Scene, error)
	// Explore resolves a taken at location at.
	Explore(ctx context.Context, p character.Player, at world.Location, a world.Action) (ExploreResult, error)
	// Encounter rolls enemies for p within b.
	Encounter(ctx context.Context, p character.Player, b Bounds) (EncounterPayload, error)
	// Social produces a social encounter for p.
	Social(ctx context.Context, p character.Player) (Social, error)
}
