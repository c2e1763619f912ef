// Package character defines the player model, its resources and the
// progression rules applied after a victory.
package character

import (
	"slices"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

// Resource is the class-specific pool abilities are paid from.
//
// Invariant: 0 <= Current <= Max.
type Resource struct {
	Kind    ruleset.ResourceKind `json:"kind"`
	Current int                  `json:"current"`
	Max     int                  `json:"max"`
}

// Player is the player character.
type Player struct {
	combat.Combatant
	Class     string        `json:"class"`
	Resource  Resource      `json:"resource"`
	Level     int           `json:"level"`
	XP        int           `json:"xp"`
	XPToNext  int           `json:"xp_to_next"`
	Inventory inventory.Bag `json:"inventory,omitempty"`
	Abilities []string      `json:"abilities,omitempty"`
}

// Knows reports whether abilityID is unlocked for p.
func (p Player) Knows(abilityID string) bool {
	return slices.Contains(p.Abilities, abilityID)
}
