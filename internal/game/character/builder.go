package character

import (
	"errors"
	"slices"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

// BaseXPToNext is the experience a level 1 character needs to level up.
const BaseXPToNext = 100

// Build constructs a level 1 Player of the given class at full health and resource.
//
// Precondition: name must be non-empty; class must be non-nil.
// Postcondition: Returns a Player ready for play, or a non-nil error.
func Build(name string, class *ruleset.Class) (Player, error) {
	if name == "" {
		return Player{}, errors.New("character name must not be empty")
	}
	if class == nil {
		return Player{}, errors.New("class must not be nil")
	}
	return Player{
		Combatant: combat.Combatant{
			Name:   name,
			Kind:   combat.KindPlayer,
			HP:     class.BaseHP,
			MaxHP:  class.BaseHP,
			Attack: class.BaseAttack,
		},
		Class: class.ID,
		Resource: Resource{
			Kind:    class.Resource,
			Current: class.ResourceMax,
			Max:     class.ResourceMax,
		},
		Level:     1,
		XPToNext:  BaseXPToNext,
		Abilities: slices.Clone(class.Abilities),
	}, nil
}
