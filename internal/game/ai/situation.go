package ai

import (
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

// DefaultLowHealth is the player health fraction below which the player counts as low.
const DefaultLowHealth = 0.3

// Situation is the read-only view of a fight that a policy decides from.
type Situation struct {
	Enemy           string
	HPRatio         float64
	Ability         npc.Ability
	Shielded        bool
	PlayerHPRatio   float64
	PlayerDefending bool
	PlayerLow       bool
}

// NewSituation captures the state the policy reads for enemy's decision.
//
// Precondition: lowHealth in (0, 1].
// Postcondition: PlayerLow == player.HPRatio() < lowHealth.
func NewSituation(enemy npc.Enemy, player combat.Combatant, lowHealth float64) Situation {
	return Situation{
		Enemy:           enemy.Name,
		HPRatio:         enemy.HPRatio(),
		Ability:         enemy.Ability,
		Shielded:        enemy.Shielded,
		PlayerHPRatio:   player.HPRatio(),
		PlayerDefending: player.Defending,
		PlayerLow:       player.HPRatio() < lowHealth,
	}
}

// Available reports whether the enemy described by s can take a.
// A Shield is unavailable while the enemy is already shielded.
func (s Situation) Available(a Action) bool {
	if a == ActionAttack {
		return true
	}
	ab := a.Ability()
	if ab == npc.AbilityNone || ab != s.Ability {
		return false
	}
	return ab != npc.AbilityShield || !s.Shielded
}

// predicates holds the built-in When conditions by name.
var predicates = map[string]func(Situation) bool{
	"player_low":       func(s Situation) bool { return s.PlayerLow },
	"player_defending": func(s Situation) bool { return s.PlayerDefending },
	"can_heal":         func(s Situation) bool { return s.Ability == npc.AbilityHeal },
	"can_shield":       func(s Situation) bool { return s.Ability == npc.AbilityShield && !s.Shielded },
	"can_drain":        func(s Situation) bool { return s.Ability == npc.AbilityDrainLife },
	"can_multi":        func(s Situation) bool { return s.Ability == npc.AbilityMultiAttack },
	"has_offense":      func(s Situation) bool { return s.Ability.Offensive() },
}

// PredicateNames returns the names accepted in a rule's When list, excluding script predicates.
func PredicateNames() []string {
	return []string{"player_low", "player_defending", "can_heal", "can_shield", "can_drain", "can_multi", "has_offense"}
}
