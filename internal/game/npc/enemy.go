// Package npc defines enemies and the bestiary templates they are spawned from.
package npc

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
)

// Ability is an enemy's optional special action.
type Ability string

const (
	AbilityNone        Ability = ""
	AbilityHeal        Ability = "heal"
	AbilityShield      Ability = "shield"
	AbilityMultiAttack Ability = "multi_attack"
	AbilityDrainLife   Ability = "drain_life"
)

// ParseAbility converts a case-insensitive name (HEAL, multi-attack, ...) into an Ability.
func ParseAbility(s string) (Ability, error) {
	a := Ability(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch a {
	case AbilityNone, AbilityHeal, AbilityShield, AbilityMultiAttack, AbilityDrainLife:
		return a, nil
	}
	return AbilityNone, fmt.Errorf("unknown enemy ability %q", s)
}

// Offensive reports whether a damages the player.
func (a Ability) Offensive() bool {
	return a == AbilityMultiAttack || a == AbilityDrainLife
}

// Personality is an enemy's behavioral archetype.
type Personality string

const (
	PersonalityNone       Personality = ""
	PersonalityAggressive Personality = "aggressive"
	PersonalityDefensive  Personality = "defensive"
	PersonalityStrategic  Personality = "strategic"
	PersonalityWild       Personality = "wild"
)

// ParsePersonality converts a case-insensitive name into a Personality.
func ParsePersonality(s string) (Personality, error) {
	p := Personality(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PersonalityNone, PersonalityAggressive, PersonalityDefensive, PersonalityStrategic, PersonalityWild:
		return p, nil
	}
	return PersonalityNone, fmt.Errorf("unknown personality %q", s)
}

// Enemy is one opposing combatant in an encounter.
type Enemy struct {
	combat.Combatant
	Description string          `json:"description,omitempty"`
	Ability     Ability         `json:"ability,omitempty"`
	Personality Personality     `json:"personality,omitempty"`
	Loot        *inventory.Item `json:"loot,omitempty"`
}

// New builds a fresh Enemy at full health with no effects or stance flags.
//
// Precondition: hp >= 1; attack >= 0.
func New(name, description string, hp, attack int) Enemy {
	return Enemy{
		Combatant: combat.Combatant{
			Name:   name,
			Kind:   combat.KindEnemy,
			HP:     hp,
			MaxHP:  hp,
			Attack: attack,
		},
		Description: description,
	}
}

// XPValue is the experience the enemy is worth: floor(MaxHP/2) + Attack.
func (e Enemy) XPValue() int {
	return e.MaxHP/2 + e.Attack
}
