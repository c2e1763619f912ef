// Package ai chooses enemy actions from declarative, personality-keyed rule lists.
package ai

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

// Action is what an enemy does on its turn: a basic attack or one of its abilities.
type Action string

const (
	ActionAttack      Action = "attack"
	ActionHeal        Action = Action(npc.AbilityHeal)
	ActionShield      Action = Action(npc.AbilityShield)
	ActionMultiAttack Action = Action(npc.AbilityMultiAttack)
	ActionDrainLife   Action = Action(npc.AbilityDrainLife)

	// ActionSignature resolves to the enemy's own ability at evaluation time.
	ActionSignature Action = "signature"
)

// Ability returns the enemy ability a denotes, or npc.AbilityNone for a basic attack.
func (a Action) Ability() npc.Ability {
	switch a {
	case ActionHeal, ActionShield, ActionMultiAttack, ActionDrainLife:
		return npc.Ability(a)
	}
	return npc.AbilityNone
}

func (a Action) valid() bool {
	switch a {
	case ActionAttack, ActionHeal, ActionShield, ActionMultiAttack, ActionDrainLife, ActionSignature:
		return true
	}
	return false
}

// scriptPrefix marks a When entry naming a Lua predicate function.
const scriptPrefix = "script:"

// Rule is one (predicate, probability, action) entry of a personality.
//
// A rule fires when every When predicate holds, the enemy's health fraction is
// below HPBelow (when HPBelow > 0), and a Chance draw succeeds (when 0 < Chance < 1).
// The Chance draw is made only after every other condition holds. A zero Chance
// means the rule is ungated; personality files must omit chance rather than write 0.
type Rule struct {
	When    []string `yaml:"when,omitempty"`
	HPBelow float64  `yaml:"hp_below,omitempty"`
	Chance  float64  `yaml:"chance,omitempty"`
	Action  Action   `yaml:"action"`
}

// Validate checks that the rule names known predicates and a known action.
func (r Rule) Validate() error {
	if !r.Action.valid() {
		return fmt.Errorf("unknown action %q", r.Action)
	}
	if r.HPBelow < 0 || r.HPBelow > 1 {
		return fmt.Errorf("hp_below %v outside [0,1]", r.HPBelow)
	}
	if r.Chance < 0 || r.Chance > 1 {
		return fmt.Errorf("chance %v outside [0,1]", r.Chance)
	}
	for _, w := range r.When {
		if fn, ok := strings.CutPrefix(w, scriptPrefix); ok {
			if strings.TrimSpace(fn) == "" {
				return fmt.Errorf("script predicate %q names no function", w)
			}
			continue
		}
		if _, ok := predicates[w]; !ok {
			return fmt.Errorf("unknown predicate %q", w)
		}
	}
	return nil
}

// Personality is the ordered rule list for one behavioral archetype.
type Personality struct {
	ID          npc.Personality `yaml:"id"`
	Description string          `yaml:"description,omitempty"`
	Rules       []Rule          `yaml:"rules"`
}

// Validate checks the personality and each of its rules.
//
// Postcondition: Returns nil if valid, or an error naming the first violation.
func (p *Personality) Validate() error {
	if p.ID == npc.PersonalityNone {
		return fmt.Errorf("personality id must not be empty")
	}
	if _, err := npc.ParsePersonality(string(p.ID)); err != nil {
		return err
	}
	if len(p.Rules) == 0 {
		return fmt.Errorf("personality %q: must define at least one rule", p.ID)
	}
	for i, r := range p.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("personality %q rule %d: %w", p.ID, i, err)
		}
	}
	return nil
}

// personalityFile is the top-level YAML wrapper for a personality file.
type personalityFile struct {
	Personality Personality `yaml:"personality"`
}

// LoadPersonalityFromBytes parses and validates one personality YAML document.
//
// Precondition: data must contain a top-level "personality" key.
func LoadPersonalityFromBytes(data []byte) (*Personality, error) {
	var f personalityFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing personality YAML: %w", err)
	}
	if err := rejectZeroChance(data); err != nil {
		return nil, err
	}
	if err := f.Personality.Validate(); err != nil {
		return nil, err
	}
	return &f.Personality, nil
}

// rejectZeroChance fails when a rule spells out chance: 0. An absent chance
// means the rule is ungated, so a literal 0 would silently fire every time.
func rejectZeroChance(data []byte) error {
	var f struct {
		Personality struct {
			Rules []struct {
				Chance *float64 `yaml:"chance"`
			} `yaml:"rules"`
		} `yaml:"personality"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing personality YAML: %w", err)
	}
	for i, r := range f.Personality.Rules {
		if r.Chance != nil && *r.Chance == 0 {
			return fmt.Errorf("rule %d: chance 0 never fires; omit chance for an ungated rule", i)
		}
	}
	return nil
}

// DefaultPersonalities returns the four built-in archetypes.
func DefaultPersonalities() []*Personality {
	return []*Personality{
		{
			ID:          npc.PersonalityAggressive,
			Description: "Presses the attack and finishes weakened prey.",
			Rules: []Rule{
				{When: []string{"player_low", "has_offense"}, Action: ActionSignature},
				{When: []string{"can_heal"}, HPBelow: 0.25, Chance: 0.8, Action: ActionHeal},
				{When: []string{"can_shield"}, HPBelow: 0.25, Chance: 0.8, Action: ActionShield},
				{When: []string{"can_multi"}, Chance: 0.6, Action: ActionMultiAttack},
				{When: []string{"can_drain"}, Chance: 0.5, Action: ActionDrainLife},
			},
		},
		{
			ID:          npc.PersonalityDefensive,
			Description: "Recovers early and hides behind its guard.",
			Rules: []Rule{
				{When: []string{"can_heal"}, HPBelow: 0.6, Chance: 0.9, Action: ActionHeal},
				{When: []string{"can_shield"}, HPBelow: 0.75, Chance: 0.8, Action: ActionShield},
				{When: []string{"can_drain"}, HPBelow: 0.8, Action: ActionDrainLife},
			},
		},
		{
			ID:          npc.PersonalityStrategic,
			Description: "Reads the player's stance before committing.",
			Rules: []Rule{
				{When: []string{"player_defending", "can_heal"}, HPBelow: 0.9, Action: ActionHeal},
				{When: []string{"player_defending", "can_shield"}, Action: ActionShield},
				{When: []string{"player_low", "has_offense"}, Action: ActionSignature},
				{When: []string{"can_heal"}, HPBelow: 0.4, Action: ActionHeal},
				{When: []string{"can_shield"}, HPBelow: 0.6, Action: ActionShield},
				{When: []string{"can_drain"}, HPBelow: 0.85, Action: ActionDrainLife},
				{When: []string{"can_multi"}, Chance: 0.5, Action: ActionMultiAttack},
			},
		},
		{
			ID:          npc.PersonalityWild,
			Description: "Acts on impulse.",
			Rules: []Rule{
				{When: []string{"can_shield"}, Chance: 0.35, Action: ActionShield},
				{When: []string{"can_heal"}, HPBelow: 0.8, Chance: 0.4, Action: ActionHeal},
				{When: []string{"has_offense"}, Chance: 0.5, Action: ActionSignature},
			},
		},
	}
}
