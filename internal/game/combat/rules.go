package combat

import (
	"fmt"

	"github.com/cory-johannsen/emberfall/internal/game/condition"
	"github.com/cory-johannsen/emberfall/internal/game/element"
)

// Jitter is a uniform random offset lo + u*Span with u in [0, 1).
type Jitter struct {
	Lo   float64
	Span float64
}

// Rules holds every numeric constant the resolver uses.
type Rules struct {
	CritChance     float64
	CritMultiplier float64
	FleeChance     float64
	AttackJitter   Jitter
	AbilityJitter  Jitter

	// EnemyStatusChance is the chance an elemental enemy's basic attack
	// inflicts its element's effect on the player.
	EnemyStatusChance map[element.Element]float64
	EnemyStatusEffect map[element.Element]condition.Type

	HealRatio        float64
	DrainRatio       float64
	DrainJitter      Jitter
	DrainLeech       float64
	MultiAttackRatio float64
	MultiAttackHits  int
	MultiJitter      Jitter
}

// DefaultRules returns the stock combat constants.
func DefaultRules() Rules {
	return Rules{
		CritChance:     0.1,
		CritMultiplier: 1.5,
		FleeChance:     0.4,
		AttackJitter:   Jitter{Lo: -2, Span: 5},
		AbilityJitter:  Jitter{Lo: 0, Span: 5},
		EnemyStatusChance: map[element.Element]float64{
			element.Fire:      0.1,
			element.Ice:       0.2,
			element.Lightning: 0.2,
			element.Earth:     0.2,
		},
		EnemyStatusEffect: map[element.Element]condition.Type{
			element.Fire:      condition.Burn,
			element.Ice:       condition.Chill,
			element.Lightning: condition.Shock,
			element.Earth:     condition.Grounded,
		},
		HealRatio:        0.35,
		DrainRatio:       0.8,
		DrainJitter:      Jitter{Lo: -2, Span: 4},
		DrainLeech:       0.5,
		MultiAttackRatio: 0.7,
		MultiAttackHits:  2,
		MultiJitter:      Jitter{Lo: -1, Span: 3},
	}
}

// Validate reports the first out-of-range constant.
func (r Rules) Validate() error {
	probs := map[string]float64{
		"crit_chance": r.CritChance,
		"flee_chance": r.FleeChance,
		"heal_ratio":  r.HealRatio,
		"drain_leech": r.DrainLeech,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("combat rules: %s must be in [0,1], got %v", name, p)
		}
	}
	for e, p := range r.EnemyStatusChance {
		if p < 0 || p > 1 {
			return fmt.Errorf("combat rules: status chance for %s must be in [0,1], got %v", e, p)
		}
	}
	if r.CritMultiplier < 1 {
		return fmt.Errorf("combat rules: crit_multiplier must be >= 1, got %v", r.CritMultiplier)
	}
	if r.MultiAttackHits < 1 {
		return fmt.Errorf("combat rules: multi_attack_hits must be >= 1, got %d", r.MultiAttackHits)
	}
	return nil
}
