package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/emberfall/internal/game/condition"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/element"
)

// Strike describes a player ability as the resolver sees it.
//
// A zero Multiplier makes the strike a pure self-effect: no damage is dealt
// and no target is consulted.
type Strike struct {
	Name         string
	Element      element.Element
	Multiplier   float64
	Status       condition.Type
	StatusChance float64
	SelfEffect   *condition.Type
}

// Outcome is the result of resolving one action.
type Outcome struct {
	Damage     int
	Crit       bool
	Resisted   bool
	Healed     int
	DefenderHP int
	Defeated   bool
	Applied    *condition.Effect
	Events     []Event
}

// Resolver computes attack and ability outcomes.
//
// Every random draw goes through src in a fixed order, so a scripted source
// reproduces outcomes exactly.
type Resolver struct {
	rules   Rules
	effects *condition.Registry
	src     dice.Source
}

// NewResolver creates a Resolver.
//
// Precondition: effects and src must be non-nil.
func NewResolver(rules Rules, effects *condition.Registry, src dice.Source) *Resolver {
	return &Resolver{rules: rules, effects: effects, src: src}
}

// Rules returns the constants this resolver applies.
func (r *Resolver) Rules() Rules { return r.rules }

// Effects returns the effect registry used for durations and magnitudes.
func (r *Resolver) Effects() *condition.Registry { return r.effects }

// Source returns the random source draws are taken from.
func (r *Resolver) Source() dice.Source { return r.src }

// BasicAttack resolves attacker's basic attack against defender.
//
// Draw order: crit, jitter, then (elemental enemy vs living player only) status.
//
// Postcondition: 0 <= result.HP <= result.MaxHP; outcome.Damage >= 0.
func (r *Resolver) BasicAttack(attacker, defender Combatant) (Combatant, Outcome) {
	crit := dice.Chance(r.src, r.rules.CritChance)
	dmg := dice.Floor(float64(attacker.Attack) + dice.Uniform(r.src, r.rules.AttackJitter.Lo, r.rules.AttackJitter.Span))
	if crit {
		dmg = scale(dmg, r.rules.CritMultiplier)
	}
	dmg = r.mitigate(attacker, defender, dmg)
	defender = defender.WithDamage(dmg)

	out := Outcome{Damage: dmg, Crit: crit}
	critText := ""
	if crit {
		critText = " CRITICAL!"
	}
	out.Events = append(out.Events, Event{
		Kind:      EventDamage,
		Actor:     attacker.Name,
		Target:    defender.Name,
		Amount:    dmg,
		Crit:      crit,
		Narrative: fmt.Sprintf("%s attacks %s for %d damage.%s", attacker.Name, defender.Name, dmg, critText),
	})

	if attacker.Kind == KindEnemy && defender.IsPlayer() && !defender.IsDown() && attacker.Element != element.None {
		if p := r.rules.EnemyStatusChance[attacker.Element]; p > 0 && dice.Chance(r.src, p) {
			defender = r.inflict(defender, r.rules.EnemyStatusEffect[attacker.Element], attacker.Attack, &out)
		}
	}
	return defender, r.finish(defender, out)
}

// Ability resolves a player ability. The attacker is returned too because a
// strike may carry a self-effect.
//
// Draw order: jitter, then status (only when the defender survives).
//
// Postcondition: when s.Multiplier == 0 the defender is returned unchanged
// and no draw is made.
func (r *Resolver) Ability(attacker, defender Combatant, s Strike) (Combatant, Combatant, Outcome) {
	var out Outcome
	if s.Multiplier > 0 {
		dmg := dice.Floor(float64(attacker.Attack)*s.Multiplier + dice.Uniform(r.src, r.rules.AbilityJitter.Lo, r.rules.AbilityJitter.Span))
		if element.Resisted(defender.Element, s.Element) {
			dmg /= 2
			out.Resisted = true
			out.Events = append(out.Events, Event{
				Kind:      EventNotice,
				Actor:     defender.Name,
				Resisted:  true,
				Narrative: fmt.Sprintf("%s resists the %s attack!", defender.Name, s.Element),
			})
		}
		dmg = r.mitigate(attacker, defender, dmg)
		defender = defender.WithDamage(dmg)
		out.Damage = dmg
		out.Events = append(out.Events, Event{
			Kind:      EventDamage,
			Actor:     attacker.Name,
			Target:    defender.Name,
			Amount:    dmg,
			Resisted:  out.Resisted,
			Narrative: fmt.Sprintf("%s uses %s on %s for %d damage!", attacker.Name, s.Name, defender.Name, dmg),
		})
		if !defender.IsDown() && s.StatusChance > 0 && dice.Chance(r.src, s.StatusChance) {
			defender = r.inflict(defender, s.Status, attacker.Attack, &out)
		}
		out = r.finish(defender, out)
	} else {
		out.DefenderHP = defender.HP
		out.Events = append(out.Events, Event{
			Kind:      EventNotice,
			Actor:     attacker.Name,
			Narrative: fmt.Sprintf("%s uses %s.", attacker.Name, s.Name),
		})
	}
	if s.SelfEffect != nil {
		var ev Event
		attacker, ev = ApplyEffect(attacker, *s.SelfEffect, attacker.Attack, r.effects)
		out.Events = append(out.Events, ev)
	}
	return attacker, defender, out
}

// SubHit resolves one hit of an enemy multi-attack. It never crits and
// never inflicts a status.
func (r *Resolver) SubHit(attacker, defender Combatant) (Combatant, Outcome) {
	j := r.rules.MultiJitter
	dmg := dice.Floor(float64(attacker.Attack)*r.rules.MultiAttackRatio + dice.Uniform(r.src, j.Lo, j.Span))
	dmg = r.mitigate(attacker, defender, dmg)
	defender = defender.WithDamage(dmg)
	out := Outcome{Damage: dmg}
	out.Events = append(out.Events, Event{
		Kind:      EventDamage,
		Actor:     attacker.Name,
		Target:    defender.Name,
		Amount:    dmg,
		Narrative: fmt.Sprintf("%s strikes! %s takes %d damage.", attacker.Name, defender.Name, dmg),
	})
	return defender, r.finish(defender, out)
}

// Drain resolves a life-draining attack; the attacker heals a share of the
// damage dealt, clamped to its maximum.
func (r *Resolver) Drain(attacker, defender Combatant) (Combatant, Combatant, Outcome) {
	j := r.rules.DrainJitter
	dmg := dice.Floor(float64(attacker.Attack)*r.rules.DrainRatio + dice.Uniform(r.src, j.Lo, j.Span))
	dmg = r.mitigate(attacker, defender, dmg)
	defender = defender.WithDamage(dmg)
	var healed int
	attacker, healed = attacker.WithHealing(dice.Floor(float64(dmg) * r.rules.DrainLeech))
	out := Outcome{Damage: dmg, Healed: healed}
	out.Events = append(out.Events, Event{
		Kind:      EventDamage,
		Actor:     attacker.Name,
		Target:    defender.Name,
		Amount:    dmg,
		Narrative: fmt.Sprintf("%s drains %d life from %s and recovers %d HP.", attacker.Name, dmg, defender.Name, healed),
	})
	return attacker, defender, r.finish(defender, out)
}

// Heal restores a fixed share of c's maximum health.
//
// Postcondition: result.HP <= result.MaxHP.
func (r *Resolver) Heal(c Combatant) (Combatant, Outcome) {
	c, healed := c.WithHealing(dice.Floor(float64(c.MaxHP) * r.rules.HealRatio))
	return c, Outcome{
		Healed:     healed,
		DefenderHP: c.HP,
		Events: []Event{{
			Kind:      EventHeal,
			Actor:     c.Name,
			Amount:    healed,
			Narrative: fmt.Sprintf("%s heals for %d HP.", c.Name, healed),
		}},
	}
}

// Shield raises c's shield until the start of its next turn.
func (r *Resolver) Shield(c Combatant) (Combatant, Outcome) {
	c.Shielded = true
	return c, Outcome{
		DefenderHP: c.HP,
		Events: []Event{{
			Kind:      EventShieldRaised,
			Actor:     c.Name,
			Narrative: fmt.Sprintf("%s raises a magical shield!", c.Name),
		}},
	}
}

// Flee reports whether an escape attempt succeeds. One draw is made.
func (r *Resolver) Flee() bool {
	return dice.Chance(r.src, r.rules.FleeChance)
}

// SkipsTurn reports whether c loses its action to Shock. A draw is made only
// when c is shocked.
func (r *Resolver) SkipsTurn(c Combatant) bool {
	p := condition.SkipChance(c.Effects, r.effects)
	if p <= 0 {
		return false
	}
	return dice.Chance(r.src, p)
}

// mitigate applies the defensive modifier chain in fixed order: grounded,
// chilled enemy attacker, earth armor, shield, defending stance.
func (r *Resolver) mitigate(attacker, defender Combatant, dmg int) int {
	if dmg < 0 {
		dmg = 0
	}
	if defender.Effects.Has(condition.Grounded) {
		dmg = scale(dmg, 1+condition.Magnitude(r.effects, condition.Grounded))
	}
	if attacker.Kind == KindEnemy && defender.IsPlayer() && attacker.Effects.Has(condition.Chill) {
		dmg = scale(dmg, 1-condition.Magnitude(r.effects, condition.Chill))
	}
	if defender.Effects.Has(condition.EarthArmor) {
		dmg = scale(dmg, 1-condition.Magnitude(r.effects, condition.EarthArmor))
	}
	if defender.Shielded {
		dmg /= 2
	}
	if defender.IsPlayer() && defender.Defending {
		dmg = max(1, dmg/2)
	}
	return dmg
}

func (r *Resolver) inflict(defender Combatant, t condition.Type, sourceAttack int, out *Outcome) Combatant {
	defender, ev := ApplyEffect(defender, t, sourceAttack, r.effects)
	applied, _ := defender.Effects.Get(t)
	out.Applied = &applied
	out.Events = append(out.Events, ev)
	return defender
}

func (r *Resolver) finish(defender Combatant, out Outcome) Outcome {
	out.DefenderHP = defender.HP
	out.Defeated = defender.IsDown()
	if out.Defeated {
		out.Events = append(out.Events, Event{
			Kind:      EventDefeated,
			Target:    defender.Name,
			Narrative: fmt.Sprintf("%s is defeated!", defender.Name),
		})
	}
	return out
}

// scale multiplies dmg by f and floors the result. The epsilon keeps exact
// products such as 20*0.7 from landing one below their true value.
func scale(dmg int, f float64) int {
	return int(math.Floor(float64(dmg)*f + 1e-9))
}
