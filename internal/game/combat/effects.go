package combat

import (
	"fmt"

	"github.com/cory-johannsen/emberfall/internal/game/condition"
)

// ApplyEffect gives target a fresh instance of effect type t. An existing
// instance of t is refreshed to the full duration in place. sourceAttack is
// recorded for Burn.
//
// Precondition: reg holds a Def for t.
// Postcondition: result.Effects.Has(t) with Duration == reg.Duration(t);
// at most one instance of t is present.
func ApplyEffect(target Combatant, t condition.Type, sourceAttack int, reg *condition.Registry) (Combatant, Event) {
	if t != condition.Burn {
		sourceAttack = 0
	}
	effects, refreshed := target.Effects.Apply(condition.Effect{
		Type:         t,
		Duration:     reg.Duration(t),
		SourceAttack: sourceAttack,
	})
	target.Effects = effects
	ev := Event{Kind: EventEffectApplied, Target: target.Name, Effect: t.String()}
	name := effectName(t, reg)
	if refreshed {
		ev.Kind = EventEffectRefreshed
		ev.Narrative = fmt.Sprintf("%s's %s is refreshed.", target.Name, name)
	} else {
		ev.Narrative = fmt.Sprintf("%s is afflicted with %s!", target.Name, name)
	}
	return target, ev
}

// TickEffects runs one start-of-turn tick over target's effects: Burn deals
// damage (clamped at zero health), every duration decreases by one and
// expired effects are removed.
//
// Postcondition: result.HP >= 0; no effect with Duration <= 0 remains.
func TickEffects(target Combatant, reg *condition.Registry) (Combatant, []Event) {
	effects, results := target.Effects.Tick(reg)
	target.Effects = effects
	var events []Event
	for _, r := range results {
		name := effectName(r.Effect.Type, reg)
		if r.Effect.Type == condition.Burn {
			target = target.WithDamage(r.Damage)
			events = append(events, Event{
				Kind:      EventBurn,
				Target:    target.Name,
				Amount:    r.Damage,
				Effect:    condition.Burn.String(),
				Narrative: fmt.Sprintf("%s takes %d burn damage.", target.Name, r.Damage),
			})
		}
		if r.Expired {
			events = append(events, Event{
				Kind:      EventEffectExpired,
				Target:    target.Name,
				Effect:    r.Effect.Type.String(),
				Narrative: fmt.Sprintf("%s's %s wears off.", target.Name, name),
			})
		}
	}
	return target, events
}

func effectName(t condition.Type, reg *condition.Registry) string {
	if d, ok := reg.Get(t); ok && d.Name != "" {
		return d.Name
	}
	return t.String()
}
