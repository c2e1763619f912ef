package character

import (
	"fmt"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

// XPGrowth is the factor applied to XPToNext on each level up.
const XPGrowth = 1.5

// VictoryReport summarises what a victory granted.
type VictoryReport struct {
	XP        int               `json:"xp"`
	Loot      []inventory.Item  `json:"loot,omitempty"`
	Regen     int               `json:"regen"`
	RegenStat ruleset.RegenStat `json:"regen_stat"`
	LeveledUp bool              `json:"leveled_up"`
	Level     int               `json:"level"`
	Events    []combat.Event    `json:"events,omitempty"`
}

// ResolveVictory applies the rewards for defeating defeated (in defeat order):
// experience, loot, class regeneration and effect clearing, followed by at
// most one level up.
//
// Precondition: class must be p's class.
// Postcondition: result.Effects is empty; health and resource stay within [0, max].
func ResolveVictory(p Player, defeated []npc.Enemy, class *ruleset.Class) (Player, VictoryReport) {
	report := VictoryReport{RegenStat: class.Regen.Stat}
	report.Events = append(report.Events, combat.Event{Kind: combat.EventVictory, Narrative: "VICTORY! All enemies defeated!"})

	for _, e := range defeated {
		report.XP += e.XPValue()
		if e.Loot != nil {
			report.Loot = append(report.Loot, *e.Loot)
		}
	}
	if report.XP > 0 {
		report.Events = append(report.Events, combat.Event{
			Kind: combat.EventNotice, Amount: report.XP,
			Narrative: fmt.Sprintf("You gained %d XP!", report.XP),
		})
	}
	for _, it := range report.Loot {
		p.Inventory = p.Inventory.Add(it)
		report.Events = append(report.Events, combat.Event{
			Kind: combat.EventLoot, Narrative: fmt.Sprintf("You obtained a %s!", it.Name),
		})
	}

	switch class.Regen.Stat {
	case ruleset.RegenHealth:
		p.Combatant, report.Regen = p.Combatant.WithHealing(dice.Floor(float64(p.MaxHP) * class.Regen.Ratio))
		if report.Regen > 0 {
			report.Events = append(report.Events, combat.Event{
				Kind: combat.EventHeal, Actor: p.Name, Amount: report.Regen,
				Narrative: fmt.Sprintf("You recover %d HP.", report.Regen),
			})
		}
	case ruleset.RegenResource:
		p, report.Regen = p.Restore(dice.Floor(float64(p.Resource.Max) * class.Regen.Ratio))
		if report.Regen > 0 {
			report.Events = append(report.Events, combat.Event{
				Kind: combat.EventHeal, Actor: p.Name, Amount: report.Regen,
				Narrative: fmt.Sprintf("You recover %d %s.", report.Regen, p.Resource.Kind.Short()),
			})
		}
	}
	p.Combatant = p.Combatant.ClearTransient()

	var events []combat.Event
	p, report.LeveledUp, events = GainXP(p, report.XP, class)
	report.Events = append(report.Events, events...)
	report.Level = p.Level
	return p, report
}

// GainXP adds xp and applies a single level up when the threshold is met.
// Leftover experience carries over.
//
// Postcondition: at most one level is gained per call.
func GainXP(p Player, xp int, class *ruleset.Class) (Player, bool, []combat.Event) {
	p.XP += xp
	if p.XP < p.XPToNext {
		return p, false, nil
	}
	p, events := LevelUp(p, class)
	return p, true, events
}

// LevelUp advances p by one level: class growth to health, attack and
// resource, health refilled, XPToNext grown by XPGrowth and the threshold
// subtracted from XP.
func LevelUp(p Player, class *ruleset.Class) (Player, []combat.Event) {
	p.Level++
	p.MaxHP += class.Growth.HP
	p.HP = p.MaxHP
	p.Attack += class.Growth.Attack
	p.XP -= p.XPToNext
	p.XPToNext = dice.Floor(float64(p.XPToNext) * XPGrowth)

	events := []combat.Event{
		{Kind: combat.EventLevelUp, Actor: p.Name, Amount: p.Level, Narrative: fmt.Sprintf("LEVEL UP! You are now level %d!", p.Level)},
		{Kind: combat.EventNotice, Narrative: "HP and Attack increased!"},
	}
	if class.Growth.Resource > 0 {
		p.Resource.Max += class.Growth.Resource
		if class.Growth.Refill {
			p.Resource.Current = p.Resource.Max
		}
		events = append(events, combat.Event{
			Kind:      combat.EventNotice,
			Narrative: fmt.Sprintf("Max %s increased!", p.Resource.Kind.Short()),
		})
	}
	return p, events
}
