package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

var (
	// ErrInsufficientResource is returned when an ability costs more than the player has.
	ErrInsufficientResource = errors.New("insufficient resource")
	// ErrUnknownAbility is returned when the player has not unlocked an ability.
	ErrUnknownAbility = errors.New("ability not unlocked")
	// ErrNotUsable is returned for items with no use effect.
	ErrNotUsable = errors.New("item cannot be used")
	// ErrFullHealth is returned when a potion would restore nothing.
	ErrFullHealth = errors.New("health is already full")
)

// CanCast reports whether p knows a and can pay its cost.
func (p Player) CanCast(a *ruleset.Ability) error {
	if !p.Knows(a.ID) {
		return fmt.Errorf("%s: %w", a.ID, ErrUnknownAbility)
	}
	if a.Cost == 0 {
		return nil
	}
	if a.Resource != p.Resource.Kind || p.Resource.Current < a.Cost {
		return fmt.Errorf("%s needs %d %s: %w", a.Name, a.Cost, a.Resource.Short(), ErrInsufficientResource)
	}
	return nil
}

// Spend returns p with a's cost deducted.
//
// Precondition: p.CanCast(a) returned nil.
// Postcondition: result.Resource.Current >= 0.
func (p Player) Spend(a *ruleset.Ability) Player {
	p.Resource.Current = max(0, p.Resource.Current-a.Cost)
	return p
}

// Restore returns p with amount added to its resource, clamped to Max, and the
// amount actually restored.
func (p Player) Restore(amount int) (Player, int) {
	before := p.Resource.Current
	p.Resource.Current = min(p.Resource.Max, p.Resource.Current+max(0, amount))
	return p, p.Resource.Current - before
}

// UseItem consumes one unit at index. Potions heal by their value, clamped
// to MaxHP; a potion that would restore nothing is refused and not consumed.
//
// Postcondition: on error p is returned unchanged.
func (p Player) UseItem(index int) (Player, inventory.Item, int, error) {
	stack, err := p.Inventory.At(index)
	if err != nil {
		return p, inventory.Item{}, 0, err
	}
	if stack.Item.Kind != inventory.KindPotion {
		return p, stack.Item, 0, fmt.Errorf("%s: %w", stack.Item.Name, ErrNotUsable)
	}
	healedCombatant, healed := p.Combatant.WithHealing(stack.Item.Value)
	if healed <= 0 {
		return p, stack.Item, 0, ErrFullHealth
	}
	bag, it, err := p.Inventory.Consume(index)
	if err != nil {
		return p, stack.Item, 0, err
	}
	p.Combatant = healedCombatant
	p.Inventory = bag
	return p, it, healed, nil
}
