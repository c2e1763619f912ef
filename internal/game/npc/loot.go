package npc

import (
	"fmt"

	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
)

// LootDrop is a template's optional item drop and the chance it is carried.
type LootDrop struct {
	Item   inventory.Item `yaml:"item"`
	Chance float64        `yaml:"chance"`
}

// Validate checks that the drop satisfies its invariants.
//
// Postcondition: Returns nil iff the item is valid and chance is in (0, 1].
func (d *LootDrop) Validate() error {
	if err := d.Item.Validate(); err != nil {
		return fmt.Errorf("loot: %w", err)
	}
	if d.Chance <= 0 || d.Chance > 1.0 {
		return fmt.Errorf("loot: chance must be in (0, 1.0], got %f", d.Chance)
	}
	return nil
}

// Roll decides whether a spawned enemy carries the drop. One draw is made.
//
// Precondition: d must have passed Validate().
func (d *LootDrop) Roll(src dice.Source) *inventory.Item {
	if !dice.Chance(src, d.Chance) {
		return nil
	}
	it := d.Item
	return &it
}
