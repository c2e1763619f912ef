// Package inventory models stackable consumable items and the player's bag.
package inventory

import "fmt"

// Kind is the item category. Only potions have a use effect.
type Kind string

const (
	KindPotion Kind = "potion"
	KindMisc   Kind = "misc"
)

// Item is an item definition. Value is the amount restored by a potion.
type Item struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Kind        Kind   `yaml:"kind" json:"kind"`
	Value       int    `yaml:"value" json:"value,omitempty"`
	StackLimit  int    `yaml:"stack_limit" json:"stack_limit"`
}

// Validate checks the item's fields.
func (it Item) Validate() error {
	if it.Name == "" {
		return fmt.Errorf("item: name must be non-empty")
	}
	switch it.Kind {
	case KindPotion, KindMisc:
	default:
		return fmt.Errorf("item %q: unknown kind %q", it.Name, it.Kind)
	}
	if it.StackLimit < 1 {
		return fmt.Errorf("item %q: stack_limit must be >= 1", it.Name)
	}
	if it.Value < 0 {
		return fmt.Errorf("item %q: value must be >= 0", it.Name)
	}
	return nil
}

// HealthPotion returns the stock healing potion.
func HealthPotion() Item {
	return Item{
		Name:        "Health Potion",
		Description: "A red draught that restores 25 HP.",
		Kind:        KindPotion,
		Value:       25,
		StackLimit:  5,
	}
}
