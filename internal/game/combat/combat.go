// Package combat implements the status effect engine and the combat resolver.
//
// Every operation takes combatants by value and returns new values; nothing in
// this package mutates its inputs.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/emberfall/internal/game/condition"
	"github.com/cory-johannsen/emberfall/internal/game/element"
)

// Kind distinguishes the player from enemies.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns "player" or "enemy".
func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "enemy"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "player":
		*k = KindPlayer
	case "enemy":
		*k = KindEnemy
	default:
		return fmt.Errorf("unknown combatant kind %q", string(b))
	}
	return nil
}

// Combatant is the shared combat-relevant state of the player and every enemy.
//
// Invariant: 0 <= HP <= MaxHP. Defending is only meaningful for the player,
// Shielded only for enemies.
type Combatant struct {
	Name      string          `json:"name"`
	Kind      Kind            `json:"kind"`
	HP        int             `json:"hp"`
	MaxHP     int             `json:"max_hp"`
	Attack    int             `json:"attack"`
	Element   element.Element `json:"element"`
	Effects   condition.Set   `json:"effects,omitempty"`
	Defending bool            `json:"defending,omitempty"`
	Shielded  bool            `json:"shielded,omitempty"`
}

// IsPlayer reports whether c is the player.
func (c Combatant) IsPlayer() bool { return c.Kind == KindPlayer }

// IsDown reports whether c has no health left.
func (c Combatant) IsDown() bool { return c.HP <= 0 }

// HPRatio returns HP/MaxHP, or 0 when MaxHP is not positive.
func (c Combatant) HPRatio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// WithDamage returns c with amount subtracted from HP, floored at zero.
//
// Precondition: amount >= 0.
// Postcondition: result.HP >= 0.
func (c Combatant) WithDamage(amount int) Combatant {
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
	return c
}

// WithHealing returns c with amount added to HP, clamped to MaxHP, and the
// amount actually restored.
//
// Precondition: amount >= 0.
// Postcondition: result.HP <= result.MaxHP; healed >= 0.
func (c Combatant) WithHealing(amount int) (Combatant, int) {
	before := c.HP
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c, c.HP - before
}

// ClearTransient returns c with no effects and neither stance flag set.
func (c Combatant) ClearTransient() Combatant {
	c.Effects = nil
	c.Defending = false
	c.Shielded = false
	return c
}
