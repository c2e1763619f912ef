package content

import "github.com/cory-johannsen/emberfall/internal/game/dice"

// Bounds are the limits an encounter for one player level must respect.
type Bounds struct {
	MinEnemies int `json:"min_enemies"`
	MaxEnemies int `json:"max_enemies"`
	MinHP      int `json:"min_hp"`
	MaxHP      int `json:"max_hp"`
	MinAttack  int `json:"min_attack"`
	MaxAttack  int `json:"max_attack"`
}

// BoundsForLevel returns the encounter limits for a player of level: one
// enemy, plus one for every two levels up to three, with health in
// [15L, 25L] and attack in [3L, 5L].
//
// Precondition: level >= 1.
func BoundsForLevel(level int) Bounds {
	level = max(1, level)
	return Bounds{
		MinEnemies: 1,
		MaxEnemies: 1 + min(2, level/2),
		MinHP:      level * 15,
		MaxHP:      level * 25,
		MinAttack:  level * 3,
		MaxAttack:  level * 5,
	}
}

// Count draws an enemy count within b.
func (b Bounds) Count(src dice.Source) int {
	return dice.Between(src, b.MinEnemies, b.MaxEnemies)
}

// ClampHP limits hp to the health range.
func (b Bounds) ClampHP(hp int) int { return min(max(hp, b.MinHP), b.MaxHP) }

// ClampAttack limits attack to the attack range.
func (b Bounds) ClampAttack(attack int) int { return min(max(attack, b.MinAttack), b.MaxAttack) }
