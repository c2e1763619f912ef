package encounter

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

// Encounter is the complete state of one combat. Controller operations take
// an Encounter by value and return a new one; the input is never modified.
type Encounter struct {
	ID      uuid.UUID        `json:"id"`
	Phase   Phase            `json:"phase"`
	Turn    int              `json:"turn"`
	Player  character.Player `json:"player"`
	Enemies []npc.Enemy      `json:"enemies"`
	// DefeatOrder lists enemy indexes in the order they fell.
	DefeatOrder []int                    `json:"defeat_order,omitempty"`
	Report      *character.VictoryReport `json:"report,omitempty"`
}

// Living returns the indexes of enemies with health left.
func (e Encounter) Living() []int {
	var out []int
	for i, en := range e.Enemies {
		if !en.IsDown() {
			out = append(out, i)
		}
	}
	return out
}

// AllDefeated reports whether no enemy has health left.
func (e Encounter) AllDefeated() bool {
	return len(e.Living()) == 0
}

// Defeated returns the fallen enemies in defeat order.
func (e Encounter) Defeated() []npc.Enemy {
	out := make([]npc.Enemy, 0, len(e.DefeatOrder))
	for _, i := range e.DefeatOrder {
		out = append(out, e.Enemies[i])
	}
	return out
}

func (e Encounter) clone() Encounter {
	e.Enemies = append([]npc.Enemy(nil), e.Enemies...)
	e.DefeatOrder = append([]int(nil), e.DefeatOrder...)
	return e
}

func (e Encounter) validTarget(i int) bool {
	return i >= 0 && i < len(e.Enemies) && !e.Enemies[i].IsDown()
}
