package encounter_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/emberfall/internal/game/ai"
	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/condition"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/encounter"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

// scriptedSrc replays a fixed sequence of Float64 draws, cycling when exhausted.
type scriptedSrc struct {
	floats []float64
	i      int
}

func (s *scriptedSrc) Intn(_ int) int { return 0 }
func (s *scriptedSrc) Float64() float64 {
	v := s.floats[s.i%len(s.floats)]
	s.i++
	return v
}

// noDrawSrc fails the test if any draw is made.
type noDrawSrc struct{ t *testing.T }

func (s noDrawSrc) Intn(_ int) int   { s.t.Fatal("unexpected Intn draw"); return 0 }
func (s noDrawSrc) Float64() float64 { s.t.Fatal("unexpected Float64 draw"); return 0 }

func newControllerWith(src dice.Source, pacer encounter.Pacer, logger *zap.Logger) *encounter.Controller {
	res := combat.NewResolver(combat.DefaultRules(), condition.DefaultRegistry(), src)
	pol := ai.NewPolicy(ai.DefaultRegistry(), src)
	return encounter.NewController(res, pol, ruleset.DefaultCatalog(), pacer, logger)
}

func newController(t *testing.T, src dice.Source) *encounter.Controller {
	return newControllerWith(src, encounter.NoPacing(), zaptest.NewLogger(t))
}

func warrior(t testing.TB) character.Player {
	class, ok := ruleset.DefaultCatalog().Class("warrior")
	require.True(t, ok)
	p, err := character.Build("Hero", class)
	require.NoError(t, err)
	return p
}

func foe(name string, hp, attack int) npc.Enemy {
	return npc.New(name, "", hp, attack)
}

func begin(t *testing.T, ctrl *encounter.Controller, p character.Player, enemies ...npc.Enemy) encounter.Encounter {
	enc, err := ctrl.Begin(p, enemies)
	require.NoError(t, err)
	return enc
}

func kinds(events []combat.Event) []combat.EventKind {
	out := make([]combat.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func count(events []combat.Event, k combat.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}
