package simulate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/emberfall/internal/content"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/simulate"
)

func newSimulator(t *testing.T) *simulate.Simulator {
	t.Helper()
	return simulate.New(content.DefaultBundle(), combat.DefaultRules(), simulate.Options{}, zaptest.NewLogger(t))
}

func TestRun_VeteranBeatsRat(t *testing.T) {
	res, err := newSimulator(t).Run(context.Background(), simulate.Params{
		Class: "warrior", Level: 10, Enemies: []string{"rat"}, Runs: 20, Seed: 1, Strategy: simulate.StrategyAttack,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Runs)
	assert.Equal(t, 20, res.Victories)
	assert.InDelta(t, 1.0, res.WinRate(), 1e-9)
	assert.Positive(t, res.HPLeft)
	assert.Positive(t, res.AverageTurns())
}

func TestRun_Deterministic(t *testing.T) {
	p := simulate.Params{
		Class: "mage", Level: 3, Enemies: []string{"bandit", "wolf"}, Runs: 10, Seed: 42, Strategy: simulate.StrategyAbility,
	}
	a, err := newSimulator(t).Run(context.Background(), p)
	require.NoError(t, err)
	b, err := newSimulator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_InvalidParams(t *testing.T) {
	valid := simulate.Params{Class: "rogue", Level: 1, Enemies: []string{"slime"}, Runs: 1, Strategy: simulate.StrategyAttack}
	tests := map[string]func(p *simulate.Params){
		"unknown class":    func(p *simulate.Params) { p.Class = "bard" },
		"zero level":       func(p *simulate.Params) { p.Level = 0 },
		"no enemies":       func(p *simulate.Params) { p.Enemies = nil },
		"unknown enemy":    func(p *simulate.Params) { p.Enemies = []string{"gryphon"} },
		"zero runs":        func(p *simulate.Params) { p.Runs = 0 },
		"unknown strategy": func(p *simulate.Params) { p.Strategy = "panic" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			_, err := newSimulator(t).Run(context.Background(), p)
			assert.Error(t, err)
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSimulator(t).Run(ctx, simulate.Params{
		Class: "warrior", Level: 1, Enemies: []string{"slime"}, Runs: 5, Strategy: simulate.StrategyAttack,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProperty_OutcomesAccountForEveryRun(t *testing.T) {
	sim := simulate.New(content.DefaultBundle(), combat.DefaultRules(), simulate.Options{}, zaptest.NewLogger(t))
	rapid.Check(t, func(t *rapid.T) {
		p := simulate.Params{
			Class:    rapid.SampledFrom([]string{"warrior", "mage", "rogue"}).Draw(t, "class"),
			Level:    rapid.IntRange(1, 6).Draw(t, "level"),
			Enemies:  rapid.SliceOfN(rapid.SampledFrom([]string{"slime", "rat", "bat", "bandit", "wolf"}), 1, 3).Draw(t, "enemies"),
			Runs:     rapid.IntRange(1, 3).Draw(t, "runs"),
			Seed:     rapid.Uint64().Draw(t, "seed"),
			Strategy: rapid.SampledFrom([]simulate.Strategy{simulate.StrategyAttack, simulate.StrategyAbility}).Draw(t, "strategy"),
			MaxTurns: 50,
		}
		res, err := sim.Run(context.Background(), p)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if got := res.Victories + res.Defeats + res.Fled + res.Stalled; got != p.Runs {
			t.Fatalf("outcomes %d != runs %d", got, p.Runs)
		}
	})
}
