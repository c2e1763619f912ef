package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/condition"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/element"
)

func newResolver(src dice.Source) *combat.Resolver {
	return combat.NewResolver(combat.DefaultRules(), condition.DefaultRegistry(), src)
}

func TestBasicAttack_NoCritLandsInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		u := rapid.Float64Range(0, 0.999999).Draw(rt, "jitter")
		r := newResolver(&scriptedSrc{floats: []float64{0.99, u}})
		_, out := r.BasicAttack(makePlayer(50, 10), makeEnemy(100, 5))
		assert.False(rt, out.Crit)
		assert.GreaterOrEqual(rt, out.Damage, 8)
		assert.Less(rt, out.Damage, 13)
	})
}

func TestBasicAttack_CritMultipliesAndFloors(t *testing.T) {
	// jitter 0.6 -> 10 - 2 + 3 = 11; crit -> floor(16.5) = 16
	r := newResolver(&scriptedSrc{floats: []float64{0.05, 0.6}})
	enemy, out := r.BasicAttack(makePlayer(50, 10), makeEnemy(100, 5))
	assert.True(t, out.Crit)
	assert.Equal(t, 16, out.Damage)
	assert.Equal(t, 84, enemy.HP)
	assert.Equal(t, 84, out.DefenderHP)
}

func TestBasicAttack_ModifierChainOrder(t *testing.T) {
	// raw 12 -> grounded 14 -> earth armor 9 -> defending 4
	reg := condition.DefaultRegistry()
	player := makePlayer(70, 10)
	player.Defending = true
	player, _ = combat.ApplyEffect(player, condition.EarthArmor, 0, reg)
	player, _ = combat.ApplyEffect(player, condition.Grounded, 0, reg)

	r := newResolver(&scriptedSrc{floats: []float64{0.99, 0.8}})
	player, out := r.BasicAttack(makeEnemy(40, 10), player)
	assert.Equal(t, 4, out.Damage)
	assert.Equal(t, 66, player.HP)
}

func TestBasicAttack_DefendingHalvesWithFloorOfOne(t *testing.T) {
	player := makePlayer(70, 10)
	player.Defending = true
	// jitter 0.4 -> 20 - 2 + 2 = 20
	r := newResolver(&scriptedSrc{floats: []float64{0.99, 0.4}})
	_, out := r.BasicAttack(makeEnemy(40, 20), player)
	assert.Equal(t, 10, out.Damage)

	weak := makeEnemy(40, 1)
	r = newResolver(&scriptedSrc{floats: []float64{0.99, 0.0}})
	_, out = r.BasicAttack(weak, player)
	assert.Equal(t, 1, out.Damage)
}

func TestBasicAttack_ShieldHalves(t *testing.T) {
	enemy := makeEnemy(40, 5)
	enemy.Shielded = true
	r := newResolver(&scriptedSrc{floats: []float64{0.99, 0.6}})
	_, out := r.BasicAttack(makePlayer(50, 10), enemy)
	assert.Equal(t, 5, out.Damage)
}

func TestBasicAttack_ChillOnlyReducesEnemyOutgoing(t *testing.T) {
	reg := condition.DefaultRegistry()
	chilledEnemy, _ := combat.ApplyEffect(makeEnemy(40, 10), condition.Chill, 0, reg)
	r := newResolver(&scriptedSrc{floats: []float64{0.99, 0.4}})
	_, out := r.BasicAttack(chilledEnemy, makePlayer(70, 10))
	assert.Equal(t, 8, out.Damage)

	chilledPlayer, _ := combat.ApplyEffect(makePlayer(70, 10), condition.Chill, 0, reg)
	r = newResolver(&scriptedSrc{floats: []float64{0.99, 0.4}})
	_, out = r.BasicAttack(chilledPlayer, makeEnemy(40, 10))
	assert.Equal(t, 10, out.Damage)
}

func TestBasicAttack_ElementalEnemyInflictsStatus(t *testing.T) {
	enemy := makeEnemy(40, 10)
	enemy.Element = element.Fire
	r := newResolver(&scriptedSrc{floats: []float64{0.99, 0.4, 0.05}})
	player, out := r.BasicAttack(enemy, makePlayer(70, 10))
	require.NotNil(t, out.Applied)
	assert.Equal(t, condition.Burn, out.Applied.Type)
	assert.Equal(t, 10, out.Applied.SourceAttack)
	assert.True(t, player.Effects.Has(condition.Burn))
}

func TestBasicAttack_NoneElementNeverInflicts(t *testing.T) {
	src := &scriptedSrc{floats: []float64{0.99, 0.4, 0.0}}
	r := newResolver(src)
	_, out := r.BasicAttack(makeEnemy(40, 10), makePlayer(70, 10))
	assert.Nil(t, out.Applied)
	assert.Equal(t, 2, src.i)
}

func TestBasicAttack_DefeatEmitsEvent(t *testing.T) {
	r := newResolver(&scriptedSrc{floats: []float64{0.99, 0.4}})
	enemy, out := r.BasicAttack(makePlayer(50, 10), makeEnemy(3, 5))
	assert.True(t, out.Defeated)
	assert.Equal(t, 0, enemy.HP)
	assert.Equal(t, combat.EventDefeated, out.Events[len(out.Events)-1].Kind)
}

func TestAbility_ResistedByElementHalves(t *testing.T) {
	cycle := []struct {
		defender, attack element.Element
	}{
		{element.Earth, element.Lightning},
		{element.Lightning, element.Ice},
		{element.Ice, element.Fire},
		{element.Fire, element.Earth},
	}
	for _, tc := range cycle {
		t.Run(tc.attack.String()+"_vs_"+tc.defender.String(), func(t *testing.T) {
			strike := combat.Strike{Name: "Bolt", Element: tc.attack, Multiplier: 1.1}
			rapid.Check(t, func(rt *rapid.T) {
				attack := rapid.IntRange(1, 60).Draw(rt, "attack")
				u := rapid.Float64Range(0, 0.999999).Draw(rt, "u")

				neutral := makeEnemy(500, 1)
				resisting := makeEnemy(500, 1)
				resisting.Element = tc.defender
				// The attack element never resists itself, so a same-element defender is neutral.
				mirror := makeEnemy(500, 1)
				mirror.Element = tc.attack

				_, _, base := newResolver(&scriptedSrc{floats: []float64{u}}).Ability(makePlayer(50, attack), neutral, strike)
				_, _, halved := newResolver(&scriptedSrc{floats: []float64{u}}).Ability(makePlayer(50, attack), resisting, strike)
				_, _, same := newResolver(&scriptedSrc{floats: []float64{u}}).Ability(makePlayer(50, attack), mirror, strike)
				assert.Equal(rt, base.Damage/2, halved.Damage)
				assert.True(rt, halved.Resisted)
				assert.Equal(rt, base.Damage, same.Damage)
				assert.False(rt, same.Resisted)
			})
		})
	}
}

func TestAbility_StatusAppliedOnlyWhenDefenderSurvives(t *testing.T) {
	strike := combat.Strike{Name: "Fireball", Element: element.Fire, Multiplier: 1.5, Status: condition.Burn, StatusChance: 0.1}

	r := newResolver(&scriptedSrc{floats: []float64{0.0, 0.05}})
	_, enemy, out := r.Ability(makePlayer(45, 6), makeEnemy(50, 5), strike)
	assert.Equal(t, 9, out.Damage)
	require.NotNil(t, out.Applied)
	assert.Equal(t, 6, out.Applied.SourceAttack)
	assert.True(t, enemy.Effects.Has(condition.Burn))

	src := &scriptedSrc{floats: []float64{0.0, 0.05}}
	_, enemy, out = newResolver(src).Ability(makePlayer(45, 6), makeEnemy(5, 5), strike)
	assert.True(t, out.Defeated)
	assert.Nil(t, out.Applied)
	assert.Empty(t, enemy.Effects)
	assert.Equal(t, 1, src.i)
}

func TestAbility_SelfEffectGranted(t *testing.T) {
	armor := condition.EarthArmor
	strike := combat.Strike{Name: "Earthen Strike", Element: element.Earth, Multiplier: 1.3, SelfEffect: &armor}
	r := newResolver(&scriptedSrc{floats: []float64{0.0, 0.99}})
	player, _, _ := r.Ability(makePlayer(70, 10), makeEnemy(50, 5), strike)
	assert.True(t, player.Effects.Has(condition.EarthArmor))
}

func TestAbility_ZeroMultiplierMakesNoDraws(t *testing.T) {
	armor := condition.EarthArmor
	strike := combat.Strike{Name: "Stoneskin", SelfEffect: &armor}
	r := newResolver(noDrawSrc{t: t})
	enemy := makeEnemy(50, 5)
	player, gotEnemy, out := r.Ability(makePlayer(70, 10), enemy, strike)
	assert.Equal(t, enemy, gotEnemy)
	assert.Zero(t, out.Damage)
	assert.True(t, player.Effects.Has(condition.EarthArmor))
}

func TestAbility_Deterministic(t *testing.T) {
	strike := combat.Strike{Name: "Ice Shard", Element: element.Ice, Multiplier: 1.2, Status: condition.Chill, StatusChance: 0.2}
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		_, e1, o1 := newResolver(dice.NewSeededSource(seed)).Ability(makePlayer(45, 6), makeEnemy(60, 5), strike)
		_, e2, o2 := newResolver(dice.NewSeededSource(seed)).Ability(makePlayer(45, 6), makeEnemy(60, 5), strike)
		assert.Equal(rt, o1, o2)
		assert.Equal(rt, e1, e2)
	})
}

func TestSubHit_UsesMultiRatio(t *testing.T) {
	// floor(10*0.7 + (-1 + 0.5*3)) = floor(7.5) = 7
	r := newResolver(&scriptedSrc{floats: []float64{0.5}})
	player, out := r.SubHit(makeEnemy(40, 10), makePlayer(70, 10))
	assert.Equal(t, 7, out.Damage)
	assert.Equal(t, 63, player.HP)
	assert.False(t, out.Crit)
}

func TestDrain_HealsAttacker(t *testing.T) {
	enemy := makeEnemy(40, 10)
	enemy.HP = 20
	// floor(8 + (-2 + 0.5*4)) = 8, leech 4
	r := newResolver(&scriptedSrc{floats: []float64{0.5}})
	enemy, player, out := r.Drain(enemy, makePlayer(70, 10))
	assert.Equal(t, 8, out.Damage)
	assert.Equal(t, 4, out.Healed)
	assert.Equal(t, 24, enemy.HP)
	assert.Equal(t, 62, player.HP)
}

func TestDrain_GoesThroughModifierChain(t *testing.T) {
	// raw 8 -> grounded 9 -> earth armor 6 -> defending 3, leech 1
	reg := condition.DefaultRegistry()
	player := makePlayer(70, 10)
	player.Defending = true
	player, _ = combat.ApplyEffect(player, condition.EarthArmor, 0, reg)
	player, _ = combat.ApplyEffect(player, condition.Grounded, 0, reg)

	enemy := makeEnemy(40, 10)
	enemy.HP = 20
	r := newResolver(&scriptedSrc{floats: []float64{0.5}})
	enemy, player, out := r.Drain(enemy, player)
	assert.Equal(t, 3, out.Damage)
	assert.Equal(t, 1, out.Healed)
	assert.Equal(t, 21, enemy.HP)
	assert.Equal(t, 67, player.HP)
}

func TestHeal_ClampsToMax(t *testing.T) {
	r := newResolver(noDrawSrc{t: t})
	c := makeEnemy(40, 5)
	c.HP = 35
	c, out := r.Heal(c)
	assert.Equal(t, 40, c.HP)
	assert.Equal(t, 5, out.Healed)
}

func TestShield_SetsFlag(t *testing.T) {
	c, out := newResolver(noDrawSrc{t: t}).Shield(makeEnemy(40, 5))
	assert.True(t, c.Shielded)
	assert.Equal(t, combat.EventShieldRaised, out.Events[0].Kind)
}

func TestFlee_SuccessRate(t *testing.T) {
	r := newResolver(dice.NewSeededSource(42))
	wins := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		if r.Flee() {
			wins++
		}
	}
	rate := float64(wins) / trials
	assert.InDelta(t, 0.4, rate, 0.03)
}

func TestSkipsTurn_ShockRate(t *testing.T) {
	reg := condition.DefaultRegistry()
	r := newResolver(dice.NewSeededSource(7))
	enemy, _ := combat.ApplyEffect(makeEnemy(40, 5), condition.Shock, 0, reg)
	skips := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		if r.SkipsTurn(enemy) {
			skips++
		}
	}
	assert.InDelta(t, 0.1, float64(skips)/trials, 0.04)
}

func TestSkipsTurn_UnshockedMakesNoDraw(t *testing.T) {
	assert.False(t, newResolver(noDrawSrc{t: t}).SkipsTurn(makeEnemy(10, 1)))
}

func TestRules_Validate(t *testing.T) {
	require.NoError(t, combat.DefaultRules().Validate())
	bad := combat.DefaultRules()
	bad.FleeChance = 1.5
	assert.Error(t, bad.Validate())
}
