package npc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/element"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

type fixedSrc struct{ f float64 }

func (s fixedSrc) Intn(_ int) int     { return 0 }
func (s fixedSrc) Float64() float64 { return s.f }

func findTemplate(t *testing.T, id string) *npc.Template {
	t.Helper()
	for _, tmpl := range npc.DefaultBestiary() {
		if tmpl.ID == id {
			return tmpl
		}
	}
	t.Fatalf("template %q not in bestiary", id)
	return nil
}

func TestNew_FreshEnemy(t *testing.T) {
	e := npc.New("Slime", "Goo.", 20, 4)
	assert.Equal(t, combat.KindEnemy, e.Kind)
	assert.Equal(t, 20, e.HP)
	assert.Equal(t, 20, e.MaxHP)
	assert.False(t, e.Shielded)
	assert.Empty(t, e.Effects)
}

func TestEnemy_XPValue(t *testing.T) {
	assert.Equal(t, 14, npc.New("Slime", "", 20, 4).XPValue())
	assert.Equal(t, 12, npc.New("Odd", "", 15, 5).XPValue())
}

func TestParseAbility_AcceptsLegacySpellings(t *testing.T) {
	a, err := npc.ParseAbility("MULTI-ATTACK")
	require.NoError(t, err)
	assert.Equal(t, npc.AbilityMultiAttack, a)
	a, err = npc.ParseAbility("DRAIN_LIFE")
	require.NoError(t, err)
	assert.Equal(t, npc.AbilityDrainLife, a)
	_, err = npc.ParseAbility("teleport")
	assert.Error(t, err)
}

func TestDefaultBestiary_Valid(t *testing.T) {
	ts := npc.DefaultBestiary()
	require.Len(t, ts, 15)
	for _, tmpl := range ts {
		assert.NoError(t, tmpl.Validate(), tmpl.ID)
	}
	for i := 1; i < len(ts); i++ {
		assert.LessOrEqual(t, ts[i-1].MinLevel, ts[i].MinLevel)
	}
}

func TestTemplate_Scaled(t *testing.T) {
	slime := findTemplate(t, "slime")
	hp, atk := slime.Scaled(1)
	assert.Equal(t, 15, hp)
	assert.Equal(t, 3, atk)
	hp, atk = slime.Scaled(6)
	assert.Equal(t, 35, hp)
	assert.Equal(t, 7, atk)
}

func TestTemplate_Spawn_LootRoll(t *testing.T) {
	bandit := findTemplate(t, "bandit")
	e := bandit.Spawn(2, fixedSrc{f: 0.1})
	require.NotNil(t, e.Loot)
	assert.Equal(t, "Health Potion", e.Loot.Name)
	assert.Equal(t, npc.PersonalityStrategic, e.Personality)

	e = bandit.Spawn(2, fixedSrc{f: 0.9})
	assert.Nil(t, e.Loot)
}

func TestEligible(t *testing.T) {
	got := npc.Eligible(npc.DefaultBestiary(), 1)
	require.Len(t, got, 3)
	for _, tmpl := range got {
		assert.Equal(t, 1, tmpl.MinLevel)
	}
}

func TestTemplate_Property_SpawnIsFullHealth(t *testing.T) {
	ts := npc.DefaultBestiary()
	rapid.Check(t, func(rt *rapid.T) {
		tmpl := rapid.SampledFrom(ts).Draw(rt, "tmpl")
		level := rapid.IntRange(1, 40).Draw(rt, "level")
		e := tmpl.Spawn(level, fixedSrc{f: rapid.Float64Range(0, 0.99).Draw(rt, "u")})
		assert.Equal(rt, e.MaxHP, e.HP)
		assert.GreaterOrEqual(rt, e.HP, tmpl.BaseHP)
		assert.Equal(rt, tmpl.Element, e.Element)
	})
}

func TestLoadTemplates_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	data := `
id: frost_imp
name: Frost Imp
description: A cackling sprite of rime.
base_hp: 18
hp_per_level: 4
base_attack: 5
attack_per_level: 1.5
ability: shield
personality: wild
element: ice
min_level: 3
loot:
  chance: 0.25
  item:
    name: Ice Crystal
    description: Cold to the touch.
    kind: misc
    stack_limit: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frost_imp.yaml"), []byte(data), 0644))
	ts, err := npc.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, element.Ice, ts[0].Element)
	assert.Equal(t, npc.AbilityShield, ts[0].Ability)
	require.NotNil(t, ts[0].Loot)
	assert.Equal(t, 0.25, ts[0].Loot.Chance)
}

func TestLoadTemplates_InvalidFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nname: Bad\nbase_hp: 0\nmin_level: 1\n"), 0644))
	_, err := npc.LoadTemplates(dir)
	assert.Error(t, err)
}

func TestShippedBestiaryMatchesDefaults(t *testing.T) {
	ts, err := npc.LoadTemplates(filepath.Join("..", "..", "..", "content", "npcs"))
	require.NoError(t, err)
	assert.Equal(t, npc.DefaultBestiary(), ts)
}
