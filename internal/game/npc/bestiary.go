package npc

import (
	"github.com/cory-johannsen/emberfall/internal/game/element"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
)

// DefaultBestiary returns the stock bestiary ordered by MinLevel then ID.
func DefaultBestiary() []*Template {
	potion := inventory.HealthPotion()
	elixir := inventory.Item{Name: "Greater Elixir", Description: "Shimmers with restorative power.", Kind: inventory.KindPotion, Value: 60, StackLimit: 5}
	ts := []*Template{
		{ID: "slime", Name: "Green Slime", Description: "A wobbling mound of acidic goo.",
			BaseHP: 15, HPPerLevel: 4, BaseAttack: 3, AttackPerLevel: 0.8,
			Personality: PersonalityWild, Element: element.Earth, MinLevel: 1},
		{ID: "rat", Name: "Dire Rat", Description: "An unusually large rodent with yellow teeth.",
			BaseHP: 12, HPPerLevel: 3, BaseAttack: 4, AttackPerLevel: 1,
			Personality: PersonalityAggressive, MinLevel: 1},
		{ID: "bat", Name: "Vampire Bat", Description: "It screeches as it dives for blood.",
			BaseHP: 10, HPPerLevel: 3, BaseAttack: 4, AttackPerLevel: 1.2, Ability: AbilityDrainLife,
			Personality: PersonalityAggressive, MinLevel: 1},
		{ID: "bandit", Name: "Roadside Bandit", Description: "A rough-looking thug looking for coin.",
			BaseHP: 25, HPPerLevel: 5, BaseAttack: 5, AttackPerLevel: 1.5,
			Personality: PersonalityStrategic, MinLevel: 2, Loot: &LootDrop{Item: potion, Chance: 0.4}},
		{ID: "wolf", Name: "Timber Wolf", Description: "A grey wolf with a menacing growl.",
			BaseHP: 22, HPPerLevel: 5, BaseAttack: 6, AttackPerLevel: 1.5, Ability: AbilityMultiAttack,
			Personality: PersonalityAggressive, MinLevel: 2},
		{ID: "goblin_shaman", Name: "Goblin Shaman", Description: "Mutters incantations while waving a bone staff.",
			BaseHP: 35, HPPerLevel: 6, BaseAttack: 8, AttackPerLevel: 2, Ability: AbilityHeal,
			Personality: PersonalityDefensive, Element: element.Fire, MinLevel: 4, Loot: &LootDrop{Item: potion, Chance: 0.5}},
		{ID: "skeleton_warrior", Name: "Skeleton Warrior", Description: "Animated bones wearing rusted armor.",
			BaseHP: 45, HPPerLevel: 8, BaseAttack: 10, AttackPerLevel: 2, Ability: AbilityShield,
			Personality: PersonalityDefensive, Element: element.Ice, MinLevel: 5},
		{ID: "orc_grunt", Name: "Orc Grunt", Description: "A green-skinned brute with a heavy axe.",
			BaseHP: 60, HPPerLevel: 10, BaseAttack: 12, AttackPerLevel: 2.5,
			Personality: PersonalityAggressive, Element: element.Earth, MinLevel: 6},
		{ID: "wisp", Name: "Arcane Wisp", Description: "A floating ball of crackling energy.",
			BaseHP: 30, HPPerLevel: 5, BaseAttack: 15, AttackPerLevel: 3,
			Personality: PersonalityWild, Element: element.Lightning, MinLevel: 7},
		{ID: "mimic", Name: "Mimic", Description: "That chest has teeth!",
			BaseHP: 50, HPPerLevel: 9, BaseAttack: 14, AttackPerLevel: 3, Ability: AbilityMultiAttack,
			Personality: PersonalityWild, MinLevel: 8, Loot: &LootDrop{Item: elixir, Chance: 0.8}},
		{ID: "troll", Name: "Cave Troll", Description: "Massive, regenerating monstrosity.",
			BaseHP: 120, HPPerLevel: 15, BaseAttack: 18, AttackPerLevel: 3, Ability: AbilityHeal,
			Personality: PersonalityAggressive, Element: element.Earth, MinLevel: 12},
		{ID: "fire_elemental", Name: "Fire Elemental", Description: "Living flame that burns everything nearby.",
			BaseHP: 90, HPPerLevel: 10, BaseAttack: 22, AttackPerLevel: 4,
			Personality: PersonalityWild, Element: element.Fire, MinLevel: 14},
		{ID: "ice_golem", Name: "Ice Golem", Description: "A lumbering construct of glacial ice.",
			BaseHP: 150, HPPerLevel: 18, BaseAttack: 20, AttackPerLevel: 3.5, Ability: AbilityShield,
			Personality: PersonalityDefensive, Element: element.Ice, MinLevel: 15},
		{ID: "necromancer", Name: "Dark Necromancer", Description: "Wears robes of shadow and commands death.",
			BaseHP: 80, HPPerLevel: 8, BaseAttack: 25, AttackPerLevel: 5, Ability: AbilityDrainLife,
			Personality: PersonalityStrategic, MinLevel: 16, Loot: &LootDrop{Item: elixir, Chance: 0.5}},
		{ID: "dragon_whelp", Name: "Dragon Whelp", Description: "Small, but its breath is deadly.",
			BaseHP: 200, HPPerLevel: 20, BaseAttack: 30, AttackPerLevel: 6, Ability: AbilityMultiAttack,
			Personality: PersonalityAggressive, Element: element.Fire, MinLevel: 20},
	}
	sortTemplates(ts)
	return ts
}
