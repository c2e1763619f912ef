package content

import (
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// FallbackScene is used when a scene cannot be produced.
func FallbackScene() Scene {
	return Scene{
		Description: "An ancient path winds before you, shrouded in an eerie silence. The air is thick with unspoken magic.",
		Actions: []world.Action{
			{Label: "Follow the path", Kind: world.ActionExplore},
			{Label: "Search for danger", Kind: world.ActionEncounter},
			{Label: "Set up camp", Kind: world.ActionRest},
		},
		Fallback: true,
	}
}

// FallbackExplore is used when an exploration outcome cannot be produced.
func FallbackExplore() ExploreResult {
	return ExploreResult{
		Outcome:  "The way ahead is quiet. You find nothing of note.",
		Fallback: true,
	}
}

// FallbackEncounter is a single Slime scaled to level: 20 health and 4
// attack per level.
func FallbackEncounter(level int) EncounterPayload {
	level = max(1, level)
	return EncounterPayload{
		Enemies: []npc.Enemy{
			npc.New("Slime", "A basic, gelatinous creature. It jiggles menacingly.", level*20, level*4),
		},
		Fallback: true,
	}
}

// FallbackSocial is the merchant with a broken wheel.
func FallbackSocial() Social {
	return Social{Encounter: merchant(), Fallback: true}
}

func merchant() world.SocialEncounter {
	return world.SocialEncounter{
		Description: "You come across an old merchant whose cart has a broken wheel. He looks at you with weary eyes.",
		Choices: []world.SocialChoice{
			{
				Label:   "Help him fix the wheel.",
				Outcome: "You spend some time helping the merchant. Grateful, he thanks you for your kindness.",
				Reward:  &world.Reward{Kind: world.RewardXP, XP: 30},
			},
			{
				Label:   "Ignore him and continue.",
				Outcome: "You decide you don't have time to help and continue on your journey down the path.",
			},
		},
	}
}

// DefaultSocials returns the built-in social encounters.
func DefaultSocials() []world.SocialEncounter {
	potion := inventory.HealthPotion()
	return []world.SocialEncounter{
		merchant(),
		{
			Description: "A lost child sits crying beside the road, clutching a wooden sword.",
			Choices: []world.SocialChoice{
				{
					Label:   "Walk her home.",
					Outcome: "You lead the child back to her village. Her mother presses a flask into your hands.",
					Reward:  &world.Reward{Kind: world.RewardItem, Item: &potion},
				},
				{
					Label:   "Point the way.",
					Outcome: "You point toward the smoke of the nearest village. She sets off, sniffling.",
				},
			},
		},
		{
			Description: "A grizzled guard blocks the bridge and demands to know your business.",
			Choices: []world.SocialChoice{
				{
					Label:   "Tell him the truth.",
					Outcome: "He grunts, impressed by your honesty, and shares a tale of the monsters upriver.",
					Reward:  &world.Reward{Kind: world.RewardXP, XP: 25},
				},
				{
					Label:   "Wade across instead.",
					Outcome: "You leave the guard to his post and ford the cold river downstream.",
				},
			},
		},
	}
}
