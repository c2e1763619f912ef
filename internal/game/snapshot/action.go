package snapshot

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// Action is a transition applied to a Snapshot.
type Action interface {
	apply(s Snapshot) Snapshot
}

// Apply returns the snapshot that results from applying a to old.
// old is never modified.
func Apply(old Snapshot, a Action) Snapshot {
	s := old
	s.Actions = slices.Clone(old.Actions)
	s.Log = slices.Clone(old.Log)
	s.Player.Inventory = slices.Clone(old.Player.Inventory)
	return a.apply(s)
}

// SetScene replaces the narrative text and the offered actions.
type SetScene struct {
	Description string
	Actions     []world.Action
}

func (a SetScene) apply(s Snapshot) Snapshot {
	s.StoryText = a.Description
	s.Actions = slices.Clone(a.Actions)
	return s
}

// AppendLog adds one line to the bounded log.
type AppendLog struct {
	Message string
}

func (a AppendLog) apply(s Snapshot) Snapshot {
	s.Log = appendLog(s.Log, a.Message)
	return s
}

// Move puts the player at LocationID and marks it explored. Unknown locations
// leave the snapshot unchanged.
type Move struct {
	LocationID string
}

func (a Move) apply(s Snapshot) Snapshot {
	m, ok := world.Move(s.World, a.LocationID)
	if !ok {
		return s
	}
	s.World = m
	s.LocationID = a.LocationID
	s.Log = appendLog(s.Log, fmt.Sprintf("You travel to %s...", s.Location().Name))
	return s
}

// FoundItem adds Item to the player's inventory.
type FoundItem struct {
	Item inventory.Item
}

func (a FoundItem) apply(s Snapshot) Snapshot {
	s.Player.Inventory = s.Player.Inventory.Add(a.Item)
	s.Log = appendLog(s.Log, fmt.Sprintf("You found a %s!", a.Item.Name))
	return s
}

// ResolveSocialChoice logs the choice's outcome, grants its reward and applies
// at most one level up.
type ResolveSocialChoice struct {
	Choice world.SocialChoice
	Class  *ruleset.Class
}

func (a ResolveSocialChoice) apply(s Snapshot) Snapshot {
	s.Log = appendLog(s.Log, a.Choice.Outcome)
	xp := 0
	if r := a.Choice.Reward; r != nil {
		switch r.Kind {
		case world.RewardXP:
			xp = r.XP
			s.Log = appendLog(s.Log, fmt.Sprintf("You gained %d XP!", r.XP))
		case world.RewardItem:
			if r.Item != nil {
				s.Player.Inventory = s.Player.Inventory.Add(*r.Item)
				s.Log = appendLog(s.Log, fmt.Sprintf("You obtained a %s!", r.Item.Name))
			}
		}
	}
	var events []combat.Event
	s.Player, _, events = character.GainXP(s.Player, xp, a.Class)
	s.Log = appendLog(s.Log, combat.Narratives(events)...)
	return s
}

// CombatEnded records the player as they left an encounter along with the
// encounter's narrative.
type CombatEnded struct {
	Player character.Player
	Events []combat.Event
}

func (a CombatEnded) apply(s Snapshot) Snapshot {
	s.Player = a.Player
	s.Player.Inventory = slices.Clone(a.Player.Inventory)
	s.Log = appendLog(s.Log, combat.Narratives(a.Events)...)
	return s
}
