package world

import (
	"fmt"

	"github.com/cory-johannsen/emberfall/internal/game/inventory"
)

// RewardKind is what a social choice grants.
type RewardKind string

const (
	RewardXP   RewardKind = "xp"
	RewardItem RewardKind = "item"
)

// Reward is the optional payoff of a social choice.
type Reward struct {
	Kind RewardKind      `json:"kind" yaml:"kind"`
	XP   int             `json:"xp,omitempty" yaml:"xp,omitempty"`
	Item *inventory.Item `json:"item,omitempty" yaml:"item,omitempty"`
}

// SocialChoice is one response the player can give in a social encounter.
type SocialChoice struct {
	Label   string  `json:"label" yaml:"label"`
	Outcome string  `json:"outcome" yaml:"outcome"`
	Reward  *Reward `json:"reward,omitempty" yaml:"reward,omitempty"`
}

// SocialEncounter is a non-combat situation offering the player a choice.
type SocialEncounter struct {
	Description string         `json:"description" yaml:"description"`
	Choices     []SocialChoice `json:"choices" yaml:"choices"`
}

// Validate checks that the encounter offers at least one well-formed choice.
func (s SocialEncounter) Validate() error {
	if s.Description == "" {
		return fmt.Errorf("social encounter: description must not be empty")
	}
	if len(s.Choices) == 0 {
		return fmt.Errorf("social encounter: must offer at least one choice")
	}
	for i, c := range s.Choices {
		if c.Label == "" || c.Outcome == "" {
			return fmt.Errorf("social encounter choice %d: label and outcome are required", i)
		}
		if c.Reward == nil {
			continue
		}
		switch c.Reward.Kind {
		case RewardXP:
			if c.Reward.XP < 0 {
				return fmt.Errorf("social encounter choice %d: negative xp reward", i)
			}
		case RewardItem:
			if c.Reward.Item == nil {
				return fmt.Errorf("social encounter choice %d: item reward without item", i)
			}
			if err := c.Reward.Item.Validate(); err != nil {
				return fmt.Errorf("social encounter choice %d: %w", i, err)
			}
		default:
			return fmt.Errorf("social encounter choice %d: unknown reward kind %q", i, c.Reward.Kind)
		}
	}
	return nil
}
