package encounter

import "fmt"

// CommandKind names one entry of the player's combat vocabulary.
type CommandKind string

const (
	CommandAttack     CommandKind = "attack"
	CommandUseAbility CommandKind = "use_ability"
	CommandDefend     CommandKind = "defend"
	CommandFlee       CommandKind = "flee"
	CommandUseItem    CommandKind = "use_item"
)

// Command is a player action. Target indexes Encounter.Enemies; Item indexes
// the player's inventory.
type Command struct {
	Kind      CommandKind `json:"kind" binding:"required"`
	Target    int         `json:"target,omitempty"`
	AbilityID string      `json:"ability_id,omitempty"`
	Item      int         `json:"item,omitempty"`
}

// Attack targets the enemy at index target with a basic attack.
func Attack(target int) Command { return Command{Kind: CommandAttack, Target: target} }

// UseAbility casts abilityID; target is ignored for self-targeted abilities.
func UseAbility(abilityID string, target int) Command {
	return Command{Kind: CommandUseAbility, AbilityID: abilityID, Target: target}
}

// Defend braces the player for the coming enemy turns.
func Defend() Command { return Command{Kind: CommandDefend} }

// Flee attempts to escape the encounter.
func Flee() Command { return Command{Kind: CommandFlee} }

// UseItem uses the inventory stack at index.
func UseItem(index int) Command { return Command{Kind: CommandUseItem, Item: index} }

func (c Command) String() string {
	switch c.Kind {
	case CommandAttack:
		return fmt.Sprintf("attack(%d)", c.Target)
	case CommandUseAbility:
		return fmt.Sprintf("use_ability(%s, %d)", c.AbilityID, c.Target)
	case CommandUseItem:
		return fmt.Sprintf("use_item(%d)", c.Item)
	}
	return string(c.Kind) + "()"
}
