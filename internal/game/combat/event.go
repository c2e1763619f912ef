package combat

import "fmt"

// EventKind classifies an Event.
type EventKind int

const (
	EventDamage EventKind = iota
	EventHeal
	EventEffectApplied
	EventEffectRefreshed
	EventEffectExpired
	EventBurn
	EventShieldRaised
	EventShieldFaded
	EventDefend
	EventSkipped
	EventDefeated
	EventFled
	EventFleeFailed
	EventItemUsed
	EventResourceSpent
	EventVictory
	EventDefeat
	EventLevelUp
	EventLoot
	EventRejected
	EventNotice
)

var eventKindNames = [...]string{
	"damage", "heal", "effect_applied", "effect_refreshed", "effect_expired",
	"burn", "shield_raised", "shield_faded", "defend", "skipped", "defeated",
	"fled", "flee_failed", "item_used", "resource_spent", "victory", "defeat",
	"level_up", "loot", "rejected", "notice",
}

// String returns the snake_case name of k.
func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(b []byte) error {
	for i, name := range eventKindNames {
		if name == string(b) {
			*k = EventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", b)
}

// Event records one observable consequence of an operation. Narrative is the
// human-readable line appended to the game log.
type Event struct {
	Kind      EventKind `json:"kind"`
	Actor     string    `json:"actor,omitempty"`
	Target    string    `json:"target,omitempty"`
	Amount    int       `json:"amount,omitempty"`
	Crit      bool      `json:"crit,omitempty"`
	Resisted  bool      `json:"resisted,omitempty"`
	Effect    string    `json:"effect,omitempty"`
	Narrative string    `json:"narrative"`
}

// Narratives returns the Narrative of each event in order.
func Narratives(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Narrative)
	}
	return out
}
