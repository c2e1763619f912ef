package world

import "fmt"

// ActionKind classifies what choosing an Action does.
type ActionKind string

const (
	ActionExplore   ActionKind = "explore"
	ActionRest      ActionKind = "rest"
	ActionEncounter ActionKind = "encounter"
	ActionSocial    ActionKind = "social"
	ActionMove      ActionKind = "move"
)

// ParseActionKind validates s as an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ActionExplore, ActionRest, ActionEncounter, ActionSocial, ActionMove:
		return k, nil
	}
	return "", fmt.Errorf("unknown action kind %q", s)
}

// Action is one choice offered in a scene.
type Action struct {
	Label            string     `json:"label" yaml:"label"`
	Kind             ActionKind `json:"kind" yaml:"kind"`
	TargetLocationID string     `json:"target_location_id,omitempty" yaml:"target_location_id,omitempty"`
}

// SceneActions combines provider-supplied actions with travel choices.
// Move actions in local are dropped; one "Go to <name>" action is appended per
// neighbouring location, so the map alone decides where the player can travel.
//
// Postcondition: every move action targets a neighbour of at, at most once.
func SceneActions(local []Action, m Map, at string) []Action {
	out := make([]Action, 0, len(local)+2)
	for _, a := range local {
		if a.Kind != ActionMove {
			out = append(out, a)
		}
	}
	for _, id := range m.Neighbours(at) {
		name := "???"
		if l, ok := m.Location(id); ok {
			name = l.Name
		}
		out = append(out, Action{
			Label:            "Go to " + name,
			Kind:             ActionMove,
			TargetLocationID: id,
		})
	}
	return out
}
