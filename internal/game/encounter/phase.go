// Package encounter sequences one combat from the player's first action to
// victory, defeat or escape.
package encounter

import "fmt"

// Phase is the position of an encounter in its turn cycle.
//
// The cycle is PlayerTurn -> ResolvingPlayerAction -> EnemyTurns ->
// VictoryCheck -> PlayerTurn, leaving it for Victory, Defeat or Fled.
type Phase int

const (
	// PhasePlayerTurn waits for a player command.
	PhasePlayerTurn Phase = iota
	// PhaseResolvingPlayerAction holds a resolved player action whose enemy turns have not started.
	PhaseResolvingPlayerAction
	// PhaseEnemyTurns marks enemy turns in progress.
	PhaseEnemyTurns
	// PhaseVictoryCheck is entered after the last enemy acts.
	PhaseVictoryCheck
	PhaseVictory
	PhaseDefeat
	PhaseFled
)

var phaseNames = [...]string{
	"player_turn", "resolving_player_action", "enemy_turns", "victory_check",
	"victory", "defeat", "fled",
}

// String returns the snake_case name of p.
func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Terminal reports whether the encounter is over.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat || p == PhaseFled
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, n := range phaseNames {
		if n == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(b))
}
