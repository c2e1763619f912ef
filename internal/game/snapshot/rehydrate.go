package snapshot

// Mode is the top-level activity of a game.
type Mode string

const (
	ModeExploring Mode = "exploring"
	ModeCombat    Mode = "combat"
	ModeSocial    Mode = "social"
	ModeGameOver  Mode = "game_over"
)

// Exploration is the live, encounter-free state resumed from a save.
type Exploration struct {
	Snapshot
	Mode Mode `json:"mode"`
}

// Rehydrate resumes play from s: the player is out of combat, exploring, and
// "Game Loaded." is appended to the log.
//
// Postcondition: the player carries no effects or combat flags.
func Rehydrate(s Snapshot) Exploration {
	s = Apply(s, AppendLog{Message: "Game Loaded."})
	s.Player.Combatant = s.Player.Combatant.ClearTransient()
	return Exploration{Snapshot: s, Mode: ModeExploring}
}
