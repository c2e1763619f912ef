package encounter

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
)

// maxSessionEvents bounds the event history a Session retains.
const maxSessionEvents = 200

// Session owns one live encounter and serializes every transition on it.
//
// The encounter's phase doubles as the re-entrancy guard: while enemy turns
// run the stored phase is PhaseEnemyTurns, so a second trigger fails with
// ErrEnemyTurnsInProgress instead of running the cycle twice.
type Session struct {
	ctrl *Controller

	mu     sync.Mutex
	enc    Encounter
	events []combat.Event
	seq    int
}

// NewSession wraps enc for concurrent use.
//
// Precondition: ctrl must be non-nil.
func NewSession(ctrl *Controller, enc Encounter) *Session {
	return &Session{ctrl: ctrl, enc: enc}
}

// Snapshot returns the current encounter.
func (s *Session) Snapshot() Encounter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc
}

// Events returns the retained events after sequence number since, and the
// sequence number of the latest event.
func (s *Session) Events(since int) ([]combat.Event, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	first := s.seq - len(s.events)
	if since < first {
		since = first
	}
	if since >= s.seq {
		return nil, s.seq
	}
	return append([]combat.Event(nil), s.events[since-first:]...), s.seq
}

// Act resolves the player's half of a turn.
//
// Postcondition: invalid commands change nothing and yield one EventRejected.
func (s *Session) Act(cmd Command) (Encounter, []combat.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc, events := s.ctrl.PlayerAction(s.enc, cmd)
	s.enc = enc
	s.record(events)
	return enc, events
}

// RunEnemyTurns runs the pending enemy turns. The session lock is not held
// while enemies act, so Snapshot stays responsive during pacing delays.
//
// Postcondition: returns ErrEnemyTurnsInProgress when another call is
// running them, ErrNoPendingEnemyTurns when none are due.
func (s *Session) RunEnemyTurns(ctx context.Context) (Encounter, []combat.Event, error) {
	s.mu.Lock()
	switch s.enc.Phase {
	case PhaseEnemyTurns:
		s.mu.Unlock()
		return Encounter{}, nil, ErrEnemyTurnsInProgress
	case PhaseResolvingPlayerAction:
	default:
		s.mu.Unlock()
		return Encounter{}, nil, ErrNoPendingEnemyTurns
	}
	start := s.enc
	s.enc.Phase = PhaseEnemyTurns
	s.mu.Unlock()

	enc, events, err := s.ctrl.EnemyTurns(ctx, start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.enc = enc
	s.record(events)
	return enc, events, err
}

// Dispatch resolves cmd and any enemy turns that follow it.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Encounter, []combat.Event, error) {
	enc, events := s.Act(cmd)
	if enc.Phase != PhaseResolvingPlayerAction {
		return enc, events, nil
	}
	enc, more, err := s.RunEnemyTurns(ctx)
	if err != nil && enc.ID == uuid.Nil {
		return s.Snapshot(), events, err
	}
	return enc, append(events, more...), err
}

// record must be called with mu held.
func (s *Session) record(events []combat.Event) {
	s.events = append(s.events, events...)
	s.seq += len(events)
	if over := len(s.events) - maxSessionEvents; over > 0 {
		s.events = append([]combat.Event(nil), s.events[over:]...)
	}
}
