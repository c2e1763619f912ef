// Package simulate fights many seeded encounters headlessly to measure balance.
package simulate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/content"
	"github.com/cory-johannsen/emberfall/internal/game/ai"
	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/encounter"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

// DefaultMaxTurns bounds a single fight.
const DefaultMaxTurns = 200

// Strategy is how the simulated player picks commands.
type Strategy string

const (
	// StrategyAttack always attacks the first living enemy.
	StrategyAttack Strategy = "attack"
	// StrategyAbility casts the first affordable class ability, otherwise attacks.
	StrategyAbility Strategy = "ability"
)

// Params describes one batch of fights.
type Params struct {
	Class    string
	Level    int
	Enemies  []string
	Runs     int
	Seed     uint64
	Strategy Strategy
	MaxTurns int
}

// validate checks p against the bundle the simulator was built with.
func (p Params) validate(b content.Bundle) error {
	if _, ok := b.Catalog.Class(p.Class); !ok {
		return fmt.Errorf("unknown class %q", p.Class)
	}
	if p.Level < 1 {
		return fmt.Errorf("level must be >= 1, got %d", p.Level)
	}
	if len(p.Enemies) == 0 {
		return fmt.Errorf("at least one enemy is required")
	}
	if p.Runs < 1 {
		return fmt.Errorf("runs must be >= 1, got %d", p.Runs)
	}
	switch p.Strategy {
	case StrategyAttack, StrategyAbility:
	default:
		return fmt.Errorf("unknown strategy %q", p.Strategy)
	}
	return nil
}

// Result aggregates the outcomes of a batch.
type Result struct {
	Runs      int `json:"runs"`
	Victories int `json:"victories"`
	Defeats   int `json:"defeats"`
	Fled      int `json:"fled"`
	// Stalled counts fights cut off at MaxTurns.
	Stalled int `json:"stalled"`
	// Turns sums the turns of every fight.
	Turns int `json:"turns"`
	// HPLeft sums the player's remaining health over victories.
	HPLeft int `json:"hp_left"`
}

// WinRate returns Victories / Runs.
func (r Result) WinRate() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.Victories) / float64(r.Runs)
}

// AverageTurns returns Turns / Runs.
func (r Result) AverageTurns() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.Turns) / float64(r.Runs)
}

// Options tunes the enemy policy used by every fight.
type Options struct {
	// Scripts serves "script:" rule predicates; nil disables them.
	Scripts ai.ScriptCaller
	// LowHealth defaults to ai.DefaultLowHealth.
	LowHealth float64
}

// Simulator runs batches against one content bundle and rule set.
type Simulator struct {
	bundle content.Bundle
	rules  combat.Rules
	opts   Options
	logger *zap.Logger
}

// New creates a Simulator.
//
// Precondition: bundle must be fully populated; logger must be non-nil.
func New(bundle content.Bundle, rules combat.Rules, opts Options, logger *zap.Logger) *Simulator {
	if opts.LowHealth <= 0 {
		opts.LowHealth = ai.DefaultLowHealth
	}
	return &Simulator{bundle: bundle, rules: rules, opts: opts, logger: logger}
}

// Run fights p.Runs encounters. Run i draws from a source seeded with
// p.Seed+i, so equal Params always yield equal Results.
//
// Postcondition: Victories+Defeats+Fled+Stalled == Runs unless ctx ends early.
func (s *Simulator) Run(ctx context.Context, p Params) (Result, error) {
	if p.MaxTurns <= 0 {
		p.MaxTurns = DefaultMaxTurns
	}
	if err := p.validate(s.bundle); err != nil {
		return Result{}, err
	}
	templates := make([]*npc.Template, 0, len(p.Enemies))
	for _, id := range p.Enemies {
		t, ok := s.template(id)
		if !ok {
			return Result{}, fmt.Errorf("unknown enemy template %q", id)
		}
		templates = append(templates, t)
	}

	start := time.Now()
	var res Result
	for i := range p.Runs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		phase, turns, hp, err := s.fight(ctx, p, templates, dice.NewSeededSource(p.Seed+uint64(i)))
		if err != nil {
			return res, fmt.Errorf("run %d: %w", i, err)
		}
		res.Runs++
		res.Turns += turns
		switch phase {
		case encounter.PhaseVictory:
			res.Victories++
			res.HPLeft += hp
		case encounter.PhaseDefeat:
			res.Defeats++
		case encounter.PhaseFled:
			res.Fled++
		default:
			res.Stalled++
		}
	}
	s.logger.Debug("simulation finished",
		zap.String("class", p.Class),
		zap.Int("level", p.Level),
		zap.Strings("enemies", p.Enemies),
		zap.Int("runs", res.Runs),
		zap.Float64("win_rate", res.WinRate()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (s *Simulator) template(id string) (*npc.Template, bool) {
	for _, t := range s.bundle.Bestiary {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func (s *Simulator) fight(ctx context.Context, p Params, templates []*npc.Template, src dice.Source) (encounter.Phase, int, int, error) {
	class, _ := s.bundle.Catalog.Class(p.Class)
	player, err := character.Build("Simulant", class)
	if err != nil {
		return 0, 0, 0, err
	}
	for player.Level < p.Level {
		player, _ = character.LevelUp(player, class)
	}
	player.XP = 0

	enemies := make([]npc.Enemy, 0, len(templates))
	for _, t := range templates {
		enemies = append(enemies, t.Spawn(p.Level, src))
	}

	opts := []ai.Option{ai.WithLowHealth(s.opts.LowHealth)}
	if s.opts.Scripts != nil {
		opts = append(opts, ai.WithScripts(s.opts.Scripts))
	}
	ctrl := encounter.NewController(
		combat.NewResolver(s.rules, s.bundle.Effects, src),
		ai.NewPolicy(s.bundle.Personalities, src, opts...),
		s.bundle.Catalog,
		encounter.NoPacing(),
		s.logger,
	)
	mgr := encounter.NewManager(ctrl)
	sess, err := mgr.Start(player, enemies)
	if err != nil {
		return 0, 0, 0, err
	}
	enc := sess.Snapshot()
	defer func() { _, _ = mgr.End(enc.ID) }()

	for !enc.Phase.Terminal() && enc.Turn <= p.MaxTurns {
		cmd, target := s.choose(p.Strategy, enc)
		var events []combat.Event
		enc, events, err = sess.Dispatch(ctx, cmd)
		if err == nil && len(events) == 1 && events[0].Kind == combat.EventRejected {
			enc, _, err = sess.Dispatch(ctx, encounter.Attack(target))
		}
		if err != nil {
			return 0, 0, 0, err
		}
	}
	return enc.Phase, enc.Turn, enc.Player.HP, nil
}

// choose returns the strategy's command and the enemy index it aims at.
func (s *Simulator) choose(strategy Strategy, enc encounter.Encounter) (encounter.Command, int) {
	living := enc.Living()
	target := 0
	if len(living) > 0 {
		target = living[0]
	}
	if strategy == StrategyAbility {
		for _, id := range enc.Player.Abilities {
			a, ok := s.bundle.Catalog.Abilities.Get(id)
			if ok && enc.Player.CanCast(a) == nil {
				return encounter.UseAbility(id, target), target
			}
		}
	}
	return encounter.Attack(target), target
}
