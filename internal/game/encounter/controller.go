package encounter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/game/ai"
	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

var (
	// ErrEnemyTurnsInProgress is returned when enemy turns are requested while they are already running.
	ErrEnemyTurnsInProgress = errors.New("enemy turns already in progress")
	// ErrNoPendingEnemyTurns is returned when enemy turns are requested outside ResolvingPlayerAction.
	ErrNoPendingEnemyTurns = errors.New("no enemy turns pending")
	// ErrNoEnemies is returned by Begin for an empty roster.
	ErrNoEnemies = errors.New("encounter needs at least one living enemy")
)

// Controller drives encounters through their turn cycle.
//
// A Controller holds no encounter state and is safe for concurrent use as
// long as its random source is.
type Controller struct {
	resolver *combat.Resolver
	policy   *ai.Policy
	catalog  *ruleset.Catalog
	pacer    Pacer
	logger   *zap.Logger
}

// NewController creates a Controller.
//
// Precondition: resolver, policy, catalog and logger must be non-nil.
func NewController(resolver *combat.Resolver, policy *ai.Policy, catalog *ruleset.Catalog, pacer Pacer, logger *zap.Logger) *Controller {
	return &Controller{
		resolver: resolver,
		policy:   policy,
		catalog:  catalog,
		pacer:    pacer,
		logger:   logger,
	}
}

// Begin starts an encounter in PhasePlayerTurn with every stance flag cleared.
//
// Precondition: player's class must exist in the catalog.
// Postcondition: Returns an encounter with a fresh ID, or an error.
func (c *Controller) Begin(player character.Player, enemies []npc.Enemy) (Encounter, error) {
	if _, ok := c.catalog.Class(player.Class); !ok {
		return Encounter{}, fmt.Errorf("unknown class %q", player.Class)
	}
	enc := Encounter{
		ID:      uuid.New(),
		Phase:   PhasePlayerTurn,
		Turn:    1,
		Player:  player,
		Enemies: append([]npc.Enemy(nil), enemies...),
	}
	enc.Player.Defending = false
	enc.Player.Shielded = false
	for i := range enc.Enemies {
		enc.Enemies[i].Defending = false
		enc.Enemies[i].Shielded = false
	}
	if enc.AllDefeated() {
		return Encounter{}, ErrNoEnemies
	}
	c.logger.Info("encounter started",
		zap.String("encounter", enc.ID.String()),
		zap.String("player", player.Name),
		zap.Int("enemies", len(enc.Enemies)),
	)
	return enc, nil
}

// Dispatch resolves cmd and, when the encounter continues, the enemy turns
// that follow it.
//
// Postcondition: the returned encounter is in PlayerTurn or a terminal phase,
// unless cmd was rejected.
func (c *Controller) Dispatch(ctx context.Context, enc Encounter, cmd Command) (Encounter, []combat.Event, error) {
	enc, events := c.PlayerAction(enc, cmd)
	if enc.Phase != PhaseResolvingPlayerAction {
		return enc, events, nil
	}
	enc, more, err := c.EnemyTurns(ctx, enc)
	return enc, append(events, more...), err
}

// PlayerAction resolves the player's half of a turn: the defending stance is
// cleared, the player's effects tick, then cmd resolves.
//
// An invalid command or a call outside PhasePlayerTurn leaves the encounter
// unchanged and yields a single EventRejected.
//
// Postcondition: the result is in ResolvingPlayerAction, Victory, Defeat or
// Fled, or is unchanged.
func (c *Controller) PlayerAction(enc Encounter, cmd Command) (Encounter, []combat.Event) {
	if enc.Phase != PhasePlayerTurn {
		return enc, rejected(fmt.Sprintf("cannot %s during %s", cmd.Kind, enc.Phase))
	}
	ability, err := c.validate(enc, cmd)
	if err != nil {
		c.logger.Debug("command rejected",
			zap.String("encounter", enc.ID.String()),
			zap.Stringer("command", cmd),
			zap.Error(err),
		)
		return enc, rejected(err.Error())
	}

	orig := enc
	enc = enc.clone()
	enc.Phase = PhaseResolvingPlayerAction
	p := enc.Player
	p.Defending = false
	var events []combat.Event
	var ticked []combat.Event
	p.Combatant, ticked = combat.TickEffects(p.Combatant, c.resolver.Effects())
	events = append(events, ticked...)
	if p.IsDown() {
		enc.Player = p
		return c.defeat(enc, events)
	}

	switch cmd.Kind {
	case CommandAttack:
		var out combat.Outcome
		enc.Enemies[cmd.Target].Combatant, out = c.resolver.BasicAttack(p.Combatant, enc.Enemies[cmd.Target].Combatant)
		events = append(events, out.Events...)
		if out.Defeated {
			enc.DefeatOrder = append(enc.DefeatOrder, cmd.Target)
		}

	case CommandUseAbility:
		p = p.Spend(ability)
		if ability.Cost > 0 {
			events = append(events, combat.Event{
				Kind:      combat.EventResourceSpent,
				Actor:     p.Name,
				Amount:    ability.Cost,
				Narrative: fmt.Sprintf("You spend %d %s.", ability.Cost, ability.Resource.Short()),
			})
		}
		var out combat.Outcome
		if ability.SelfTargeted() {
			p.Combatant, _, out = c.resolver.Ability(p.Combatant, combat.Combatant{}, ability.Strike())
		} else {
			target := &enc.Enemies[cmd.Target]
			p.Combatant, target.Combatant, out = c.resolver.Ability(p.Combatant, target.Combatant, ability.Strike())
			if out.Defeated {
				enc.DefeatOrder = append(enc.DefeatOrder, cmd.Target)
			}
		}
		events = append(events, out.Events...)

	case CommandDefend:
		p.Defending = true
		events = append(events, combat.Event{Kind: combat.EventDefend, Actor: p.Name, Narrative: "You brace for the next attack!"})

	case CommandFlee:
		if c.resolver.Flee() {
			enc.Player = p
			enc.Phase = PhaseFled
			enc.Enemies = nil
			enc.DefeatOrder = nil
			events = append(events, combat.Event{Kind: combat.EventFled, Actor: p.Name, Narrative: "You successfully escaped!"})
			c.logger.Info("encounter fled", zap.String("encounter", enc.ID.String()), zap.Int("turn", enc.Turn))
			return enc, events
		}
		events = append(events, combat.Event{Kind: combat.EventFleeFailed, Actor: p.Name, Narrative: "You failed to escape!"})

	case CommandUseItem:
		used, item, healed, err := p.UseItem(cmd.Item)
		if err != nil {
			return orig, rejected(err.Error())
		}
		p = used
		events = append(events, combat.Event{
			Kind:      combat.EventItemUsed,
			Actor:     p.Name,
			Amount:    healed,
			Narrative: fmt.Sprintf("You use a %s and recover %d HP.", item.Name, healed),
		})
	}

	enc.Player = p
	if enc.AllDefeated() {
		return c.victory(enc, events)
	}
	c.logger.Debug("player action resolved",
		zap.String("encounter", enc.ID.String()),
		zap.Stringer("command", cmd),
		zap.Stringer("phase", enc.Phase),
	)
	return enc, events
}

// validate checks cmd against enc without changing anything. For
// CommandUseAbility it returns the resolved ability.
func (c *Controller) validate(enc Encounter, cmd Command) (*ruleset.Ability, error) {
	switch cmd.Kind {
	case CommandAttack:
		if !enc.validTarget(cmd.Target) {
			return nil, fmt.Errorf("no living enemy at index %d", cmd.Target)
		}
	case CommandUseAbility:
		a, ok := c.catalog.Abilities.Get(cmd.AbilityID)
		if !ok {
			return nil, fmt.Errorf("unknown ability %q", cmd.AbilityID)
		}
		if err := enc.Player.CanCast(a); err != nil {
			return nil, err
		}
		if !a.SelfTargeted() && !enc.validTarget(cmd.Target) {
			return nil, fmt.Errorf("no living enemy at index %d", cmd.Target)
		}
		return a, nil
	case CommandUseItem:
		if _, _, _, err := enc.Player.UseItem(cmd.Item); err != nil {
			return nil, err
		}
	case CommandDefend, CommandFlee:
	default:
		return nil, fmt.Errorf("unknown command %q", cmd.Kind)
	}
	return nil, nil
}

// EnemyTurns runs every living enemy's turn in index order, then the victory
// check.
//
// Each enemy ticks its effects, may lose its action to Shock, drops its
// shield, then acts on the policy's choice. The policy sees the shield as it
// stood before it dropped, so an enemy never shields on consecutive turns.
// Remaining actions are skipped as soon as the player falls.
//
// When ctx ends during pacing the remaining enemies are skipped, the cycle
// still finalizes and ctx.Err() is returned with the finalized encounter.
//
// Postcondition: on a nil or context error the result is in PlayerTurn,
// Victory or Defeat.
func (c *Controller) EnemyTurns(ctx context.Context, enc Encounter) (Encounter, []combat.Event, error) {
	switch enc.Phase {
	case PhaseEnemyTurns:
		return enc, nil, ErrEnemyTurnsInProgress
	case PhaseResolvingPlayerAction:
	default:
		return enc, nil, ErrNoPendingEnemyTurns
	}
	enc = enc.clone()
	enc.Phase = PhaseEnemyTurns
	c.logger.Debug("enemy turns started", zap.String("encounter", enc.ID.String()), zap.Int("turn", enc.Turn))

	var events []combat.Event
	var interrupted error
	for i := range enc.Enemies {
		if enc.Enemies[i].IsDown() {
			continue
		}
		if err := c.pacer.wait(ctx, c.pacer.Step); err != nil {
			interrupted = err
			break
		}
		var evs []combat.Event
		enc, evs, interrupted = c.enemyTurn(ctx, enc, i)
		events = append(events, evs...)
		if enc.Player.IsDown() {
			enc, events = c.defeat(enc, events)
			return enc, events, nil
		}
		if interrupted != nil {
			break
		}
	}
	if interrupted != nil {
		c.logger.Debug("enemy turns interrupted", zap.String("encounter", enc.ID.String()), zap.Error(interrupted))
	}

	enc.Phase = PhaseVictoryCheck
	if enc.AllDefeated() {
		enc, events = c.victory(enc, events)
		return enc, events, interrupted
	}
	enc.Phase = PhasePlayerTurn
	enc.Turn++
	return enc, events, interrupted
}

func (c *Controller) enemyTurn(ctx context.Context, enc Encounter, i int) (Encounter, []combat.Event, error) {
	e := enc.Enemies[i]
	p := enc.Player.Combatant
	wasShielded := e.Shielded

	var events []combat.Event
	e.Combatant, events = combat.TickEffects(e.Combatant, c.resolver.Effects())
	if e.IsDown() {
		e.Shielded = false
		enc.Enemies[i] = e
		enc.DefeatOrder = append(enc.DefeatOrder, i)
		events = append(events, combat.Event{Kind: combat.EventDefeated, Target: e.Name, Narrative: fmt.Sprintf("%s is defeated!", e.Name)})
		return enc, events, nil
	}

	skip := c.resolver.SkipsTurn(e.Combatant)
	if e.Shielded {
		e.Shielded = false
		events = append(events, combat.Event{Kind: combat.EventShieldFaded, Actor: e.Name, Narrative: fmt.Sprintf("%s's shield fades.", e.Name)})
	}
	if skip {
		enc.Enemies[i] = e
		events = append(events, combat.Event{Kind: combat.EventSkipped, Actor: e.Name, Narrative: fmt.Sprintf("%s is Shocked and unable to move!", e.Name)})
		return enc, events, nil
	}

	view := e
	view.Shielded = wasShielded
	action := c.policy.ChooseAction(view, p)
	if action != ai.ActionAttack {
		events = append(events, combat.Event{Kind: combat.EventNotice, Actor: e.Name, Narrative: fmt.Sprintf("%s uses %s!", e.Name, action)})
	}

	var out combat.Outcome
	var err error
	switch action {
	case ai.ActionHeal:
		e.Combatant, out = c.resolver.Heal(e.Combatant)
		events = append(events, out.Events...)
	case ai.ActionShield:
		e.Combatant, out = c.resolver.Shield(e.Combatant)
		events = append(events, out.Events...)
	case ai.ActionDrainLife:
		e.Combatant, p, out = c.resolver.Drain(e.Combatant, p)
		events = append(events, out.Events...)
	case ai.ActionMultiAttack:
		for hit := 0; hit < c.resolver.Rules().MultiAttackHits && !p.IsDown(); hit++ {
			if err = c.pacer.wait(ctx, c.pacer.SubHit); err != nil {
				break
			}
			p, out = c.resolver.SubHit(e.Combatant, p)
			events = append(events, out.Events...)
		}
	default:
		p, out = c.resolver.BasicAttack(e.Combatant, p)
		events = append(events, out.Events...)
	}

	enc.Enemies[i] = e
	enc.Player.Combatant = p
	return enc, events, err
}

func (c *Controller) victory(enc Encounter, events []combat.Event) (Encounter, []combat.Event) {
	class, _ := c.catalog.Class(enc.Player.Class)
	var report character.VictoryReport
	enc.Player, report = character.ResolveVictory(enc.Player, enc.Defeated(), class)
	enc.Phase = PhaseVictory
	enc.Report = &report
	events = append(events, report.Events...)
	c.logger.Info("encounter won",
		zap.String("encounter", enc.ID.String()),
		zap.Int("turn", enc.Turn),
		zap.Int("xp", report.XP),
		zap.Bool("leveled_up", report.LeveledUp),
	)
	return enc, events
}

func (c *Controller) defeat(enc Encounter, events []combat.Event) (Encounter, []combat.Event) {
	enc.Phase = PhaseDefeat
	events = append(events, combat.Event{Kind: combat.EventDefeat, Target: enc.Player.Name, Narrative: "You have been defeated..."})
	c.logger.Info("encounter lost", zap.String("encounter", enc.ID.String()), zap.Int("turn", enc.Turn))
	return enc, events
}

func rejected(reason string) []combat.Event {
	return []combat.Event{{Kind: combat.EventRejected, Narrative: reason}}
}
