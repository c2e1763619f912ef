package ai

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

// ScriptNamespace is the scripting namespace policy predicates are looked up in.
const ScriptNamespace = "ai"

// ScriptCaller is the subset of scripting.Manager used by the policy.
//
// Implementations return (lua.LNil, nil) when the function is not defined.
type ScriptCaller interface {
	CallHook(namespace, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Policy chooses enemy actions from a Registry of personalities.
//
// A Policy holds no per-encounter state; the only side effect of ChooseAction
// is drawing from the Source.
type Policy struct {
	registry  *Registry
	src       dice.Source
	caller    ScriptCaller
	lowHealth float64
	logger    *zap.Logger
}

// Option configures a Policy.
type Option func(*Policy)

// WithScripts enables script: predicates, evaluated through caller.
func WithScripts(caller ScriptCaller) Option {
	return func(p *Policy) { p.caller = caller }
}

// WithLowHealth overrides DefaultLowHealth.
func WithLowHealth(ratio float64) Option {
	return func(p *Policy) {
		if ratio > 0 && ratio <= 1 {
			p.lowHealth = ratio
		}
	}
}

// WithLogger attaches a logger for rule tracing at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Policy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPolicy creates a Policy.
//
// Precondition: registry and src must be non-nil.
func NewPolicy(registry *Registry, src dice.Source, opts ...Option) *Policy {
	p := &Policy{
		registry:  registry,
		src:       src,
		lowHealth: DefaultLowHealth,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ChooseAction returns the action enemy takes against player this turn.
//
// Rules of the enemy's personality are evaluated in order and the first that
// fires wins. An enemy with no ability, or with no registered personality,
// always attacks and makes no random draw.
//
// Postcondition: the returned action is ActionAttack or an action enemy can take.
func (p *Policy) ChooseAction(enemy npc.Enemy, player combat.Combatant) Action {
	if enemy.Ability == npc.AbilityNone {
		return ActionAttack
	}
	pers, ok := p.registry.Get(enemy.Personality)
	if !ok {
		return ActionAttack
	}
	s := NewSituation(enemy, player, p.lowHealth)
	for i, r := range pers.Rules {
		act := r.Action
		if act == ActionSignature {
			act = Action(s.Ability)
		}
		if !s.Available(act) {
			continue
		}
		if r.HPBelow > 0 && s.HPRatio >= r.HPBelow {
			continue
		}
		if !p.holds(r.When, s) {
			continue
		}
		if r.Chance > 0 && r.Chance < 1 && !dice.Chance(p.src, r.Chance) {
			continue
		}
		p.logger.Debug("enemy rule fired",
			zap.String("enemy", s.Enemy),
			zap.String("personality", string(pers.ID)),
			zap.Int("rule", i),
			zap.String("action", string(act)),
		)
		return act
	}
	return ActionAttack
}

func (p *Policy) holds(when []string, s Situation) bool {
	for _, w := range when {
		if fn, ok := strings.CutPrefix(w, scriptPrefix); ok {
			if !p.script(fn, s) {
				return false
			}
			continue
		}
		pred, ok := predicates[w]
		if !ok || !pred(s) {
			return false
		}
	}
	return true
}

// script evaluates a Lua predicate. Only a returned Lua true passes; a missing
// caller, missing function, or runtime error fails the predicate.
func (p *Policy) script(fn string, s Situation) bool {
	if p.caller == nil {
		return false
	}
	ret, err := p.caller.CallHook(ScriptNamespace, fn,
		lua.LString(s.Enemy),
		lua.LNumber(s.HPRatio),
		lua.LNumber(s.PlayerHPRatio),
		lua.LBool(s.PlayerDefending),
	)
	if err != nil {
		p.logger.Warn("enemy script predicate failed", zap.String("fn", fn), zap.Error(err))
		return false
	}
	return ret == lua.LTrue
}
