package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// Chances used by the Local provider.
const (
	LocalFindChance   = 0.25
	LocalCombatChance = 0.3
	LocalSocialChance = 0.15
)

// Local builds content from the bestiary, the map and a fixed set of social
// encounters. It never calls out of process.
type Local struct {
	bestiary []*npc.Template
	socials  []world.SocialEncounter
	find     inventory.Item
	src      dice.Source
	logger   *zap.Logger
}

// NewLocal creates a Local provider.
//
// Precondition: src and logger must be non-nil.
func NewLocal(bestiary []*npc.Template, socials []world.SocialEncounter, src dice.Source, logger *zap.Logger) *Local {
	return &Local{
		bestiary: bestiary,
		socials:  socials,
		find:     inventory.HealthPotion(),
		src:      src,
		logger:   logger,
	}
}

// Scene describes at with one explore, one encounter and one rest action.
// One draw decides whether an item lies in plain sight.
func (l *Local) Scene(_ context.Context, _ character.Player, at world.Location) (Scene, error) {
	s := Scene{
		Description: strings.TrimSpace(fmt.Sprintf("You stand in %s. %s", at.Name, at.Description)),
		Actions: []world.Action{
			{Label: "Search " + at.Name, Kind: world.ActionExplore},
			{Label: "Hunt for monsters", Kind: world.ActionEncounter},
			{Label: "Set up camp", Kind: world.ActionRest},
		},
	}
	if dice.Chance(l.src, LocalFindChance) {
		item := l.find
		s.FoundItem = &item
	}
	return s, nil
}

// Explore resolves a. Encounter actions always trigger combat and social
// actions always trigger a social encounter; exploring draws for an item, a
// fight and a meeting in that order.
func (l *Local) Explore(_ context.Context, _ character.Player, at world.Location, a world.Action) (ExploreResult, error) {
	switch a.Kind {
	case world.ActionEncounter:
		return ExploreResult{Outcome: "You go looking for trouble, and trouble finds you.", TriggerCombat: true}, nil
	case world.ActionSocial:
		return ExploreResult{Outcome: "You approach a stranger on the road.", TriggerSocial: true}, nil
	case world.ActionRest:
		return ExploreResult{Outcome: "You rest a while as the embers of your fire die down."}, nil
	case world.ActionExplore:
	default:
		return ExploreResult{}, fmt.Errorf("explore: %w: action kind %q", ErrUnsupported, a.Kind)
	}

	r := ExploreResult{Outcome: fmt.Sprintf("You search %s.", at.Name)}
	if dice.Chance(l.src, LocalFindChance) {
		item := l.find
		r.FoundItem = &item
	}
	switch {
	case dice.Chance(l.src, LocalCombatChance):
		r.TriggerCombat = true
	case dice.Chance(l.src, LocalSocialChance):
		r.TriggerSocial = true
	}
	return r, nil
}

// Encounter spawns a random number of enemies within b from the templates
// eligible at p's level, each clamped to b.
func (l *Local) Encounter(_ context.Context, p character.Player, b Bounds) (EncounterPayload, error) {
	eligible := npc.Eligible(l.bestiary, p.Level)
	if len(eligible) == 0 {
		return EncounterPayload{}, fmt.Errorf("encounter: %w: no bestiary entry for level %d", ErrUnsupported, p.Level)
	}
	n := b.Count(l.src)
	enemies := make([]npc.Enemy, 0, n)
	for range n {
		t := eligible[l.src.Intn(len(eligible))]
		e := t.Spawn(p.Level, l.src)
		e.MaxHP = b.ClampHP(e.MaxHP)
		e.HP = e.MaxHP
		e.Attack = b.ClampAttack(e.Attack)
		enemies = append(enemies, e)
	}
	l.logger.Debug("local encounter rolled", zap.Int("level", p.Level), zap.Int("enemies", n))
	return EncounterPayload{Enemies: enemies}, nil
}

// Social picks one of the configured social encounters.
func (l *Local) Social(_ context.Context, _ character.Player) (Social, error) {
	if len(l.socials) == 0 {
		return Social{}, fmt.Errorf("social: %w: none configured", ErrUnsupported)
	}
	return Social{Encounter: l.socials[l.src.Intn(len(l.socials))]}, nil
}

// socialFile is the top-level YAML wrapper for a social encounter file.
type socialFile struct {
	Social world.SocialEncounter `yaml:"social"`
}

// LoadSocials reads every .yaml file in dir as one social encounter, in file
// name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns validated encounters or the first error.
func LoadSocials(dir string) ([]world.SocialEncounter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading social dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && (strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]world.SocialEncounter, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f socialFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := f.Social.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, f.Social)
	}
	return out, nil
}
