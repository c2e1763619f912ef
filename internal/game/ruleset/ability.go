package ruleset

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/condition"
	"github.com/cory-johannsen/emberfall/internal/game/element"
)

// Ability is a player-castable ability loaded from YAML.
//
// A zero Multiplier marks a pure self-effect that needs no target.
type Ability struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Resource     ResourceKind    `yaml:"resource"`
	Cost         int             `yaml:"cost"`
	Multiplier   float64         `yaml:"multiplier"`
	Element      element.Element `yaml:"element"`
	Status       string          `yaml:"status"`
	StatusChance float64         `yaml:"status_chance"`
	SelfEffect   string          `yaml:"self_effect"`
}

// Validate checks field ranges and that named effects exist.
func (a *Ability) Validate() error {
	if a.ID == "" || a.Name == "" {
		return fmt.Errorf("ability: id and name must be non-empty")
	}
	if _, err := ParseResourceKind(string(a.Resource)); err != nil {
		return fmt.Errorf("ability %q: %w", a.ID, err)
	}
	if a.Cost < 0 {
		return fmt.Errorf("ability %q: cost must be >= 0", a.ID)
	}
	if a.Cost > 0 && a.Resource == ResourceNone {
		return fmt.Errorf("ability %q: cost requires a resource", a.ID)
	}
	if a.Multiplier < 0 {
		return fmt.Errorf("ability %q: multiplier must be >= 0", a.ID)
	}
	if a.StatusChance < 0 || a.StatusChance > 1 {
		return fmt.Errorf("ability %q: status_chance must be in [0,1]", a.ID)
	}
	if a.Status != "" {
		if _, err := condition.ParseType(a.Status); err != nil {
			return fmt.Errorf("ability %q: %w", a.ID, err)
		}
	} else if a.StatusChance > 0 {
		return fmt.Errorf("ability %q: status_chance set without status", a.ID)
	}
	if a.SelfEffect != "" {
		if _, err := condition.ParseType(a.SelfEffect); err != nil {
			return fmt.Errorf("ability %q: %w", a.ID, err)
		}
	}
	if a.Multiplier == 0 && a.SelfEffect == "" {
		return fmt.Errorf("ability %q: zero multiplier requires a self_effect", a.ID)
	}
	return nil
}

// SelfTargeted reports whether the ability resolves without a target.
func (a *Ability) SelfTargeted() bool { return a.Multiplier == 0 }

// Strike converts a into the resolver's view of it.
//
// Precondition: a.Validate() returned nil.
func (a *Ability) Strike() combat.Strike {
	s := combat.Strike{
		Name:       a.Name,
		Element:    a.Element,
		Multiplier: a.Multiplier,
	}
	if a.Status != "" {
		s.Status, _ = condition.ParseType(a.Status)
		s.StatusChance = a.StatusChance
	}
	if a.SelfEffect != "" {
		t, _ := condition.ParseType(a.SelfEffect)
		s.SelfEffect = &t
	}
	return s
}

// AbilityRegistry provides lookup of abilities by ID.
type AbilityRegistry struct {
	abilities map[string]*Ability
}

// NewAbilityRegistry returns an empty AbilityRegistry.
func NewAbilityRegistry() *AbilityRegistry {
	return &AbilityRegistry{abilities: make(map[string]*Ability)}
}

// Register adds a to the registry; the last registration for an ID wins.
//
// Precondition: a must be non-nil with a non-empty ID.
func (r *AbilityRegistry) Register(a *Ability) {
	if a == nil || a.ID == "" {
		panic("AbilityRegistry.Register: precondition violated: ability must be non-nil with an ID")
	}
	r.abilities[a.ID] = a
}

// Get returns the ability with id.
func (r *AbilityRegistry) Get(id string) (*Ability, bool) {
	a, ok := r.abilities[id]
	return a, ok
}

// All returns every ability sorted by ID.
func (r *AbilityRegistry) All() []*Ability {
	out := make([]*Ability, 0, len(r.abilities))
	for _, a := range r.abilities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultAbilities returns the stock ability catalog.
func DefaultAbilities() *AbilityRegistry {
	r := NewAbilityRegistry()
	for _, a := range []*Ability{
		{ID: "earthen_strike", Name: "Earthen Strike", Description: "A heavy blow that roots the foe and hardens your skin.",
			Resource: ResourceStamina, Cost: 8, Multiplier: 1.3, Element: element.Earth, Status: "grounded", StatusChance: 0.2, SelfEffect: "earth_armor"},
		{ID: "stoneskin", Name: "Stoneskin", Description: "Draw the earth around you like armor.",
			Resource: ResourceStamina, Cost: 6, SelfEffect: "earth_armor"},
		{ID: "fireball", Name: "Fireball", Description: "Hurl a ball of flame.",
			Resource: ResourceMana, Cost: 10, Multiplier: 1.5, Element: element.Fire, Status: "burn", StatusChance: 0.1},
		{ID: "ice_shard", Name: "Ice Shard", Description: "A lance of frost that slows the target.",
			Resource: ResourceMana, Cost: 8, Multiplier: 1.2, Element: element.Ice, Status: "chill", StatusChance: 0.2},
		{ID: "lightning_strike", Name: "Lightning Strike", Description: "A quick jolt that may stun.",
			Resource: ResourceEnergy, Cost: 5, Multiplier: 1.1, Element: element.Lightning, Status: "shock", StatusChance: 0.2},
	} {
		r.Register(a)
	}
	return r
}

// LoadAbilities reads every YAML file in dir as an Ability.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns the validated abilities sorted by file name, or a non-nil error.
func LoadAbilities(dir string) ([]*Ability, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]*Ability, 0, len(files))
	for _, path := range files {
		var a Ability
		if err := decodeStrict(path, &a); err != nil {
			return nil, err
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
		out = append(out, &a)
	}
	return out, nil
}
