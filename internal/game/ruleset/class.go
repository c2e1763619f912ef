package ruleset

import (
	"fmt"
	"sort"
)

// RegenStat selects what a class recovers after a victory.
type RegenStat string

const (
	RegenHealth   RegenStat = "health"
	RegenResource RegenStat = "resource"
)

// Regen is a class's flat post-victory recovery: floor(max * Ratio) of Stat.
type Regen struct {
	Stat  RegenStat `yaml:"stat"`
	Ratio float64   `yaml:"ratio"`
}

// Growth is what a class gains per level.
type Growth struct {
	HP       int  `yaml:"hp"`
	Attack   int  `yaml:"attack"`
	Resource int  `yaml:"resource"`
	Refill   bool `yaml:"refill"`
}

// Class defines a playable archetype.
//
// Precondition: ID and Name must be non-empty after loading.
type Class struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	BaseHP      int          `yaml:"base_hp"`
	BaseAttack  int          `yaml:"base_attack"`
	Resource    ResourceKind `yaml:"resource"`
	ResourceMax int          `yaml:"resource_max"`
	Growth      Growth       `yaml:"growth"`
	Regen       Regen        `yaml:"regen"`
	Abilities   []string     `yaml:"abilities"`
}

// Validate checks field ranges. Ability references are checked by Catalog.
func (c *Class) Validate() error {
	if c.ID == "" || c.Name == "" {
		return fmt.Errorf("class: id and name must be non-empty")
	}
	if c.BaseHP < 1 || c.BaseAttack < 0 {
		return fmt.Errorf("class %q: base_hp must be >= 1 and base_attack >= 0", c.ID)
	}
	if _, err := ParseResourceKind(string(c.Resource)); err != nil {
		return fmt.Errorf("class %q: %w", c.ID, err)
	}
	if c.ResourceMax < 0 || c.Growth.HP < 0 || c.Growth.Attack < 0 || c.Growth.Resource < 0 {
		return fmt.Errorf("class %q: maxima and growth must be >= 0", c.ID)
	}
	switch c.Regen.Stat {
	case RegenHealth, RegenResource:
	default:
		return fmt.Errorf("class %q: unknown regen stat %q", c.ID, c.Regen.Stat)
	}
	if c.Regen.Ratio < 0 || c.Regen.Ratio > 1 {
		return fmt.Errorf("class %q: regen ratio must be in [0,1]", c.ID)
	}
	return nil
}

// DefaultClasses returns the three stock classes.
func DefaultClasses() []*Class {
	return []*Class{
		{
			ID: "warrior", Name: "Warrior", Description: "A stalwart fighter who shrugs off punishment.",
			BaseHP: 70, BaseAttack: 10, Resource: ResourceStamina, ResourceMax: 20,
			Growth:    Growth{HP: 20, Attack: 5},
			Regen:     Regen{Stat: RegenHealth, Ratio: 0.1},
			Abilities: []string{"earthen_strike", "stoneskin"},
		},
		{
			ID: "mage", Name: "Mage", Description: "A scholar of the elements with a fragile frame.",
			BaseHP: 45, BaseAttack: 6, Resource: ResourceMana, ResourceMax: 30,
			Growth:    Growth{HP: 20, Attack: 5, Resource: 10, Refill: true},
			Regen:     Regen{Stat: RegenResource, Ratio: 0.2},
			Abilities: []string{"fireball", "ice_shard"},
		},
		{
			ID: "rogue", Name: "Rogue", Description: "A quick blade who strikes like lightning.",
			BaseHP: 55, BaseAttack: 9, Resource: ResourceEnergy, ResourceMax: 20,
			Growth:    Growth{HP: 20, Attack: 5, Resource: 5, Refill: true},
			Regen:     Regen{Stat: RegenResource, Ratio: 0.25},
			Abilities: []string{"lightning_strike"},
		},
	}
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		var c Class
		if err := decodeStrict(path, &c); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}

// Catalog is the combined class and ability rule set.
type Catalog struct {
	Abilities *AbilityRegistry
	classes   map[string]*Class
}

// NewCatalog builds a Catalog and verifies every class references known abilities
// whose resource matches the class resource.
//
// Precondition: abilities must be non-nil.
// Postcondition: Returns a Catalog or the first reference error.
func NewCatalog(abilities *AbilityRegistry, classes []*Class) (*Catalog, error) {
	c := &Catalog{Abilities: abilities, classes: make(map[string]*Class, len(classes))}
	for _, cl := range classes {
		for _, id := range cl.Abilities {
			a, ok := abilities.Get(id)
			if !ok {
				return nil, fmt.Errorf("class %q: unknown ability %q", cl.ID, id)
			}
			if a.Resource != ResourceNone && a.Resource != cl.Resource {
				return nil, fmt.Errorf("class %q: ability %q costs %s but class uses %s", cl.ID, id, a.Resource, cl.Resource)
			}
		}
		c.classes[cl.ID] = cl
	}
	return c, nil
}

// DefaultCatalog returns the stock abilities and classes.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultAbilities(), DefaultClasses())
	if err != nil {
		panic("ruleset: default catalog is inconsistent: " + err.Error())
	}
	return c
}

// LoadCatalog loads abilities from abilityDir and classes from classDir.
//
// Postcondition: Returns a consistent Catalog or a non-nil error.
func LoadCatalog(abilityDir, classDir string) (*Catalog, error) {
	abilities, err := LoadAbilities(abilityDir)
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}
	reg := NewAbilityRegistry()
	for _, a := range abilities {
		reg.Register(a)
	}
	classes, err := LoadClasses(classDir)
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	return NewCatalog(reg, classes)
}

// Class returns the class with id.
func (c *Catalog) Class(id string) (*Class, bool) {
	cl, ok := c.classes[id]
	return cl, ok
}

// Classes returns every class sorted by ID.
func (c *Catalog) Classes() []*Class {
	out := make([]*Class, 0, len(c.classes))
	for _, cl := range c.classes {
		out = append(out, cl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
