package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/element"
)

// Template is a bestiary entry loaded from YAML. Health and attack scale
// linearly with the player's level above 1.
type Template struct {
	ID             string          `yaml:"id"`
	Name           string          `yaml:"name"`
	Description    string          `yaml:"description"`
	BaseHP         int             `yaml:"base_hp"`
	HPPerLevel     float64         `yaml:"hp_per_level"`
	BaseAttack     int             `yaml:"base_attack"`
	AttackPerLevel float64         `yaml:"attack_per_level"`
	Ability        Ability         `yaml:"ability"`
	Personality    Personality     `yaml:"personality"`
	Element        element.Element `yaml:"element"`
	MinLevel       int             `yaml:"min_level"`
	Loot           *LootDrop       `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, BaseHP >= 1,
// BaseAttack >= 0, growth is non-negative, MinLevel >= 1 and the ability,
// personality and loot are valid; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.BaseHP < 1 {
		return fmt.Errorf("npc template %q: base_hp must be >= 1", t.ID)
	}
	if t.BaseAttack < 0 || t.HPPerLevel < 0 || t.AttackPerLevel < 0 {
		return fmt.Errorf("npc template %q: attack and growth must be >= 0", t.ID)
	}
	if t.MinLevel < 1 {
		return fmt.Errorf("npc template %q: min_level must be >= 1", t.ID)
	}
	if _, err := ParseAbility(string(t.Ability)); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	if _, err := ParsePersonality(string(t.Personality)); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// Scaled returns the template's health and attack at the given player level.
//
// Postcondition: hp >= BaseHP; attack >= BaseAttack.
func (t *Template) Scaled(level int) (hp, attack int) {
	steps := float64(max(0, level-1))
	return t.BaseHP + dice.Floor(t.HPPerLevel*steps), t.BaseAttack + dice.Floor(t.AttackPerLevel*steps)
}

// Spawn creates a fresh Enemy from the template scaled to level. At most one
// draw is made, for the loot roll.
//
// Precondition: t must have passed Validate().
func (t *Template) Spawn(level int, src dice.Source) Enemy {
	hp, attack := t.Scaled(level)
	e := New(t.Name, t.Description, hp, attack)
	e.Element = t.Element
	e.Ability = t.Ability
	e.Personality = t.Personality
	if t.Loot != nil {
		e.Loot = t.Loot.Roll(src)
	}
	return e
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates
// ordered by MinLevel then ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bestiary dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	sortTemplates(templates)
	return templates, nil
}

// Eligible returns the templates whose MinLevel is at most level.
func Eligible(templates []*Template, level int) []*Template {
	var out []*Template
	for _, t := range templates {
		if t.MinLevel <= level {
			out = append(out, t)
		}
	}
	return out
}

func sortTemplates(ts []*Template) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].MinLevel != ts[j].MinLevel {
			return ts[i].MinLevel < ts[j].MinLevel
		}
		return ts[i].ID < ts[j].ID
	})
}
