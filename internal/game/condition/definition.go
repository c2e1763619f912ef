package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type identifies one of the timed status effects.
type Type int

const (
	Burn Type = iota
	Chill
	Shock
	Grounded
	EarthArmor
)

var typeIDs = map[Type]string{
	Burn:       "burn",
	Chill:      "chill",
	Shock:      "shock",
	Grounded:   "grounded",
	EarthArmor: "earth_armor",
}

// String returns the snake_case identifier of t.
func (t Type) String() string {
	if id, ok := typeIDs[t]; ok {
		return id
	}
	return fmt.Sprintf("condition(%d)", int(t))
}

// ParseType converts an identifier such as "earth_armor" into a Type.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, id := range typeIDs {
		if id == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown condition %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Def is the static definition of a status effect, loaded from YAML.
//
// Magnitude is interpreted per type: the share of the source's attack dealt
// per tick (burn), the outgoing damage reduction (chill), the chance to lose
// a turn (shock), the extra damage taken (grounded) and the damage reduction
// (earth_armor).
type Def struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Duration    int     `yaml:"duration"`
	Magnitude   float64 `yaml:"magnitude"`
}

// Type returns the parsed Type of d.
//
// Precondition: d.Validate() returned nil.
func (d *Def) Type() Type {
	t, _ := ParseType(d.ID)
	return t
}

// Validate checks that d names a known effect and carries a usable duration.
func (d *Def) Validate() error {
	if _, err := ParseType(d.ID); err != nil {
		return err
	}
	if d.Duration < 1 {
		return fmt.Errorf("condition %q: duration must be >= 1, got %d", d.ID, d.Duration)
	}
	if d.Magnitude < 0 {
		return fmt.Errorf("condition %q: magnitude must be >= 0", d.ID)
	}
	return nil
}

// Registry holds the Def of every effect type.
type Registry struct {
	defs map[Type]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Type]*Def)}
}

// DefaultRegistry returns a Registry holding the stock effect definitions.
//
// Postcondition: every Type has a Def.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, d := range []*Def{
		{ID: "burn", Name: "Burn", Description: "Flames sear the target at the start of each turn.", Duration: 3, Magnitude: 0.5},
		{ID: "chill", Name: "Chill", Description: "Frost slows the target's blows.", Duration: 3, Magnitude: 0.2},
		{ID: "shock", Name: "Shock", Description: "Crackling energy may leave the target unable to act.", Duration: 3, Magnitude: 0.1},
		{ID: "grounded", Name: "Grounded", Description: "The target is rooted and takes heavier hits.", Duration: 3, Magnitude: 0.2},
		{ID: "earth_armor", Name: "Earth Armor", Description: "A shell of stone dampens incoming damage.", Duration: 2, Magnitude: 0.3},
	} {
		reg.Register(d)
	}
	return reg
}

// Register adds def to the registry, overwriting any existing entry for the same type.
//
// Precondition: def must not be nil and def.Validate() must return nil.
func (r *Registry) Register(def *Def) {
	r.defs[def.Type()] = def
}

// Get returns the Def for t, or (nil, false) if not found.
func (r *Registry) Get(t Type) (*Def, bool) {
	d, ok := r.defs[t]
	return d, ok
}

// Duration returns the fresh duration for t, or 0 when t is unregistered.
func (r *Registry) Duration(t Type) int {
	if d, ok := r.defs[t]; ok {
		return d.Duration
	}
	return 0
}

// All returns every registered Def ordered by Type.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })
	return out
}

// LoadDirectory reads every *.yaml file in dir and layers the parsed Defs over
// DefaultRegistry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Registry with a Def for every Type, or an error if
// any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
