package ai

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

// Registry indexes personalities by ID.
//
// Invariant: each personality ID maps to exactly one rule list.
type Registry struct {
	personalities map[npc.Personality]*Personality
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{personalities: make(map[npc.Personality]*Personality)}
}

// DefaultRegistry returns a Registry holding DefaultPersonalities.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range DefaultPersonalities() {
		r.Register(p)
	}
	return r
}

// Register stores p, replacing any personality with the same ID.
//
// Precondition: p must be non-nil and valid.
func (r *Registry) Register(p *Personality) {
	r.personalities[p.ID] = p
}

// Get returns the personality for id, or false if none is registered.
func (r *Registry) Get(id npc.Personality) (*Personality, bool) {
	p, ok := r.personalities[id]
	return p, ok
}

// All returns every registered personality sorted by ID.
func (r *Registry) All() []*Personality {
	out := make([]*Personality, 0, len(r.personalities))
	for _, p := range r.personalities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadRegistry layers every personality YAML file in dir over DefaultRegistry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a registry with defaults for any personality dir does not define.
func LoadRegistry(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading personality dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n := e.Name(); strings.HasSuffix(n, ".yaml") || strings.HasSuffix(n, ".yml") {
			paths = append(paths, filepath.Join(dir, n))
		}
	}
	sort.Strings(paths)

	reg := DefaultRegistry()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		p, err := LoadPersonalityFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(p)
	}
	return reg, nil
}
