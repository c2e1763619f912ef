package condition

// Effect is one timed status effect carried by a combatant.
//
// SourceAttack is the attack stat of whoever applied the effect; only Burn reads it.
type Effect struct {
	Type         Type `json:"type"`
	Duration     int  `json:"duration"`
	SourceAttack int  `json:"source_attack,omitempty"`
}

// Set is the ordered collection of effects on one combatant.
//
// Invariant: at most one Effect per Type; every Duration is >= 1.
// Set values are never mutated in place; every operation returns a new Set.
type Set []Effect

// TickResult reports what happened to one effect during Tick.
type TickResult struct {
	Effect  Effect
	Damage  int
	Expired bool
}

// Apply adds e to the set. If an effect of the same type is already present its
// duration and source are overwritten in place and refreshed is true.
//
// Precondition: e.Duration >= 1.
// Postcondition: result.Has(e.Type); len(result) == len(s) when refreshed,
// len(s)+1 otherwise.
func (s Set) Apply(e Effect) (result Set, refreshed bool) {
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].Type == e.Type {
			out[i].Duration = e.Duration
			out[i].SourceAttack = e.SourceAttack
			return out, true
		}
	}
	return append(out, e), false
}

// Tick advances every effect by one turn. Burn reports damage equal to
// floor(SourceAttack * magnitude); all durations decrease by one and effects
// reaching zero are dropped.
//
// Precondition: reg must be non-nil.
// Postcondition: every effect in the result has Duration >= 1; the relative
// order of surviving effects is preserved.
func (s Set) Tick(reg *Registry) (Set, []TickResult) {
	if len(s) == 0 {
		return nil, nil
	}
	out := make(Set, 0, len(s))
	results := make([]TickResult, 0, len(s))
	for _, e := range s {
		tr := TickResult{Effect: e}
		if e.Type == Burn {
			tr.Damage = int(float64(e.SourceAttack) * Magnitude(reg, Burn))
		}
		e.Duration--
		if e.Duration <= 0 {
			tr.Expired = true
		} else {
			out = append(out, e)
		}
		tr.Effect.Duration = e.Duration
		results = append(results, tr)
	}
	return out, results
}

// Has reports whether an effect of type t is present.
func (s Set) Has(t Type) bool {
	_, ok := s.Get(t)
	return ok
}

// Get returns the effect of type t, if present.
func (s Set) Get(t Type) (Effect, bool) {
	for _, e := range s {
		if e.Type == t {
			return e, true
		}
	}
	return Effect{}, false
}

// Remove returns s without any effect of type t.
func (s Set) Remove(t Type) Set {
	out := make(Set, 0, len(s))
	for _, e := range s {
		if e.Type != t {
			out = append(out, e)
		}
	}
	return out
}
