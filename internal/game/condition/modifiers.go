package condition

// Magnitude returns the registered magnitude for t, or 0 when t is unregistered.
func Magnitude(reg *Registry, t Type) float64 {
	if d, ok := reg.Get(t); ok {
		return d.Magnitude
	}
	return 0
}

// ActiveMagnitude returns the magnitude of t when s carries it, else 0.
//
// Postcondition: Returns >= 0.
func ActiveMagnitude(s Set, reg *Registry, t Type) float64 {
	if !s.Has(t) {
		return 0
	}
	return Magnitude(reg, t)
}

// SkipChance returns the probability that a combatant carrying s loses its turn.
func SkipChance(s Set, reg *Registry) float64 {
	return ActiveMagnitude(s, reg, Shock)
}
