// Package ruleset holds the static player-facing rules: resources, abilities and classes.
package ruleset

import (
	"fmt"
	"strings"
)

// ResourceKind names the secondary resource a class spends on abilities.
type ResourceKind string

const (
	ResourceNone    ResourceKind = ""
	ResourceMana    ResourceKind = "mana"
	ResourceEnergy  ResourceKind = "energy"
	ResourceStamina ResourceKind = "stamina"
)

// Short returns the two-letter label shown next to costs (MP, EP, SP).
func (k ResourceKind) Short() string {
	switch k {
	case ResourceMana:
		return "MP"
	case ResourceEnergy:
		return "EP"
	case ResourceStamina:
		return "SP"
	}
	return ""
}

// ParseResourceKind converts a case-insensitive name into a ResourceKind.
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ResourceNone, ResourceMana, ResourceEnergy, ResourceStamina:
		return k, nil
	}
	return ResourceNone, fmt.Errorf("unknown resource %q", s)
}
