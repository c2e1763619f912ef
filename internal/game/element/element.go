// Package element defines the elemental affinities and their resistance cycle.
package element

import (
	"fmt"
	"strings"
)

// Element is an affinity carried by enemies and player abilities.
type Element int

const (
	None Element = iota
	Fire
	Ice
	Lightning
	Earth
)

var names = map[Element]string{
	None:      "none",
	Fire:      "fire",
	Ice:       "ice",
	Lightning: "lightning",
	Earth:     "earth",
}

// resists maps a defending element to the attack element it halves.
// Earth resists Lightning, Lightning resists Ice, Ice resists Fire, Fire resists Earth.
var resists = map[Element]Element{
	Earth:     Lightning,
	Lightning: Ice,
	Ice:       Fire,
	Fire:      Earth,
}

// String returns the lower-case element name.
func (e Element) String() string {
	if n, ok := names[e]; ok {
		return n
	}
	return fmt.Sprintf("element(%d)", int(e))
}

// Resists returns the attack element that e halves, or None.
func (e Element) Resists() Element {
	return resists[e]
}

// Resisted reports whether an attack of element attack is halved by a defender of element defender.
//
// Postcondition: returns false whenever attack or defender is None.
func Resisted(defender, attack Element) bool {
	if attack == None || defender == None {
		return false
	}
	return resists[defender] == attack
}

// Parse converts a case-insensitive element name into an Element.
// The empty string parses as None.
func Parse(s string) (Element, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for e, n := range names {
		if n == s {
			return e, nil
		}
	}
	return None, fmt.Errorf("unknown element %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
