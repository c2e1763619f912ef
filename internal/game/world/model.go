// Package world provides the exploration map: locations, the paths between
// them, and the actions offered at each location.
package world

import "fmt"

// Location is one place on the map. X and Y are percentages of the map's
// width and height.
type Location struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	X           int    `json:"x" yaml:"x"`
	Y           int    `json:"y" yaml:"y"`
	Explored    bool   `json:"explored" yaml:"explored,omitempty"`
}

// Connection is an undirected path between two locations.
type Connection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Other returns the endpoint of c that is not id, or false if c does not touch id.
func (c Connection) Other(id string) (string, bool) {
	switch id {
	case c.From:
		return c.To, true
	case c.To:
		return c.From, true
	}
	return "", false
}

// Map is the explorable world.
//
// Map values are never mutated in place; Move returns a new Map.
type Map struct {
	Name            string       `json:"name,omitempty" yaml:"name,omitempty"`
	Locations       []Location   `json:"locations" yaml:"locations"`
	Connections     []Connection `json:"connections" yaml:"connections"`
	StartLocationID string       `json:"start_location_id" yaml:"start_location_id"`
}

// Validate checks map invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (m Map) Validate() error {
	if len(m.Locations) == 0 {
		return fmt.Errorf("map must contain at least one location")
	}
	seen := make(map[string]bool, len(m.Locations))
	for _, l := range m.Locations {
		if l.ID == "" {
			return fmt.Errorf("location ID must not be empty")
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate location %q", l.ID)
		}
		if l.Name == "" {
			return fmt.Errorf("location %q: name must not be empty", l.ID)
		}
		if l.X < 0 || l.X > 100 || l.Y < 0 || l.Y > 100 {
			return fmt.Errorf("location %q: coordinates must be within 0-100", l.ID)
		}
		seen[l.ID] = true
	}
	if !seen[m.StartLocationID] {
		return fmt.Errorf("start_location_id %q not found in locations", m.StartLocationID)
	}
	for _, c := range m.Connections {
		if !seen[c.From] || !seen[c.To] {
			return fmt.Errorf("connection %s-%s references an unknown location", c.From, c.To)
		}
		if c.From == c.To {
			return fmt.Errorf("connection %s-%s loops to itself", c.From, c.To)
		}
	}
	return nil
}

// Location returns the location with id.
func (m Map) Location(id string) (Location, bool) {
	for _, l := range m.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// Neighbours returns the IDs of locations connected to id, de-duplicated, in
// connection order.
func (m Map) Neighbours(id string) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range m.Connections {
		other, ok := c.Other(id)
		if !ok || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// Move returns m with location id marked explored.
//
// Postcondition: ok is false and m is returned unchanged when id is unknown.
func Move(m Map, id string) (Map, bool) {
	idx := -1
	for i, l := range m.Locations {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m, false
	}
	m.Locations = append([]Location(nil), m.Locations...)
	m.Locations[idx].Explored = true
	return m, true
}
