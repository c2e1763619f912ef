package testutil

import (
	"testing"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
	"github.com/cory-johannsen/emberfall/internal/game/snapshot"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// SampleSnapshot returns a fresh game for a level 1 warrior named name on the
// default map, moved one step onto the Old Road.
func SampleSnapshot(t *testing.T, name string) snapshot.Snapshot {
	t.Helper()
	class, ok := ruleset.DefaultCatalog().Class("warrior")
	if !ok {
		t.Fatal("warrior class missing from default catalog")
	}
	p, err := character.Build(name, class)
	if err != nil {
		t.Fatalf("building player: %v", err)
	}
	s := snapshot.New(p, class, world.DefaultMap())
	return snapshot.Apply(s, snapshot.Move{LocationID: "old_road"})
}
