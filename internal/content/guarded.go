package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// Guarded wraps a Provider so that no call fails: any error, or a payload
// that would be unusable, is logged and replaced by the matching fallback
// with Fallback set.
type Guarded struct {
	inner  Provider
	logger *zap.Logger
}

// NewGuarded wraps inner.
//
// Precondition: inner and logger must be non-nil.
func NewGuarded(inner Provider, logger *zap.Logger) *Guarded {
	return &Guarded{inner: inner, logger: logger}
}

func (g *Guarded) fail(kind string, err error) {
	g.logger.Warn("content provider failed; using fallback",
		zap.String("kind", kind),
		zap.Error(err),
	)
}

// Scene implements Provider.
func (g *Guarded) Scene(ctx context.Context, p character.Player, at world.Location) (Scene, error) {
	s, err := g.inner.Scene(ctx, p, at)
	if err != nil {
		g.fail("scene", err)
		return FallbackScene(), nil
	}
	return s, nil
}

// Explore implements Provider.
func (g *Guarded) Explore(ctx context.Context, p character.Player, at world.Location, a world.Action) (ExploreResult, error) {
	r, err := g.inner.Explore(ctx, p, at, a)
	if err != nil {
		g.fail("explore", err)
		return FallbackExplore(), nil
	}
	return r, nil
}

// Encounter implements Provider. An empty roster counts as a failure.
func (g *Guarded) Encounter(ctx context.Context, p character.Player, b Bounds) (EncounterPayload, error) {
	e, err := g.inner.Encounter(ctx, p, b)
	if err == nil && len(e.Enemies) == 0 {
		err = errEmptyRoster
	}
	if err != nil {
		g.fail("encounter", err)
		return FallbackEncounter(p.Level), nil
	}
	return e, nil
}

// Social implements Provider.
func (g *Guarded) Social(ctx context.Context, p character.Player) (Social, error) {
	s, err := g.inner.Social(ctx, p)
	if err == nil {
		err = s.Encounter.Validate()
	}
	if err != nil {
		g.fail("social", err)
		return FallbackSocial(), nil
	}
	return s, nil
}
