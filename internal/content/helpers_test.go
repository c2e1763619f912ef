package content_test

import (
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

// scriptedSrc replays fixed Float64 and Intn sequences, cycling when exhausted.
type scriptedSrc struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedSrc) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

func (s *scriptedSrc) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func hero(t require.TestingT, level int) character.Player {
	class, ok := ruleset.DefaultCatalog().Class("mage")
	require.True(t, ok)
	p, err := character.Build("Hero", class)
	require.NoError(t, err)
	p.Level = level
	return p
}
