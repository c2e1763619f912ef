package condition_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emberfall/internal/game/condition"
)

func TestShippedConditionsMatchDefaults(t *testing.T) {
	reg, err := condition.LoadDirectory(filepath.Join("..", "..", "..", "content", "conditions"))
	require.NoError(t, err)
	assert.Equal(t, condition.DefaultRegistry().All(), reg.All())
}
