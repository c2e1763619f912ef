package element_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/emberfall/internal/game/element"
)

func TestResisted_Cycle(t *testing.T) {
	assert.True(t, element.Resisted(element.Earth, element.Lightning))
	assert.True(t, element.Resisted(element.Lightning, element.Ice))
	assert.True(t, element.Resisted(element.Ice, element.Fire))
	assert.True(t, element.Resisted(element.Fire, element.Earth))

	assert.False(t, element.Resisted(element.Lightning, element.Earth))
	assert.False(t, element.Resisted(element.Fire, element.Fire))
}

func TestResisted_NoneNeverResists(t *testing.T) {
	all := []element.Element{element.None, element.Fire, element.Ice, element.Lightning, element.Earth}
	rapid.Check(t, func(rt *rapid.T) {
		e := rapid.SampledFrom(all).Draw(rt, "e")
		assert.False(rt, element.Resisted(element.None, e))
		assert.False(rt, element.Resisted(e, element.None))
	})
}

func TestParse(t *testing.T) {
	e, err := element.Parse(" Lightning ")
	require.NoError(t, err)
	assert.Equal(t, element.Lightning, e)

	e, err = element.Parse("")
	require.NoError(t, err)
	assert.Equal(t, element.None, e)

	_, err = element.Parse("water")
	assert.Error(t, err)
}

func TestElement_TextRoundTripInYAMLAndJSON(t *testing.T) {
	var y struct {
		E element.Element `yaml:"e"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("e: ice\n"), &y))
	assert.Equal(t, element.Ice, y.E)

	b, err := json.Marshal(map[string]element.Element{"e": element.Earth})
	require.NoError(t, err)
	assert.JSONEq(t, `{"e":"earth"}`, string(b))
}
