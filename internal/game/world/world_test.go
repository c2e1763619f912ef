package world_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

const validMapYAML = `
world:
  name: Test Vale
  start_location_id: a
  locations:
    - id: a
      name: Alpha
      description: |
        First place.
      x: 10
      y: 10
    - id: b
      name: Beta
      x: 50
      y: 50
    - id: c
      name: Gamma
      x: 90
      y: 90
  connections:
    - { from: a, to: b }
    - { from: c, to: a }
    - { from: b, to: a }
`

func TestLoadMapFromBytes_Valid(t *testing.T) {
	m, err := world.LoadMapFromBytes([]byte(validMapYAML))
	require.NoError(t, err)

	assert.Equal(t, "Test Vale", m.Name)
	assert.Len(t, m.Locations, 3)
	a, ok := m.Location("a")
	require.True(t, ok)
	assert.Equal(t, "First place.", a.Description)
	assert.True(t, a.Explored, "start location is explored on load")
	b, _ := m.Location("b")
	assert.False(t, b.Explored)
}

func TestLoadMapFromBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "world: [",
		"no locations":   "world:\n  name: x\n",
		"unknown start":  "world:\n  start_location_id: z\n  locations:\n    - {id: a, name: A}\n",
		"duplicate id":   "world:\n  locations:\n    - {id: a, name: A}\n    - {id: a, name: B}\n",
		"unknown target": "world:\n  locations:\n    - {id: a, name: A}\n  connections:\n    - {from: a, to: q}\n",
		"self loop":      "world:\n  locations:\n    - {id: a, name: A}\n  connections:\n    - {from: a, to: a}\n",
		"off map":        "world:\n  locations:\n    - {id: a, name: A, x: 101}\n",
		"missing name":   "world:\n  locations:\n    - {id: a}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := world.LoadMapFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMapFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vale.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validMapYAML), 0644))

	m, err := world.LoadMapFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", m.StartLocationID)

	_, err = world.LoadMapFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultMap_MatchesShippedContent(t *testing.T) {
	shipped, err := world.LoadMapFromFile(filepath.Join("..", "..", "..", "content", "world", "vale.yaml"))
	require.NoError(t, err)
	assert.Equal(t, world.DefaultMap(), shipped)
}

func TestNeighbours_BothDirectionsDeduplicated(t *testing.T) {
	m, err := world.LoadMapFromBytes([]byte(validMapYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c"}, m.Neighbours("a"))
	assert.Equal(t, []string{"a"}, m.Neighbours("b"))
	assert.Empty(t, m.Neighbours("nowhere"))
}

func TestMove_MarksExploredWithoutMutatingInput(t *testing.T) {
	m := world.DefaultMap()
	moved, ok := world.Move(m, "mire")
	require.True(t, ok)

	l, _ := moved.Location("mire")
	assert.True(t, l.Explored)
	orig, _ := m.Location("mire")
	assert.False(t, orig.Explored)
}

func TestMove_UnknownLocation(t *testing.T) {
	m := world.DefaultMap()
	moved, ok := world.Move(m, "atlantis")
	assert.False(t, ok)
	assert.Equal(t, m, moved)
}

func TestSceneActions_ReplacesProviderMoves(t *testing.T) {
	m := world.DefaultMap()
	local := []world.Action{
		{Label: "Search the cottages", Kind: world.ActionExplore},
		{Label: "Walk to the sea", Kind: world.ActionMove, TargetLocationID: "sea"},
		{Label: "Rest by the beacon", Kind: world.ActionRest},
	}

	got := world.SceneActions(local, m, "old_road")

	assert.Equal(t, []world.Action{
		{Label: "Search the cottages", Kind: world.ActionExplore},
		{Label: "Rest by the beacon", Kind: world.ActionRest},
		{Label: "Go to Hearthstead", Kind: world.ActionMove, TargetLocationID: "hearth"},
		{Label: "Go to Ashwood", Kind: world.ActionMove, TargetLocationID: "ashwood"},
		{Label: "Go to Stillwater Mire", Kind: world.ActionMove, TargetLocationID: "mire"},
	}, got)
}

func TestSceneActions_UnknownNeighbourName(t *testing.T) {
	m := world.Map{
		Locations:       []world.Location{{ID: "a", Name: "A"}},
		Connections:     []world.Connection{{From: "a", To: "ghost"}},
		StartLocationID: "a",
	}
	got := world.SceneActions(nil, m, "a")
	require.Len(t, got, 1)
	assert.Equal(t, "Go to ???", got[0].Label)
	assert.Equal(t, "ghost", got[0].TargetLocationID)
}

func TestParseActionKind(t *testing.T) {
	k, err := world.ParseActionKind("social")
	require.NoError(t, err)
	assert.Equal(t, world.ActionSocial, k)

	_, err = world.ParseActionKind("dance")
	assert.Error(t, err)
}

func TestSocialEncounter_Validate(t *testing.T) {
	potion := inventory.HealthPotion()
	valid := world.SocialEncounter{
		Description: "A merchant waves you over.",
		Choices: []world.SocialChoice{
			{Label: "Help", Outcome: "He thanks you.", Reward: &world.Reward{Kind: world.RewardXP, XP: 30}},
			{Label: "Trade", Outcome: "He hands you a flask.", Reward: &world.Reward{Kind: world.RewardItem, Item: &potion}},
			{Label: "Leave", Outcome: "You walk on."},
		},
	}
	require.NoError(t, valid.Validate())

	noChoices := valid
	noChoices.Choices = nil
	assert.Error(t, noChoices.Validate())

	badReward := valid
	badReward.Choices = []world.SocialChoice{{Label: "x", Outcome: "y", Reward: &world.Reward{Kind: world.RewardItem}}}
	assert.Error(t, badReward.Validate())

	unknown := valid
	unknown.Choices = []world.SocialChoice{{Label: "x", Outcome: "y", Reward: &world.Reward{Kind: "gold"}}}
	assert.Error(t, unknown.Validate())
}
