package content_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/emberfall/internal/content"
	"github.com/cory-johannsen/emberfall/internal/game/element"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// messagesServer answers every Messages API call with reply as the text block.
func messagesServer(t *testing.T, reply string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         "test-model",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": reply}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAnthropic(t *testing.T, reply string) *content.Anthropic {
	srv := messagesServer(t, reply)
	a, err := content.NewAnthropic(content.AnthropicConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
	}, &scriptedSrc{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return a
}

func TestNewAnthropic_RequiresKeyAndModel(t *testing.T) {
	_, err := content.NewAnthropic(content.AnthropicConfig{Model: "m"}, &scriptedSrc{}, zaptest.NewLogger(t))
	assert.Error(t, err)
	_, err = content.NewAnthropic(content.AnthropicConfig{APIKey: "k"}, &scriptedSrc{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestAnthropic_EncounterClampedToBounds(t *testing.T) {
	reply := "Here you go:\n```json\n" + `{"enemies":[
		{"name":"Gloomfang","description":"Teeth in the dark.","hp":999,"attack":1,"ability":"DRAIN_LIFE","personality":"wild","element":"ice",
		 "loot":{"name":"Murky Tonic","description":"Smells of moss.","value":100,"stackLimit":1}},
		{"name":"Extra","description":"Should be trimmed.","hp":20,"attack":4}
	]}` + "\n```"
	a := newAnthropic(t, reply)

	got, err := a.Encounter(context.Background(), hero(t, 1), content.BoundsForLevel(1))
	require.NoError(t, err)
	require.Len(t, got.Enemies, 1, "level 1 allows a single enemy")

	e := got.Enemies[0]
	assert.Equal(t, "Gloomfang", e.Name)
	assert.Equal(t, 25, e.MaxHP)
	assert.Equal(t, 25, e.HP)
	assert.Equal(t, 3, e.Attack)
	assert.Equal(t, npc.AbilityDrainLife, e.Ability)
	assert.Equal(t, npc.PersonalityWild, e.Personality)
	assert.Equal(t, element.Ice, e.Element)
	require.NotNil(t, e.Loot)
	assert.Equal(t, 30, e.Loot.Value)
	assert.Equal(t, 5, e.Loot.StackLimit)
}

func TestAnthropic_SceneFiltersActions(t *testing.T) {
	reply := `{"description":"Wind howls.","actions":[
		{"label":"Look around","type":"explore"},
		{"label":"Look again","type":"explore"},
		{"label":"Walk away","type":"move"},
		{"label":"Dance","type":"dance"},
		{"label":"Camp","type":"rest"}
	]}`
	a := newAnthropic(t, reply)

	s, err := a.Scene(context.Background(), hero(t, 1), world.Location{Name: "Ashwood"})
	require.NoError(t, err)
	assert.Equal(t, "Wind howls.", s.Description)
	assert.Equal(t, []world.Action{
		{Label: "Look around", Kind: world.ActionExplore},
		{Label: "Camp", Kind: world.ActionRest},
	}, s.Actions)
	assert.Nil(t, s.FoundItem)
}

func TestAnthropic_ExploreForcesEncounterKinds(t *testing.T) {
	a := newAnthropic(t, `{"outcome":"A shadow stirs.","triggerCombat":false,"triggerSocial":true}`)

	r, err := a.Explore(context.Background(), hero(t, 1), world.Location{}, world.Action{Label: "Fight", Kind: world.ActionEncounter})
	require.NoError(t, err)
	assert.True(t, r.TriggerCombat)
	assert.False(t, r.TriggerSocial)
}

func TestAnthropic_SocialRewardClamped(t *testing.T) {
	a := newAnthropic(t, `{"description":"A bard.","choices":[
		{"label":"Listen","outcome":"Lovely.","reward":{"type":"XP","value":500}},
		{"label":"Leave","outcome":"Quiet."}
	]}`)

	s, err := a.Social(context.Background(), hero(t, 1))
	require.NoError(t, err)
	require.Len(t, s.Encounter.Choices, 2)
	assert.Equal(t, 75, s.Encounter.Choices[0].Reward.XP)
	assert.Nil(t, s.Encounter.Choices[1].Reward)
}

func TestAnthropic_GarbageReplyErrors(t *testing.T) {
	a := newAnthropic(t, "I cannot do that.")
	_, err := a.Encounter(context.Background(), hero(t, 1), content.BoundsForLevel(1))
	assert.Error(t, err)

	g := content.NewGuarded(a, zaptest.NewLogger(t))
	e, err := g.Encounter(context.Background(), hero(t, 1), content.BoundsForLevel(1))
	require.NoError(t, err)
	assert.True(t, e.Fallback)
}
