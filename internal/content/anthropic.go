package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/element"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

const systemPrompt = "You are a creative and engaging dungeon master for a classic fantasy JRPG. " +
	"Your descriptions are vivid, your monsters are menacing, and your scenarios are intriguing. " +
	"Keep the tone epic and adventurous, with a slightly retro feel. " +
	"Reply with a single JSON object and nothing else."

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
	Timeout   time.Duration
}

// Anthropic generates content with the Anthropic Messages API. Replies are
// parsed as JSON and clamped to the game's limits before use.
type Anthropic struct {
	client anthropic.Client
	cfg    AnthropicConfig
	src    dice.Source
	logger *zap.Logger
}

// NewAnthropic creates an Anthropic provider.
//
// Precondition: cfg.APIKey and cfg.Model must be non-empty.
func NewAnthropic(cfg AnthropicConfig, src dice.Source, logger *zap.Logger) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic provider: api key must not be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("anthropic provider: model must not be empty")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
		src:    src,
		logger: logger,
	}, nil
}

// complete sends prompt and decodes the JSON object in the reply into out.
func (a *Anthropic) complete(ctx context.Context, prompt string, out any) error {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.cfg.Model),
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: anthropic.Float(1.0),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return fmt.Errorf("anthropic messages: %w", err)
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	a.logger.Debug("anthropic reply",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", sb.Len()),
	)
	body := extractJSON(sb.String())
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decoding anthropic reply: %w", err)
	}
	return nil
}

// extractJSON returns the outermost JSON object in s, tolerating prose or
// code fences around it.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

type itemReply struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       int    `json:"value"`
	StackLimit  int    `json:"stackLimit"`
}

// potion converts r into a potion restoring 15-30 health with a stack limit of 5-10.
func (r *itemReply) potion() *inventory.Item {
	if r == nil || r.Name == "" {
		return nil
	}
	return &inventory.Item{
		Name:        r.Name,
		Description: r.Description,
		Kind:        inventory.KindPotion,
		Value:       min(max(r.Value, 15), 30),
		StackLimit:  min(max(r.StackLimit, 5), 10),
	}
}

const itemShape = `{"name": string, "description": string, "value": integer 15-30 (health restored), "stackLimit": integer 5-10}`

type sceneReply struct {
	Description string `json:"description"`
	Actions     []struct {
		Label string `json:"label"`
		Type  string `json:"type"`
	} `json:"actions"`
	FoundItem *itemReply `json:"foundItem"`
}

// Scene asks for a location description and three local actions.
// Duplicate action kinds after the first and move actions are discarded.
func (a *Anthropic) Scene(ctx context.Context, p character.Player, at world.Location) (Scene, error) {
	prompt := fmt.Sprintf(`Generate a scene for a level %d %s arriving at %q (%s).
Reply as {"description": string (max 80 words), "actions": [{"label": string, "type": "explore"|"rest"|"encounter"|"social"}] (exactly 3, one rest, one encounter, one explore or social), "foundItem": optional %s (include about 25%% of the time)}.`,
		p.Level, p.Class, at.Name, at.Description, itemShape)
	var r sceneReply
	if err := a.complete(ctx, prompt, &r); err != nil {
		return Scene{}, fmt.Errorf("scene: %w", err)
	}
	if strings.TrimSpace(r.Description) == "" {
		return Scene{}, fmt.Errorf("scene: empty description")
	}
	s := Scene{Description: r.Description, FoundItem: r.FoundItem.potion()}
	seen := map[world.ActionKind]bool{}
	for _, ra := range r.Actions {
		kind, err := world.ParseActionKind(ra.Type)
		if err != nil || kind == world.ActionMove || seen[kind] || ra.Label == "" {
			continue
		}
		seen[kind] = true
		s.Actions = append(s.Actions, world.Action{Label: ra.Label, Kind: kind})
	}
	if len(s.Actions) == 0 {
		return Scene{}, fmt.Errorf("scene: no usable actions")
	}
	return s, nil
}

type exploreReply struct {
	Outcome       string     `json:"outcome"`
	FoundItem     *itemReply `json:"foundItem"`
	TriggerCombat bool       `json:"triggerCombat"`
	TriggerSocial bool       `json:"triggerSocial"`
}

// Explore asks for the outcome of a. Encounter and social actions always
// trigger their encounter regardless of the reply.
func (a *Anthropic) Explore(ctx context.Context, p character.Player, at world.Location, act world.Action) (ExploreResult, error) {
	prompt := fmt.Sprintf(`A level %d %s at %q chooses to %q (%s).
Reply as {"outcome": string (max 60 words), "foundItem": optional %s, "triggerCombat": boolean, "triggerSocial": boolean (never both true)}.`,
		p.Level, p.Class, at.Name, act.Label, act.Kind, itemShape)
	var r exploreReply
	if err := a.complete(ctx, prompt, &r); err != nil {
		return ExploreResult{}, fmt.Errorf("explore: %w", err)
	}
	if strings.TrimSpace(r.Outcome) == "" {
		return ExploreResult{}, fmt.Errorf("explore: empty outcome")
	}
	res := ExploreResult{
		Outcome:       r.Outcome,
		FoundItem:     r.FoundItem.potion(),
		TriggerCombat: r.TriggerCombat || act.Kind == world.ActionEncounter,
	}
	res.TriggerSocial = !res.TriggerCombat && (r.TriggerSocial || act.Kind == world.ActionSocial)
	return res, nil
}

type enemyReply struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	HP          int        `json:"hp"`
	Attack      int        `json:"attack"`
	Ability     string     `json:"ability"`
	Personality string     `json:"personality"`
	Element     string     `json:"element"`
	Loot        *itemReply `json:"loot"`
}

type encounterReply struct {
	Enemies []enemyReply `json:"enemies"`
}

// Encounter draws the enemy count from b, then asks for exactly that many
// enemies. Stats are clamped to b; unknown abilities, personalities and
// elements are dropped.
func (a *Anthropic) Encounter(ctx context.Context, p character.Player, b Bounds) (EncounterPayload, error) {
	n := b.Count(a.src)
	prompt := fmt.Sprintf(`Generate a fantasy JRPG monster encounter for a level %d player with exactly %d monster(s).
Reply as {"enemies": [{"name": string, "description": string (max 30 words), "hp": integer %d-%d, "attack": integer %d-%d, "ability": optional "heal"|"shield"|"multi_attack"|"drain_life", "personality": "aggressive"|"defensive"|"strategic"|"wild", "element": optional "fire"|"ice"|"lightning"|"earth", "loot": optional %s (about 40%% of monsters)}]}.`,
		p.Level, n, b.MinHP, b.MaxHP, b.MinAttack, b.MaxAttack, itemShape)
	var r encounterReply
	if err := a.complete(ctx, prompt, &r); err != nil {
		return EncounterPayload{}, fmt.Errorf("encounter: %w", err)
	}
	if len(r.Enemies) == 0 {
		return EncounterPayload{}, fmt.Errorf("encounter: reply contained no enemies")
	}
	if len(r.Enemies) > b.MaxEnemies {
		r.Enemies = r.Enemies[:b.MaxEnemies]
	}
	out := make([]npc.Enemy, 0, len(r.Enemies))
	for _, re := range r.Enemies {
		if re.Name == "" {
			return EncounterPayload{}, fmt.Errorf("encounter: enemy without a name")
		}
		e := npc.New(re.Name, re.Description, b.ClampHP(re.HP), b.ClampAttack(re.Attack))
		if ab, err := npc.ParseAbility(re.Ability); err == nil {
			e.Ability = ab
		}
		if pers, err := npc.ParsePersonality(re.Personality); err == nil {
			e.Personality = pers
		}
		if el, err := element.Parse(re.Element); err == nil {
			e.Element = el
		}
		e.Loot = re.Loot.potion()
		out = append(out, e)
	}
	return EncounterPayload{Enemies: out}, nil
}

type socialReply struct {
	Description string `json:"description"`
	Choices     []struct {
		Label   string `json:"label"`
		Outcome string `json:"outcome"`
		Reward  *struct {
			Type  string     `json:"type"`
			Value int        `json:"value"`
			Item  *itemReply `json:"item"`
		} `json:"reward"`
	} `json:"choices"`
}

// Social asks for a two-choice social encounter. XP rewards are clamped to 25-75.
func (a *Anthropic) Social(ctx context.Context, p character.Player) (Social, error) {
	prompt := fmt.Sprintf(`Generate a social, non-combat encounter for a level %d %s with a clear choice between two distinct outcomes. One choice might offer a small reward.
Reply as {"description": string (max 80 words), "choices": [{"label": string (max 5 words), "outcome": string (max 60 words), "reward": optional {"type": "XP"|"ITEM", "value": integer 25-75 for XP, "item": %s for ITEM}}] (exactly 2)}.`,
		p.Level, p.Class, itemShape)
	var r socialReply
	if err := a.complete(ctx, prompt, &r); err != nil {
		return Social{}, fmt.Errorf("social: %w", err)
	}
	enc := world.SocialEncounter{Description: r.Description}
	for _, rc := range r.Choices {
		c := world.SocialChoice{Label: rc.Label, Outcome: rc.Outcome}
		if rc.Reward != nil {
			switch strings.ToUpper(rc.Reward.Type) {
			case "XP":
				c.Reward = &world.Reward{Kind: world.RewardXP, XP: min(max(rc.Reward.Value, 25), 75)}
			case "ITEM":
				if it := rc.Reward.Item.potion(); it != nil {
					c.Reward = &world.Reward{Kind: world.RewardItem, Item: it}
				}
			}
		}
		enc.Choices = append(enc.Choices, c)
	}
	if err := enc.Validate(); err != nil {
		return Social{}, fmt.Errorf("social: %w", err)
	}
	return Social{Encounter: enc}, nil
}
