package adventure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/content"
	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/game/encounter"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
	"github.com/cory-johannsen/emberfall/internal/game/snapshot"
	"github.com/cory-johannsen/emberfall/internal/game/world"
	"github.com/cory-johannsen/emberfall/internal/observability"
)

// DefaultTravelEncounterChance is the chance a move ends in an ambush.
const DefaultTravelEncounterChance = 0.35

// Deps are the collaborators a Service drives.
type Deps struct {
	Catalog    *ruleset.Catalog
	World      world.Map
	Provider   content.Provider
	Encounters *encounter.Manager
	Store      snapshot.Store
	Source     dice.Source
}

// Options tune a Service.
type Options struct {
	TravelEncounterChance float64
	// BackgroundEnemyTurns runs the enemy half of a combat turn in a goroutine
	// after Command returns; otherwise Command waits for it.
	BackgroundEnemyTurns bool
}

type entry struct {
	mu   sync.Mutex
	game Game
}

// Service owns every live game. All methods are safe for concurrent use; calls
// on the same game are serialized.
type Service struct {
	deps   Deps
	opts   Options
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	games map[uuid.UUID]*entry
}

// NewService creates a Service.
//
// Precondition: every Deps field is set and deps.World passes Validate; logger is non-nil.
func NewService(deps Deps, opts Options, logger *zap.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		deps:   deps,
		opts:   opts,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		games:  make(map[uuid.UUID]*entry),
	}
}

// Close stops background enemy turns and waits for them to finish.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// NewGame creates a character of classID named name and opens the first scene.
//
// Postcondition: the game is exploring at the map's start location.
func (s *Service) NewGame(ctx context.Context, name, classID string) (Game, error) {
	class, ok := s.deps.Catalog.Class(classID)
	if !ok {
		return Game{}, fmt.Errorf("%q: %w", classID, ErrUnknownClass)
	}
	p, err := character.Build(name, class)
	if err != nil {
		return Game{}, fmt.Errorf("creating character: %w", err)
	}
	g := Game{
		ID:    uuid.New(),
		Mode:  snapshot.ModeExploring,
		State: snapshot.New(p, class, s.deps.World),
	}
	g = s.scene(ctx, g, "")
	s.put(g)
	s.log(g).Info("game started",
		zap.String("player", name),
		zap.String("class", classID),
	)
	return g, nil
}

// Get returns the current state of game id.
func (s *Service) Get(id uuid.UUID) (Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game, nil
}

// Act takes the exploration action at index in the game's offered actions.
//
// Precondition: the game is exploring.
func (s *Service) Act(ctx context.Context, id uuid.UUID, index int) (Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.game
	if err := g.require(snapshot.ModeExploring); err != nil {
		return g, err
	}
	if index < 0 || index >= len(g.State.Actions) {
		return g, fmt.Errorf("action %d: %w", index, ErrInvalidChoice)
	}
	a := g.State.Actions[index]

	if a.Kind == world.ActionMove {
		g, err = s.travel(ctx, g, a.TargetLocationID)
	} else {
		g.State = snapshot.Apply(g.State, snapshot.AppendLog{
			Message: fmt.Sprintf("You decide to %s...", strings.ToLower(a.Label)),
		})
		if a.Kind == world.ActionEncounter {
			g, err = s.startEncounter(ctx, g, func(names string) string {
				return fmt.Sprintf("A wild %s appeared!", names)
			})
		} else {
			g, err = s.explore(ctx, g, a)
		}
	}
	if err != nil {
		return e.game, err
	}
	e.game = g
	return g, nil
}

func (s *Service) travel(ctx context.Context, g Game, to string) (Game, error) {
	loc, ok := g.State.World.Location(to)
	if !ok {
		return g, fmt.Errorf("location %q: %w", to, ErrInvalidChoice)
	}
	g.State = snapshot.Apply(g.State, snapshot.Move{LocationID: to})
	if dice.Chance(s.deps.Source, s.opts.TravelEncounterChance) {
		return s.startEncounter(ctx, g, func(names string) string {
			return fmt.Sprintf("While traveling to %s, you are ambushed by a %s!", loc.Name, names)
		})
	}
	return s.scene(ctx, g, ""), nil
}

func (s *Service) explore(ctx context.Context, g Game, a world.Action) (Game, error) {
	res, err := s.deps.Provider.Explore(ctx, g.State.Player, g.State.Location(), a)
	if err != nil {
		res = content.FallbackExplore()
	}
	g = s.notice(g, res.Fallback)
	g.State = snapshot.Apply(g.State, snapshot.AppendLog{Message: res.Outcome})
	if res.FoundItem != nil {
		g.State = snapshot.Apply(g.State, snapshot.FoundItem{Item: *res.FoundItem})
	}
	switch {
	case res.TriggerCombat:
		return s.startEncounter(ctx, g, func(names string) string {
			return fmt.Sprintf("%s Suddenly, a %s attacks!", res.Outcome, names)
		})
	case res.TriggerSocial:
		return s.startSocial(ctx, g, res.Outcome), nil
	}
	return s.scene(ctx, g, res.Outcome), nil
}

// scene asks the provider for the current location's scene. A non-empty
// description replaces the provider's text.
func (s *Service) scene(ctx context.Context, g Game, description string) Game {
	sc, err := s.deps.Provider.Scene(ctx, g.State.Player, g.State.Location())
	if err != nil {
		sc = content.FallbackScene()
	}
	g = s.notice(g, sc.Fallback)
	if description == "" {
		description = sc.Description
	}
	g.State = snapshot.Apply(g.State, snapshot.SetScene{
		Description: description,
		Actions:     world.SceneActions(sc.Actions, g.State.World, g.State.LocationID),
	})
	if sc.FoundItem != nil {
		g.State = snapshot.Apply(g.State, snapshot.FoundItem{Item: *sc.FoundItem})
	}
	g.Mode = snapshot.ModeExploring
	return g
}

func (s *Service) startEncounter(ctx context.Context, g Game, intro func(names string) string) (Game, error) {
	p := g.State.Player
	payload, err := s.deps.Provider.Encounter(ctx, p, content.BoundsForLevel(p.Level))
	if err != nil || len(payload.Enemies) == 0 {
		payload = content.FallbackEncounter(p.Level)
	}
	g = s.notice(g, payload.Fallback)

	sess, err := s.deps.Encounters.Start(p, payload.Enemies)
	if err != nil {
		return g, fmt.Errorf("starting encounter: %w", err)
	}
	enc := sess.Snapshot()
	g.Mode = snapshot.ModeCombat
	g.EncounterID = enc.ID
	g.State = snapshot.Apply(g.State, snapshot.SetScene{Description: intro(enemyNames(payload.Enemies))})
	g.State = snapshot.Apply(g.State, snapshot.AppendLog{Message: payload.Enemies[0].Description})
	s.log(g).Debug("game entered combat", zap.Int("enemies", len(payload.Enemies)))
	return g, nil
}

func enemyNames(enemies []npc.Enemy) string {
	names := make([]string, 0, len(enemies))
	for _, e := range enemies {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

func (s *Service) startSocial(ctx context.Context, g Game, lead string) Game {
	soc, err := s.deps.Provider.Social(ctx, g.State.Player)
	if err != nil {
		soc = content.FallbackSocial()
	}
	g = s.notice(g, soc.Fallback)
	meeting := soc.Encounter
	if lead != "" {
		meeting.Description = lead + " " + meeting.Description
	}
	g.Mode = snapshot.ModeSocial
	g.Social = &meeting
	g.State = snapshot.Apply(g.State, snapshot.SetScene{Description: meeting.Description})
	return g
}

// Choose resolves the pending social encounter with the choice at index and
// returns to exploring.
//
// Precondition: the game is in a social encounter.
func (s *Service) Choose(ctx context.Context, id uuid.UUID, index int) (Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.game
	if err := g.require(snapshot.ModeSocial); err != nil {
		return g, err
	}
	if g.Social == nil || index < 0 || index >= len(g.Social.Choices) {
		return g, fmt.Errorf("choice %d: %w", index, ErrInvalidChoice)
	}
	class, ok := s.deps.Catalog.Class(g.State.Player.Class)
	if !ok {
		return g, fmt.Errorf("%q: %w", g.State.Player.Class, ErrUnknownClass)
	}
	choice := g.Social.Choices[index]
	g.State = snapshot.Apply(g.State, snapshot.ResolveSocialChoice{Choice: choice, Class: class})
	g.Social = nil
	g = s.scene(ctx, g, "")
	e.game = g
	return g, nil
}

// UseItem drinks the potion at inventory index outside combat. A potion that
// would restore nothing is refused with a log line and not consumed.
//
// Precondition: the game is exploring.
func (s *Service) UseItem(id uuid.UUID, index int) (Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.game
	if err := g.require(snapshot.ModeExploring); err != nil {
		return g, err
	}
	p, it, healed, err := g.State.Player.UseItem(index)
	switch {
	case errors.Is(err, character.ErrFullHealth):
		g.State = snapshot.Apply(g.State, snapshot.AppendLog{Message: "Your HP is already full!"})
	case err != nil:
		return g, fmt.Errorf("item %d: %w", index, err)
	default:
		g.State.Player = p
		g.State = snapshot.Apply(g.State, snapshot.AppendLog{
			Message: fmt.Sprintf("You use a %s and recover %d HP.", it.Name, healed),
		})
	}
	e.game = g
	return g, nil
}

// Encounter returns the live encounter session of game id.
//
// Precondition: the game is in combat.
func (s *Service) Encounter(id uuid.UUID) (*encounter.Session, error) {
	g, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := g.require(snapshot.ModeCombat); err != nil {
		return nil, err
	}
	return s.deps.Encounters.Get(g.EncounterID)
}

// Command resolves the player's combat command. The enemy turns that follow
// run before Command returns, or in the background when configured so. Once
// the encounter ends the game leaves combat.
//
// Precondition: the game is in combat.
func (s *Service) Command(ctx context.Context, id uuid.UUID, cmd encounter.Command) (Game, encounter.Encounter, []combat.Event, error) {
	e, err := s.entry(id)
	if err != nil {
		return Game{}, encounter.Encounter{}, nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.game
	if err := g.require(snapshot.ModeCombat); err != nil {
		return g, encounter.Encounter{}, nil, err
	}
	sess, err := s.deps.Encounters.Get(g.EncounterID)
	if err != nil {
		return g, encounter.Encounter{}, nil, err
	}

	enc, events := sess.Act(cmd)
	if enc.Phase == encounter.PhaseResolvingPlayerAction {
		if s.opts.BackgroundEnemyTurns {
			s.wg.Add(1)
			go s.backgroundEnemyTurns(e, sess)
			return g, enc, events, nil
		}
		var more []combat.Event
		enc, more, err = sess.RunEnemyTurns(ctx)
		events = append(events, more...)
	}
	if enc.Phase.Terminal() {
		g = s.settle(ctx, g, sess)
		e.game = g
	}
	return g, enc, events, err
}

// EnemyTurns runs the pending enemy turns of game id's encounter.
//
// Postcondition: returns encounter.ErrEnemyTurnsInProgress while another
// call is running them and encounter.ErrNoPendingEnemyTurns when none are due.
func (s *Service) EnemyTurns(ctx context.Context, id uuid.UUID) (Game, encounter.Encounter, []combat.Event, error) {
	sess, err := s.Encounter(id)
	if err != nil {
		return Game{}, encounter.Encounter{}, nil, err
	}
	enc, events, err := sess.RunEnemyTurns(ctx)
	if errors.Is(err, encounter.ErrEnemyTurnsInProgress) || errors.Is(err, encounter.ErrNoPendingEnemyTurns) {
		g, _ := s.Get(id)
		return g, sess.Snapshot(), nil, err
	}
	g, settleErr := s.settleIfOver(ctx, id, sess)
	if settleErr != nil {
		return g, enc, events, settleErr
	}
	return g, enc, events, err
}

func (s *Service) backgroundEnemyTurns(e *entry, sess *encounter.Session) {
	defer s.wg.Done()
	enc, _, err := sess.RunEnemyTurns(s.ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("enemy turns failed", zap.String("encounter_id", enc.ID.String()), zap.Error(err))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.game.EncounterID == enc.ID && enc.Phase.Terminal() {
		e.game = s.settle(s.ctx, e.game, sess)
	}
}

func (s *Service) settleIfOver(ctx context.Context, id uuid.UUID, sess *encounter.Session) (Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	enc := sess.Snapshot()
	if e.game.EncounterID == enc.ID && enc.Phase.Terminal() {
		e.game = s.settle(ctx, e.game, sess)
	}
	return e.game, nil
}

// settle folds a finished encounter back into the game.
func (s *Service) settle(ctx context.Context, g Game, sess *encounter.Session) Game {
	enc := sess.Snapshot()
	events, _ := sess.Events(0)
	_, _ = s.deps.Encounters.End(enc.ID)

	log := s.log(g)
	g.EncounterID = uuid.Nil
	g.State = snapshot.Apply(g.State, snapshot.CombatEnded{Player: enc.Player, Events: events})
	log.Info("game left combat", zap.Stringer("outcome", enc.Phase), zap.Int("turns", enc.Turn))
	if enc.Phase == encounter.PhaseDefeat {
		g.Mode = snapshot.ModeGameOver
		g.State = snapshot.Apply(g.State, snapshot.SetScene{Description: "You have been defeated..."})
		return g
	}
	return s.scene(ctx, g, "")
}

func (s *Service) notice(g Game, fallback bool) Game {
	if fallback {
		g.State = snapshot.Apply(g.State, snapshot.AppendLog{Message: content.Notice})
	}
	return g
}

// Save writes game id's snapshot to slot. A game saved mid-fight resumes
// exploring when loaded; a finished game cannot be saved.
func (s *Service) Save(ctx context.Context, id uuid.UUID, slot string) (Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.game
	if g.Mode == snapshot.ModeGameOver {
		return g, ErrWrongMode
	}
	g.State = snapshot.Apply(g.State, snapshot.AppendLog{Message: "Game Saved!"})
	if err := s.deps.Store.Save(ctx, slot, g.State); err != nil {
		return e.game, fmt.Errorf("saving game: %w", err)
	}
	e.game = g
	return g, nil
}

// Load resumes the save in slot as a new exploring game.
//
// Postcondition: returns snapshot.ErrSaveNotFound when slot is empty.
func (s *Service) Load(ctx context.Context, slot string) (Game, error) {
	saved, err := s.deps.Store.Load(ctx, slot)
	if err != nil {
		return Game{}, err
	}
	if err := saved.Validate(); err != nil {
		return Game{}, fmt.Errorf("loading %q: %w", slot, err)
	}
	ex := snapshot.Rehydrate(saved)
	g := Game{ID: uuid.New(), Mode: ex.Mode, State: ex.Snapshot}
	if len(g.State.Actions) == 0 {
		g = s.scene(ctx, g, "")
	}
	s.put(g)
	s.log(g).Info("game loaded", zap.String("slot", slot))
	return g, nil
}

// Saves lists the store's saves when it supports listing.
func (s *Service) Saves(ctx context.Context) ([]snapshot.Summary, error) {
	l, ok := s.deps.Store.(snapshot.Lister)
	if !ok {
		return nil, ErrListUnsupported
	}
	return l.List(ctx)
}

// Quit forgets game id and its live encounter, if any.
func (s *Service) Quit(id uuid.UUID) error {
	s.mu.Lock()
	e, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()
	if !ok {
		return ErrGameNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.game.EncounterID != uuid.Nil {
		_, _ = s.deps.Encounters.End(e.game.EncounterID)
	}
	return nil
}

// Len returns the number of live games.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func (s *Service) put(g Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = &entry{game: g}
}

func (s *Service) entry(id uuid.UUID) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return e, nil
}

// log returns s.logger tagged with g's game and encounter IDs.
func (s *Service) log(g Game) *zap.Logger {
	var enc string
	if g.EncounterID != uuid.Nil {
		enc = g.EncounterID.String()
	}
	return observability.ForGame(s.logger, g.ID.String(), enc)
}
