package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cory-johannsen/emberfall/internal/game/adventure"
	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/encounter"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

// CreateGameRequest starts a new game.
type CreateGameRequest struct {
	Name  string `json:"name" binding:"required"`
	Class string `json:"class" binding:"required"`
}

// IndexRequest picks an entry from an offered list.
type IndexRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SaveRequest names the slot to write.
type SaveRequest struct {
	Slot string `json:"slot" binding:"required"`
}

// CombatResponse is the result of a combat command.
type CombatResponse struct {
	Game      adventure.Game      `json:"game"`
	Encounter encounter.Encounter `json:"encounter"`
	Events    []combat.Event      `json:"events"`
}

// EncounterResponse is a view of a live encounter and the events after a sequence number.
type EncounterResponse struct {
	Encounter encounter.Encounter `json:"encounter"`
	Events    []combat.Event      `json:"events"`
	Seq       int                 `json:"seq"`
}

// ClassView summarizes a playable class.
type ClassView struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Resource    ruleset.ResourceKind `json:"resource"`
	BaseHP      int                  `json:"base_hp"`
	BaseAttack  int                  `json:"base_attack"`
	Abilities   []string             `json:"abilities"`
}

func gameID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid game id")
		return uuid.Nil, false
	}
	return id, true
}

// Health reports liveness and, when configured, storage reachability.
func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", keyError: err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "games": h.games.Len()})
}

// ListClasses returns the playable classes.
func (h *Handler) ListClasses(c *gin.Context) {
	classes := h.catalog.Classes()
	out := make([]ClassView, 0, len(classes))
	for _, cl := range classes {
		out = append(out, ClassView{
			ID:          cl.ID,
			Name:        cl.Name,
			Description: cl.Description,
			Resource:    cl.Resource,
			BaseHP:      cl.BaseHP,
			BaseAttack:  cl.BaseAttack,
			Abilities:   cl.Abilities,
		})
	}
	c.JSON(http.StatusOK, out)
}

// CreateGame starts a new game.
func (h *Handler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and class are required")
		return
	}
	g, err := h.games.NewGame(c.Request.Context(), req.Name, req.Class)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// GetGame returns a game's current state.
func (h *Handler) GetGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	g, err := h.games.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// QuitGame forgets a game.
func (h *Handler) QuitGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	if err := h.games.Quit(id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindIndex(c *gin.Context) (int, bool) {
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		badRequest(c, "index is required")
		return 0, false
	}
	return *req.Index, true
}

// TakeAction takes one of the offered exploration actions.
func (h *Handler) TakeAction(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	g, err := h.games.Act(c.Request.Context(), id, index)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// UseItem drinks a potion outside combat.
func (h *Handler) UseItem(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	g, err := h.games.UseItem(id, index)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// ChooseSocial resolves the pending social encounter.
func (h *Handler) ChooseSocial(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	g, err := h.games.Choose(c.Request.Context(), id, index)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetEncounter returns the live encounter and the events after ?since=.
func (h *Handler) GetEncounter(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	since, err := strconv.Atoi(c.DefaultQuery("since", "0"))
	if err != nil || since < 0 {
		badRequest(c, "since must be a non-negative integer")
		return
	}
	sess, err := h.games.Encounter(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	events, seq := sess.Events(since)
	c.JSON(http.StatusOK, EncounterResponse{Encounter: sess.Snapshot(), Events: events, Seq: seq})
}

// SubmitCommand resolves a player combat command. Rejected commands return
// 200 with a single rejected event and the unchanged encounter.
func (h *Handler) SubmitCommand(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var cmd encounter.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, "command kind is required")
		return
	}
	g, enc, events, err := h.games.Command(c.Request.Context(), id, cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CombatResponse{Game: g, Encounter: enc, Events: events})
}

// RunEnemyTurns runs pending enemy turns; 409 when they are already running
// or none are due.
func (h *Handler) RunEnemyTurns(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	g, enc, events, err := h.games.EnemyTurns(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CombatResponse{Game: g, Encounter: enc, Events: events})
}

// SaveGame writes the game to a slot.
func (h *Handler) SaveGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "slot is required")
		return
	}
	g, err := h.games.Save(c.Request.Context(), id, req.Slot)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// LoadGame resumes a save as a new game.
func (h *Handler) LoadGame(c *gin.Context) {
	g, err := h.games.Load(c.Request.Context(), c.Param("slot"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// ListSaves returns every save.
func (h *Handler) ListSaves(c *gin.Context) {
	saves, err := h.games.Saves(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saves)
}
