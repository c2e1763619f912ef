// Package httpapi exposes games over HTTP with gin.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/game/adventure"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
)

// HealthFunc reports whether a backing dependency is reachable.
type HealthFunc func(ctx context.Context) error

// Handler serves the game API.
type Handler struct {
	games   *adventure.Service
	catalog *ruleset.Catalog
	health  HealthFunc
	logger  *zap.Logger
}

// NewHandler creates a Handler. health may be nil.
//
// Precondition: games, catalog and logger must be non-nil.
func NewHandler(games *adventure.Service, catalog *ruleset.Catalog, health HealthFunc, logger *zap.Logger) *Handler {
	return &Handler{games: games, catalog: catalog, health: health, logger: logger}
}

// NewRouter builds the gin engine with every route registered under /api/v1.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	router.GET("/healthz", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/classes", h.ListClasses)

		api.POST("/games", h.CreateGame)
		api.GET("/games/:id", h.GetGame)
		api.DELETE("/games/:id", h.QuitGame)
		api.POST("/games/:id/actions", h.TakeAction)
		api.POST("/games/:id/items", h.UseItem)
		api.POST("/games/:id/social", h.ChooseSocial)
		api.POST("/games/:id/save", h.SaveGame)

		api.GET("/games/:id/encounter", h.GetEncounter)
		api.POST("/games/:id/encounter/commands", h.SubmitCommand)
		api.POST("/games/:id/encounter/enemy-turns", h.RunEnemyTurns)

		api.GET("/saves", h.ListSaves)
		api.POST("/saves/:slot/load", h.LoadGame)
	}
	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
