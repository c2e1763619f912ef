package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/emberfall/internal/game/adventure"
	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/encounter"
	"github.com/cory-johannsen/emberfall/internal/game/inventory"
	"github.com/cory-johannsen/emberfall/internal/game/snapshot"
)

const keyError = "error"

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, adventure.ErrGameNotFound),
		errors.Is(err, encounter.ErrEncounterNotFound),
		errors.Is(err, snapshot.ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, adventure.ErrWrongMode),
		errors.Is(err, encounter.ErrEnemyTurnsInProgress),
		errors.Is(err, encounter.ErrNoPendingEnemyTurns):
		return http.StatusConflict
	case errors.Is(err, adventure.ErrInvalidChoice),
		errors.Is(err, adventure.ErrUnknownClass),
		errors.Is(err, inventory.ErrNoSuchSlot),
		errors.Is(err, character.ErrNotUsable):
		return http.StatusBadRequest
	case errors.Is(err, adventure.ErrListUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{keyError: "internal error"})
		return
	}
	c.JSON(status, gin.H{keyError: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{keyError: msg})
}
