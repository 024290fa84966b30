package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/services/reorder"
)

// badRequest lists the errors that mean the caller sent something malformed
var badRequest = []error{
	models.ErrInvalidReorder,
	models.ErrInvalidStatus,
	models.ErrInvalidPosition,
	reorder.ErrEmptyTitle,
	reorder.ErrTitleTooLong,
	reorder.ErrInvalidCardID,
	reorder.ErrInvalidOwnerID,
}

// StatusFor maps a service error to its HTTP status code
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
