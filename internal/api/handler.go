// Package api exposes the board over HTTP for the drag client and scripts.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/services/reorder"
)

// CardHandler handles card and reorder requests for the owner set by
// OwnerMiddleware
type CardHandler struct {
	service reorder.Service
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(service reorder.Service) *CardHandler {
	return &CardHandler{service: service}
}

// CreateCardRequest is the body of POST /api/cards
type CreateCardRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      models.Status `json:"status"`
}

// ReorderRequest is the body of POST /api/reorder
type ReorderRequest struct {
	Items []models.ReorderItem `json:"items"`
}

// ListCards returns the owner's cards in board order
// GET /api/cards
func (h *CardHandler) ListCards(c *gin.Context) {
	cards, err := h.service.ListCards(c.Request.Context(), c.GetString(ownerKey))
	if err != nil {
		writeError(c, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}

	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// GetCard returns a single card
// GET /api/cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.service.GetCard(c.Request.Context(), c.GetString(ownerKey), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// CreateCard appends a card to the end of its column
// POST /api/cards
func (h *CardHandler) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.service.CreateCard(c.Request.Context(), reorder.CreateCardRequest{
		OwnerID:     c.GetString(ownerKey),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// UpdateCard applies a partial update
// PATCH /api/cards/:id
func (h *CardHandler) UpdateCard(c *gin.Context) {
	var patch models.CardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.service.UpdateCard(c.Request.Context(), reorder.UpdateCardRequest{
		OwnerID:   c.GetString(ownerKey),
		CardID:    c.Param("id"),
		CardPatch: patch,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard removes a card
// DELETE /api/cards/:id
func (h *CardHandler) DeleteCard(c *gin.Context) {
	if err := h.service.DeleteCard(c.Request.Context(), c.GetString(ownerKey), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Reorder commits a drop's batch of placements
// POST /api/reorder
func (h *CardHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Commit(c.Request.Context(), c.GetString(ownerKey), req.Items); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
