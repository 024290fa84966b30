package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/cardsort/internal/services/reorder"
)

// NewRouter builds the HTTP API for one owner's board
func NewRouter(service reorder.Service, ownerID string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	SetupRoutes(r, NewCardHandler(service), ownerID)
	return r
}

// SetupRoutes registers the board routes on r
func SetupRoutes(r *gin.Engine, cards *CardHandler, ownerID string) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		board := api.Group("")
		board.Use(OwnerMiddleware(ownerID))
		{
			board.GET("/cards", cards.ListCards)
			board.POST("/cards", cards.CreateCard)
			board.GET("/cards/:id", cards.GetCard)
			board.PATCH("/cards/:id", cards.UpdateCard)
			board.DELETE("/cards/:id", cards.DeleteCard)
			board.POST("/reorder", cards.Reorder)
		}
	}
}
