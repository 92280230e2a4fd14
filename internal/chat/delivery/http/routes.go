package http

import (
	"github.com/gin-gonic/gin"

	"goodwish-chatbot/internal/middleware"
)

// RegisterRoutes maps the chat endpoints. Every route is session scoped and rate limited.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.Use(mw.Session(), mw.RateLimit())

	rg.POST("/query", h.Query)
	rg.POST("/text", h.QueryText)
	rg.POST("/audio", h.QueryAudio)
	rg.POST("/clear-history", h.ClearHistory)
}
