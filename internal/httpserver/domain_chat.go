package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	chatHTTP "goodwish-chatbot/internal/chat/delivery/http"
)

// setupChatDomain registers /api/v1/chat. The use case is built by the caller
// because it owns long-lived state (history, cache, updater).
func (srv HTTPServer) setupChatDomain(ctx context.Context, api *gin.RouterGroup) error {
	h := chatHTTP.New(srv.l, srv.chatUC, srv.chatConfig)
	chatHTTP.RegisterRoutes(api.Group("/chat"), h, srv.mw)

	srv.l.Infof(ctx, "Chat domain registered")
	return nil
}
