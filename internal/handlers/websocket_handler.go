package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/pkg/logger"
	"mealhub/pkg/websocket"
)

type WebSocketHandler struct {
	wsHandler *websocket.Handler
	logger    *logger.Logger
}

func NewWebSocketHandler(wsHandler *websocket.Handler, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		wsHandler: wsHandler,
		logger:    log,
	}
}

// AdminFeed upgrades an authenticated admin to the live event feed
func (h *WebSocketHandler) AdminFeed(c *gin.Context) {
	auth, ok := currentAuth(c)
	if !ok {
		return
	}

	err := h.wsHandler.Serve(c.Writer, c.Request, auth.PrincipalID.Hex(), string(auth.Role), auth.Role.IsAdmin())
	if err != nil {
		// the upgrader has already written a response
		h.logger.WithError(err).WithPrincipal(string(auth.Role), auth.PrincipalID).Warn("WebSocket upgrade failed")
		c.Abort()
	}
}
