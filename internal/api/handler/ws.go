package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"dispatchgo/backend/internal/feedhub"
	"dispatchgo/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeFeed handles GET /ws: upgrades the connection and registers it with
// the feed hub so the dashboard receives every new report as it is stored.
func (h *Handler) ServeFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &feedhub.WebSocketClient{
		ID:   uuid.New().String(),
		Conn: conn,
		Hub:  h.Hub,
		Send: make(chan models.Report, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
