package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"scholardocs/internal/shared/server/middleware"
	"scholardocs/internal/shared/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin browser clients connect directly; auth happens via the
	// bearer token, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated HTTP requests to websocket connections.
type Handler struct {
	Hub *Hub
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{Hub: hub}
}

// Serve upgrades the connection and joins the caller's own room. The
// auth middleware has already resolved the user; browsers pass the token
// as a query parameter since they cannot set headers on websocket dials.
func (h *Handler) Serve(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		telemetry.Warn("realtime.upgrade_failed", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	client := &Client{
		hub:    h.Hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
	}
	h.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
