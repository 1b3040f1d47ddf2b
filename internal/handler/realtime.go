package handler

import (
	"net/http"

	"mesalivre/internal/middleware"
	"mesalivre/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens on the JWT, not the Origin header. Browser dashboards
	// connect from arbitrary hosts.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Events upgrades the connection and streams the tenant's entity events
// until the client disconnects.
func Events(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := middleware.TenantID(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("realtime: websocket upgrade failed")
			return
		}
		hub.Attach(tenantID, conn)
	}
}
