package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"route_planner/internal/mapview"
)

// upgrader configures the WebSocket connection. Origin checks are left to the
// CORS layer and the bearer guard.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MapSocketController streams map views to browser pages.
type MapSocketController struct {
	hub *mapview.Hub
}

func NewMapSocketController(hub *mapview.Hub) *MapSocketController {
	return &MapSocketController{hub: hub}
}

// HandleMapWebSocket upgrades the request and keeps the viewer registered
// until the page goes away.
func (mc *MapSocketController) HandleMapWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	mc.hub.Serve(conn)
}
