package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jengzang/wifi-positioning-go/internal/push"
	"github.com/jengzang/wifi-positioning-go/internal/service"
)

// WSHandler upgrades connections and subscribes them to prediction
// broadcasts
type WSHandler struct {
	hub               *push.Hub
	predictionService *service.PredictionService
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(hub *push.Hub, predictionService *service.PredictionService) *WSHandler {
	return &WSHandler{
		hub:               hub,
		predictionService: predictionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboards are served from arbitrary origins on the LAN.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /ws
func (h *WSHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	// A fresh subscriber immediately sees the current position. The
	// replay happens before registration so it cannot collide with a
	// concurrent broadcast; gorilla allows only one writer per conn.
	if latest, ok := h.predictionService.Latest(); ok {
		if err := conn.WriteJSON(latest); err != nil {
			conn.Close()
			return
		}
	}

	h.hub.Register(conn)
	defer func() {
		h.hub.Unregister(conn)
		conn.Close()
	}()

	// Drain client frames until the connection drops; subscribers only
	// receive, they never send anything meaningful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
