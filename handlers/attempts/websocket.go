package attempts

import (
	"log"
	"net/http"
	"strings"

	"api/middleware"
	"api/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// parseEventFilter reads the ?events= query into event types, defaulting to all
func parseEventFilter(c *gin.Context) []realtime.EventType {
	raw := c.Query("events")
	if raw == "" {
		return realtime.AllEventTypes
	}

	known := make(map[realtime.EventType]bool, len(realtime.AllEventTypes))
	for _, t := range realtime.AllEventTypes {
		known[t] = true
	}

	var events []realtime.EventType
	for _, name := range strings.Split(raw, ",") {
		t := realtime.EventType(strings.TrimSpace(name))
		if known[t] {
			events = append(events, t)
		}
	}
	if len(events) == 0 {
		return realtime.AllEventTypes
	}
	return events
}

// AttemptsWebSocket subscribes a client to attempt transition events. Payloads
// are minimal transition descriptors; clients re-fetch the authoritative
// record instead of trusting event ordering.
func AttemptsWebSocket(c *gin.Context) {
	if _, err := middleware.GetUserFromRequest(c); err != nil {
		return
	}

	events := parseEventFilter(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	hub.Attach(conn, events...)
	defer func() {
		hub.Detach(conn)
		conn.Close()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
