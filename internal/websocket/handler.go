package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a consultant connection to the hub and blocks until
// the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, consultantId string, agencyIds []int64) {
	client := &Client{
		Hub:          hub,
		Conn:         c,
		ConsultantId: consultantId,
		AgencyIds:    agencyIds,
		Send:         make(chan []byte, 256),
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
