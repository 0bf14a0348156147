package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/deltahost/portal-service/internal/realtime"
	"github.com/deltahost/portal-service/internal/service"
)

const (
	wsWriteWait = 10 * time.Second
	wsPingEvery = 30 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set Authorization on websocket requests; the JWT is
	// checked from the query string before upgrade, so origin is open.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler streams new ticket messages to connected clients
type WSHandler struct {
	hub           *realtime.Hub
	ticketService *service.TicketService
}

func NewWSHandler(hub *realtime.Hub, ticketService *service.TicketService) *WSHandler {
	return &WSHandler{hub: hub, ticketService: ticketService}
}

// StreamTicket upgrades the connection and forwards messages published for
// the ticket until the client disconnects. Ownership is checked before the
// upgrade so strangers never hold a subscription.
// GET /api/v1/my/tickets/:id/stream
func (h *WSHandler) StreamTicket(c *gin.Context) {
	ticketID := c.Param("id")

	if _, err := h.ticketService.GetForUser(c.Request.Context(), ticketID, c.GetString("userID")); err != nil {
		writeTicketError(c, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed for ticket %s: %v", ticketID, err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(ticketID)
	defer h.hub.Unsubscribe(sub)

	// Reader goroutine drains control frames and signals disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingEvery)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-sub.Send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
