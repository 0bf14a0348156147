// Package realtime fans ticket-message inserts out to connected websocket
// clients. Polling the message list endpoint remains the fallback path; the
// hub only removes the 3-second latency for customers who keep the thread
// open.
package realtime

import (
	"log"
	"sync"

	"github.com/deltahost/portal-service/internal/models"
)

// Subscriber is one websocket client watching a single ticket
type Subscriber struct {
	TicketID string
	Send     chan *models.MessageInfo
}

type Hub struct {
	mu      sync.RWMutex
	tickets map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		tickets: make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe attaches a new client to a ticket's message stream
func (h *Hub) Subscribe(ticketID string) *Subscriber {
	sub := &Subscriber{
		TicketID: ticketID,
		Send:     make(chan *models.MessageInfo, 16),
	}

	h.mu.Lock()
	if h.tickets[ticketID] == nil {
		h.tickets[ticketID] = make(map[*Subscriber]struct{})
	}
	h.tickets[ticketID][sub] = struct{}{}
	h.mu.Unlock()

	log.Printf("[realtime] Subscriber joined ticket %s", ticketID)
	return sub
}

// Unsubscribe detaches a client and closes its Send channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.tickets[sub.TicketID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	close(sub.Send)
	if len(subs) == 0 {
		delete(h.tickets, sub.TicketID)
	}
}

// Publish delivers a freshly inserted message to everyone watching the
// ticket. Slow clients are skipped; they catch up via polling.
func (h *Hub) Publish(ticketID string, msg *models.MessageInfo) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.tickets[ticketID] {
		select {
		case sub.Send <- msg:
		default:
		}
	}
}
