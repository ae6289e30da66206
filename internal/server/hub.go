package server

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Ack   *int   `json:"ack,omitempty"`
}

// hub tracks live websocket clients by connection id and implements
// arena.Notifier.
type hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func newHub() *hub {
	return &hub{
		clients: make(map[string]*client),
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// remove unregisters a client and closes its send queue. It reports false if
// the client was already gone.
func (h *hub) remove(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return false
	}
	delete(h.clients, id)
	close(c.send)
	return true
}

func (h *hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) Send(connID string, event string, payload any) {
	h.write(connID, outbound{Event: event, Data: payload})
}

func (h *hub) reply(connID string, ack int, payload any) {
	h.write(connID, outbound{Event: "ack", Data: payload, Ack: &ack})
}

func (h *hub) write(connID string, msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("event", msg.Event).Msg("failed to encode websocket message")
		return
	}
	h.mu.RLock()
	c, ok := h.clients[connID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	select {
	case c.send <- data:
		h.mu.RUnlock()
	default:
		h.mu.RUnlock()
		log.Warn().Str("conn", connID).Str("event", msg.Event).Msg("send buffer full, closing connection")
		if h.remove(connID) {
			_ = c.conn.Close()
		}
	}
}
