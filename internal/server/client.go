package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"cyberquest/internal/arena"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

type client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

func newClient(id string, conn *websocket.Conn, perSecond float64, burst int) *client {
	return &client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// readPump decodes inbound messages and posts them to the loop in arrival
// order. When the socket closes it posts a Disconnect.
func (s *Server) readPump(c *client) {
	defer func() {
		s.hub.remove(c.id)
		_ = c.conn.Close()
		s.loop.Post(func() {
			s.engine.Handle(arena.Disconnect{ConnID: c.id})
		})
		log.Info().Str("conn", c.id).Msg("ws disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("conn", c.id).Msg("ws read failed")
			}
			return
		}
		if !c.limiter.Allow() {
			log.Debug().Str("conn", c.id).Msg("rate limit exceeded, dropping message")
			continue
		}
		cmd, err := s.decode(c.id, data)
		if err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("rejected message")
			continue
		}
		if !s.loop.Post(func() { s.engine.Handle(cmd) }) {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
