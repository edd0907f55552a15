package relay

import (
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"bunkrelay/internal/app/adapters/metrics"
	"bunkrelay/pkg/logger"
)

// Client is one live peer connection. The read pump feeds frames to the hub,
// the write pump drains the send buffer back to the transport. Keeping the
// pumps apart means a peer that is slow to read never blocks the hub.
type Client struct {
	id      string
	hub     *Hub
	log     logger.Logger
	socket  *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

func (c *Client) read() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, raw, err := c.socket.ReadMessage()
		if err != nil {
			break
		}

		if c.limiter != nil && !c.limiter.Allow() {
			metrics.FramesDiscarded.WithLabelValues("rate").Inc()
			continue
		}

		c.hub.relayFrame(c, raw)
	}
}

func (c *Client) write() {
	defer c.socket.Close()

	for data := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}
