package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"bunkrelay/internal/app/adapters/metrics"
	"bunkrelay/internal/app/domain/message"
	"bunkrelay/internal/app/infrastructure/config"
	"bunkrelay/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// frame is one decoded and re-encoded message on its way to every peer
// except the origin.
type frame struct {
	origin *Client
	data   []byte
}

// Hub owns the live connection set. All set mutation and broadcast iteration
// happen on the Run goroutine, so a broadcast never races an accept or a
// disconnect. The relay keeps no other state: restart it and the world is
// empty again.
type Hub struct {
	log logger.Logger
	cfg config.Relay

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan frame

	count atomic.Int64
}

func New(log logger.Logger, cfg config.Relay) *Hub {
	return &Hub{
		log:        log,
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))

			metrics.ConnectionsActive.Set(float64(len(h.clients)))
			metrics.ConnectionsTotal.WithLabelValues("accepted").Inc()
			h.log.Info("peer connected", slog.String("id", c.id), slog.Int("peers", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.count.Store(int64(len(h.clients)))

				metrics.ConnectionsActive.Set(float64(len(h.clients)))
				h.log.Info("peer disconnected", slog.String("id", c.id), slog.Int("peers", len(h.clients)))
			}
		case f := <-h.broadcast:
			for c := range h.clients {
				if c == f.origin {
					continue
				}

				// a peer that cannot take the frame right now simply
				// misses it; nothing queues behind a slow consumer
				select {
				case c.send <- f.data:
				default:
					metrics.SlowConsumerDrops.Inc()
					h.log.Trace("peer not ready, frame skipped", slog.String("id", c.id))
				}
			}
			metrics.MessagesRelayed.Inc()
		}
	}
}

// Count reports the current live connection count. Written only by Run.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// Handle upgrades an HTTP request to a peer connection. Requests over the
// connection cap are refused before the upgrade so existing peers stay
// unaffected.
func (h *Hub) Handle(c *gin.Context) {
	if h.cfg.MaxConnections > 0 && h.Count() >= h.cfg.MaxConnections {
		metrics.ConnectionsTotal.WithLabelValues("refused").Inc()
		h.log.Warn("connection refused, relay at capacity", slog.Int("max", h.cfg.MaxConnections))
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", err)
		return
	}

	client := &Client{
		id:      uuid.NewString(),
		hub:     h,
		log:     h.log,
		socket:  conn,
		send:    make(chan []byte, h.cfg.SendBuffer),
		limiter: h.newLimiter(),
	}

	h.register <- client

	go client.read()
	go client.write()
}

func (h *Hub) newLimiter() *rate.Limiter {
	if h.cfg.Limiter.Requests <= 0 || h.cfg.Limiter.Per <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(h.cfg.Limiter.Per/time.Duration(h.cfg.Limiter.Requests)), h.cfg.Limiter.Requests)
}

// relayFrame validates that raw is one decodable message and re-encodes it
// for the peers. An undecodable frame is discarded without any reply to the
// sender.
func (h *Hub) relayFrame(origin *Client, raw []byte) {
	var m message.Message
	if err := json.Unmarshal(raw, &m); err != nil {
		metrics.FramesDiscarded.WithLabelValues("decode").Inc()
		h.log.Debug("undecodable frame discarded", slog.String("id", origin.id))
		return
	}

	data, err := json.Marshal(m)
	if err != nil {
		metrics.FramesDiscarded.WithLabelValues("encode").Inc()
		return
	}

	h.broadcast <- frame{origin: origin, data: data}
}
