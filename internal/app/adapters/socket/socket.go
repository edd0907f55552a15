package socket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bunkrelay/internal/app/domain/message"
	"bunkrelay/pkg/logger"
)

const (
	// DefaultEndpoint is the same-host convention: the relay listens on 8081
	// next to whatever serves the app.
	DefaultEndpoint = "ws://localhost:8081/ws"

	DefaultReconnectDelay = 2 * time.Second
)

type state int

const (
	stateDisconnected state = iota
	stateConnecting
	stateConnected
)

func (s state) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateConnected:
		return "connected"
	}
	return "disconnected"
}

// Socket keeps at most one logical connection to the relay and hides
// transient disconnects from its callers. Delivery is at-most-once: a send
// while disconnected kicks the connection and drops the message, a write
// error is logged and swallowed. There is no acknowledgement to wait for.
type Socket struct {
	log    logger.Logger
	url    string
	delay  time.Duration
	dialer *websocket.Dialer

	mu        sync.Mutex
	st        state
	conn      *websocket.Conn
	reconnect *time.Timer
	stopped   bool

	listeners map[int]func(msg message.Message)
	nextID    int
}

func New(log logger.Logger, url string, delay time.Duration) *Socket {
	if url == "" {
		url = DefaultEndpoint
	}
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}

	return &Socket{
		log:   log,
		url:   url,
		delay: delay,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		listeners: make(map[int]func(msg message.Message)),
	}
}

func (s *Socket) Start() {
	s.Connect()
}

// Connect is a no-op while a connection attempt is in flight or a connection
// is open. It never opens a second transport.
func (s *Socket) Connect() {
	s.mu.Lock()
	if s.stopped || s.st != stateDisconnected {
		s.mu.Unlock()
		return
	}
	s.st = stateConnecting
	s.clearReconnectLocked()
	s.mu.Unlock()

	go s.dial()
}

// Send transmits the message if connected. Otherwise the message is dropped
// and a connection attempt is triggered so the next send has a chance.
func (s *Socket) Send(msg message.Message) {
	s.mu.Lock()
	if s.st != stateConnected || s.conn == nil {
		s.mu.Unlock()
		s.log.Debug("send while disconnected, message dropped", slog.String("id", msg.ID))
		s.Connect()
		return
	}

	err := s.conn.WriteJSON(msg)
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("send failed, message lost", slog.String("id", msg.ID), slog.String("error", err.Error()))
	}
}

// Subscribe registers fn for every decoded inbound message and returns the
// deregistration capability. Subscribers are independent; invocation order
// is not defined.
func (s *Socket) Subscribe(fn func(msg message.Message)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Stop tears the socket down: the reconnect timer is cancelled, the transport
// closed, and no further attempts are made.
func (s *Socket) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.clearReconnectLocked()
	conn := s.conn
	s.conn = nil
	s.st = stateDisconnected
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (s *Socket) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.String()
}

func (s *Socket) dial() {
	conn, resp, err := s.dialer.Dial(s.url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		s.log.Warn("relay unreachable, retrying...", slog.String("url", s.url), slog.String("error", err.Error()))

		s.mu.Lock()
		s.st = stateDisconnected
		s.scheduleReconnectLocked()
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.st = stateConnected
	s.conn = conn
	s.clearReconnectLocked()
	s.mu.Unlock()

	s.log.Info("connected to relay", slog.String("url", s.url))
	go s.readLoop(conn)
}

func (s *Socket) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		// undecodable inbound frames are ignored, same policy as the relay
		var m message.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}

		for _, fn := range s.listenerSnapshot() {
			fn(m)
		}
	}

	conn.Close()

	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		s.st = stateDisconnected
		if !s.stopped {
			s.scheduleReconnectLocked()
		}
	}
	stopped := s.stopped
	s.mu.Unlock()

	if !stopped {
		s.log.Warn("relay connection lost")
	}
}

func (s *Socket) listenerSnapshot() []func(msg message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fns := make([]func(msg message.Message), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// scheduleReconnectLocked arms the single reconnect timer. A second schedule
// while one is pending is a no-op.
func (s *Socket) scheduleReconnectLocked() {
	if s.reconnect != nil || s.stopped {
		return
	}

	s.reconnect = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.reconnect = nil
		s.mu.Unlock()
		s.Connect()
	})
}

func (s *Socket) clearReconnectLocked() {
	if s.reconnect != nil {
		s.reconnect.Stop()
		s.reconnect = nil
	}
}
