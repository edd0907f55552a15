package ephemeral

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"bunkrelay/internal/app/domain/message"
	"bunkrelay/internal/app/infrastructure/storage"
	"bunkrelay/internal/app/ports"
	"bunkrelay/pkg/logger"
)

const DefaultTTL = 30 * time.Second

// Store holds the live set of ephemeral messages for one surface. Entries
// expire a full TTL after insertion, so a message received from a peer gets a
// fresh window regardless of how long it already lived on the sender's side.
// The scope is a client-side label only; the relay has a single broadcast
// domain.
type Store struct {
	scope  string
	ttl    time.Duration
	log    logger.Logger
	sender ports.SenderPort

	cache *storage.Cache[message.Message]

	mu    sync.Mutex
	order []string // live ids, most recent first
}

func New(scope string, ttl time.Duration, log logger.Logger, sender ports.SenderPort) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Store{
		scope:  scope,
		ttl:    ttl,
		log:    log,
		sender: sender,
	}
	s.cache = storage.NewCache[message.Message](64, ttl, s.onEvict)

	return s
}

func (s *Store) Scope() string {
	return s.scope
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Post validates the text, inserts the message locally and only then hands it
// to the socket. The author always sees their own message regardless of
// connection state.
func (s *Store) Post(text string) (message.Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return message.Message{}, false
	}

	m := message.New(text)
	s.insert(m)
	s.sender.Send(m)

	return m, true
}

// Receive merges a peer message into the live set. A message whose id is
// already live is dropped silently.
func (s *Store) Receive(m message.Message) {
	if m.ID == "" || s.cache.Has(m.ID) {
		return
	}

	s.insert(m)
	s.log.Debug("message received", slog.String("id", m.ID))
}

// Remove drops the message and its pending expiry. Safe to call any number
// of times, including after the TTL already fired.
func (s *Store) Remove(id string) {
	s.cache.Delete(id)

	s.mu.Lock()
	s.dropLocked(id)
	s.mu.Unlock()
}

// List returns the live messages, most recent first. Expired ids found along
// the way are pruned from the index.
func (s *Store) List() []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.order[:0]
	var msgs []message.Message
	for _, id := range s.order {
		if m, ok := s.cache.Get(id); ok {
			live = append(live, id)
			msgs = append(msgs, m)
		}
	}
	s.order = live

	return msgs
}

func (s *Store) Len() int {
	return len(s.List())
}

// Clear is the teardown path: every live message and its expiry goes away.
func (s *Store) Clear() {
	s.cache.Clear()

	s.mu.Lock()
	s.order = nil
	s.mu.Unlock()
}

func (s *Store) insert(m message.Message) {
	s.cache.Set(m.ID, m)

	s.mu.Lock()
	s.order = append([]string{m.ID}, s.order...)
	s.mu.Unlock()
}

// onEvict fires for both TTL expiry and explicit invalidation; otter runs it
// off the caller's goroutine.
func (s *Store) onEvict(id string, _ message.Message) {
	s.mu.Lock()
	s.dropLocked(id)
	s.mu.Unlock()

	s.log.Debug("message left live set", slog.String("id", id))
}

func (s *Store) dropLocked(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
