package ephemeral

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bunkrelay/internal/app/domain/message"
)

type nopLogger struct{}

func (nopLogger) SetLogLevel(string)          {}
func (nopLogger) Trace(string, ...any)        {}
func (nopLogger) Debug(string, ...any)        {}
func (nopLogger) Info(string, ...any)         {}
func (nopLogger) Warn(string, ...any)         {}
func (nopLogger) Error(string, error, ...any) {}
func (nopLogger) Fatal(string, error, ...any) {}

type mockSender struct {
	mu   sync.Mutex
	sent []message.Message
}

func (m *mockSender) Send(msg message.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestStore(ttl time.Duration) (*Store, *mockSender) {
	sender := &mockSender{}
	return New("test", ttl, nopLogger{}, sender), sender
}

func TestStore_Post(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantText string
	}{
		{name: "plain_text", text: "exam moved", wantOK: true, wantText: "exam moved"},
		{name: "trims_padding", text: "  lecture cancelled  ", wantOK: true, wantText: "lecture cancelled"},
		{name: "empty", text: "", wantOK: false},
		{name: "whitespace_only", text: " \t\n", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sender := newTestStore(time.Minute)

			m, ok := s.Post(tt.text)
			assert.Equal(t, tt.wantOK, ok)

			if !tt.wantOK {
				assert.Equal(t, 0, s.Len())
				assert.Equal(t, 0, sender.count())
				return
			}

			assert.Equal(t, tt.wantText, m.Text)
			assert.NotEmpty(t, m.ID)
			assert.Equal(t, 1, s.Len())
			assert.Equal(t, 1, sender.count())
		})
	}
}

// The author's copy is inserted before the network send, so it shows up even
// when the socket drops the message on the floor.
func TestStore_PostLocalInsertPrecedesSend(t *testing.T) {
	var s *Store
	liveAtSend := -1

	s = New("test", time.Minute, nopLogger{}, senderFunc(func(_ message.Message) {
		liveAtSend = s.Len()
	}))

	s.Post("hello")
	assert.Equal(t, 1, liveAtSend)
}

type senderFunc func(message.Message)

func (f senderFunc) Send(m message.Message) { f(m) }

func TestStore_ReceiveDedup(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	m := message.New("first delivery")
	s.Receive(m)
	assert.Equal(t, 1, s.Len())

	// same id again, different text: silently dropped, live set unchanged
	dup := m
	dup.Text = "echoed copy"
	s.Receive(dup)

	live := s.List()
	assert.Len(t, live, 1)
	assert.Equal(t, "first delivery", live[0].Text)
}

func TestStore_ReceiveBlankID(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Receive(message.Message{Text: "no id"})
	assert.Equal(t, 0, s.Len())
}

func TestStore_OrderMostRecentFirst(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Post("one")
	s.Post("two")
	s.Post("three")

	live := s.List()
	assert.Len(t, live, 3)
	assert.Equal(t, "three", live[0].Text)
	assert.Equal(t, "two", live[1].Text)
	assert.Equal(t, "one", live[2].Text)
}

func TestStore_TTLExpiry(t *testing.T) {
	s, _ := newTestStore(150 * time.Millisecond)

	s.Post("short lived")
	assert.Equal(t, 1, s.Len())

	time.Sleep(75 * time.Millisecond)
	assert.Equal(t, 1, s.Len(), "message gone before its TTL")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, s.Len(), "message still live after its TTL")
}

func TestStore_ReceiveGetsFreshWindow(t *testing.T) {
	s, _ := newTestStore(150 * time.Millisecond)

	// authored 10s ago on the sender's side; the receiver still grants the
	// full window from the moment of insertion
	m := message.Message{
		ID:        "aged",
		Text:      "old but new here",
		CreatedAt: time.Now().Add(-10 * time.Second).UnixMilli(),
	}
	s.Receive(m)

	time.Sleep(75 * time.Millisecond)
	assert.Equal(t, 1, s.Len())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, s.Len())
}

func TestStore_RemoveIdempotent(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	m, ok := s.Post("dismiss me")
	assert.True(t, ok)

	s.Remove(m.ID)
	assert.Equal(t, 0, s.Len())

	// double dismissal and dismissal of unknown ids are no-ops
	s.Remove(m.ID)
	s.Remove("never-existed")
	assert.Equal(t, 0, s.Len())
}

func TestStore_ManualRemoveBeforeExpiry(t *testing.T) {
	s, _ := newTestStore(150 * time.Millisecond)

	m, _ := s.Post("cancelled early")
	s.Remove(m.ID)
	assert.Equal(t, 0, s.Len())

	// the pending expiry must not resurrect or double-remove anything
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 0, s.Len())

	// the id is free again: dedup only covers live messages
	s.Receive(message.Message{ID: m.ID, Text: "back again", CreatedAt: time.Now().UnixMilli()})
	assert.Equal(t, 1, s.Len())
}

func TestStore_Clear(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Post("a")
	s.Post("b")
	assert.Equal(t, 2, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())
}

func BenchmarkStore_Post(b *testing.B) {
	s, _ := newTestStore(time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Post("bench")
	}
}

func BenchmarkStore_List(b *testing.B) {
	s, _ := newTestStore(time.Minute)
	for i := 0; i < 100; i++ {
		s.Post("bench")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.List()
	}
}
