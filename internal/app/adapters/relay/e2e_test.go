package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bunkrelay/internal/app/adapters/socket"
	"bunkrelay/internal/app/domain/ephemeral"
	"bunkrelay/internal/app/infrastructure/config"
)

func waitConnected(t *testing.T, s *socket.Socket) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for s.State() != "connected" {
		if time.Now().After(deadline) {
			t.Fatalf("socket never connected, state %s", s.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitLen(t *testing.T, s *ephemeral.Store, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for s.Len() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d live messages, have %d", want, s.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Client A posts; A sees its message immediately, B sees exactly one copy
// with the same text, and after the TTL both live sets are empty again.
func TestEndToEnd_PostRelayExpire(t *testing.T) {
	_, url, stop := startRelay(t, config.Relay{})
	defer stop()

	ttl := 600 * time.Millisecond

	sockA := socket.New(nopLogger{}, url, 100*time.Millisecond)
	sockA.Start()
	defer sockA.Stop()
	sockB := socket.New(nopLogger{}, url, 100*time.Millisecond)
	sockB.Start()
	defer sockB.Stop()

	waitConnected(t, sockA)
	waitConnected(t, sockB)

	storeA := ephemeral.New("global", ttl, nopLogger{}, sockA)
	unsubA := sockA.Subscribe(storeA.Receive)
	defer unsubA()

	storeB := ephemeral.New("global", ttl, nopLogger{}, sockB)
	unsubB := sockB.Subscribe(storeB.Receive)
	defer unsubB()

	posted, ok := storeA.Post("exam moved")
	assert.True(t, ok)
	assert.Equal(t, 1, storeA.Len(), "author must see the message at once")

	waitLen(t, storeB, 1)
	got := storeB.List()
	assert.Len(t, got, 1)
	assert.Equal(t, posted.ID, got[0].ID)
	assert.Equal(t, "exam moved", got[0].Text)

	// no further activity: both live sets drain on their own
	time.Sleep(ttl + 400*time.Millisecond)
	assert.Equal(t, 0, storeA.Len())
	assert.Equal(t, 0, storeB.Len())
}

// A receiver that sees the same id twice keeps a single copy.
func TestEndToEnd_DuplicateDeliveryIsDeduped(t *testing.T) {
	_, url, stop := startRelay(t, config.Relay{})
	defer stop()

	sockA := socket.New(nopLogger{}, url, 100*time.Millisecond)
	sockA.Start()
	defer sockA.Stop()
	sockB := socket.New(nopLogger{}, url, 100*time.Millisecond)
	sockB.Start()
	defer sockB.Stop()

	waitConnected(t, sockA)
	waitConnected(t, sockB)

	storeB := ephemeral.New("global", time.Minute, nopLogger{}, sockB)
	unsubB := sockB.Subscribe(storeB.Receive)
	defer unsubB()

	storeA := ephemeral.New("global", time.Minute, nopLogger{}, sockA)
	m, _ := storeA.Post("once only")

	waitLen(t, storeB, 1)

	// replay the exact frame; the relay forwards it, B's store drops it
	sockA.Send(m)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, storeB.Len())
}
