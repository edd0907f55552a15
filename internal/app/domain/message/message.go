package message

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is the single wire type exchanged between clients and the relay.
// CreatedAt is authored by the originating client, milliseconds since epoch.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// New builds an outbound message with a collision-resistant id and the
// current timestamp. The trimmed text must be checked by the caller first.
func New(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}

func (m Message) IsBlank() bool {
	return strings.TrimSpace(m.Text) == ""
}

func (m Message) CreatedTime() time.Time {
	return time.UnixMilli(m.CreatedAt)
}

// Remaining reports the display countdown: how much of ttl is left measured
// from CreatedAt, clamped at zero. Expiry itself is anchored at insertion
// time, not here.
func (m Message) Remaining(ttl time.Duration, now time.Time) time.Duration {
	left := ttl - now.Sub(m.CreatedTime())
	if left < 0 {
		return 0
	}
	return left
}
