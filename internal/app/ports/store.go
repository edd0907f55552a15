package ports

import (
	"time"

	"bunkrelay/internal/app/domain/message"
)

type StorePort interface {
	Scope() string
	TTL() time.Duration
	Post(text string) (message.Message, bool)
	Receive(msg message.Message)
	Remove(id string)
	List() []message.Message
	Len() int
	Clear()
}
