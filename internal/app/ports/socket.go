package ports

import "bunkrelay/internal/app/domain/message"

type SocketPort interface {
	Start()
	Stop()
	State() string
	Send(msg message.Message)
	Subscribe(fn func(msg message.Message)) (unsubscribe func())
}

// SenderPort is the narrow slice of the socket the store needs.
type SenderPort interface {
	Send(msg message.Message)
}
