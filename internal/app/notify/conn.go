package notify

import "errors"

var (
	// ErrAlreadyClosed is returned by Conn.Close on every call after the first.
	ErrAlreadyClosed = errors.New("notify: connection already closed")

	// ErrConnClosed is returned by Conn.Send once the connection is closed.
	ErrConnClosed = errors.New("notify: connection closed")

	// ErrSendQueueFull is returned by Conn.Send when the peer is not draining its queue.
	ErrSendQueueFull = errors.New("notify: send queue full")

	// ErrNotConnected is returned when the target user has no registered connection.
	ErrNotConnected = errors.New("notify: user not connected")
)

// Custom and standard close codes used by the server.
const (
	// CloseSessionReplaced tells a client its connection was superseded by a newer one.
	CloseSessionReplaced = 4001
)

// Conn is the write side of one live connection. Implementations must be safe for
// concurrent use: Send and Close never block on the network.
type Conn interface {
	// ID identifies the handle in logs.
	ID() string

	// Send queues one text frame.
	Send(data []byte) error

	// Close sends a close frame with code and reason. Only the first call has an effect.
	Close(code int, reason string) error
}

// Peer is a Conn that can also be read from. Only the session loop reads.
type Peer interface {
	Conn

	// ReadMessage blocks until the next data frame arrives or the connection fails.
	ReadMessage() ([]byte, error)
}
