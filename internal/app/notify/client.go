package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"moviehub/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// number of outbound frames a slow client may have queued.
	sendBufferSize = 64
)

// Client is a Peer backed by a gorilla WebSocket connection. All writes go through
// WritePump, which must be started by the caller.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	logger zerolog.Logger

	// mu guards closed and the close of send.
	mu          sync.Mutex
	closed      bool
	closeCode   int
	closeReason string
}

// NewClient wraps wsConn and prepares its read side.
func NewClient(wsConn *websocket.Conn, userID string) *Client {
	id := uuid.NewString()

	c := &Client{
		id:   id,
		conn: wsConn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
		logger: logx.Logger().With().
			Str("conn_id", id).
			Str("user_id", userID).
			Logger(),
	}

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return c
}

// ID returns the handle identifier.
func (c *Client) ID() string {
	return c.id
}

// Send queues data for WritePump. It fails instead of blocking when the queue is full.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnClosed
	}

	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
		return ErrSendQueueFull
	}
}

// Close asks WritePump to flush queued frames, write a close frame and release the connection.
func (c *Client) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrAlreadyClosed
	}

	c.closed = true
	c.closeCode = code
	c.closeReason = reason
	close(c.send)

	return nil
}

// Done is closed when WritePump has exited and the connection is released.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// ReadMessage returns the payload of the next text or binary frame.
func (c *Client) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// WritePump writes queued frames and heartbeats until the client is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		close(c.done)

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.writeClose()
				return
			}

			if err := c.write(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Client) writeClose() {
	c.mu.Lock()
	code, reason := c.closeCode, c.closeReason
	c.mu.Unlock()

	c.logger.Debug().Int("close_code", code).Str("reason", reason).Msg("Sending close frame")

	if err := WriteCloseFrame(c.conn, code, reason); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to send close frame")
	}
}

// WriteCloseFrame writes a close control frame without closing the underlying connection.
func WriteCloseFrame(conn *websocket.Conn, code int, reason string) error {
	message := websocket.FormatCloseMessage(code, reason)
	return conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
}

// Reject closes a freshly upgraded connection that will not get a session.
func Reject(conn *websocket.Conn, code int, reason string) {
	if err := WriteCloseFrame(conn, code, reason); err != nil {
		logx.Debug("Failed to send rejection close frame", "error", err.Error())
	}

	// Give the peer a moment to read the close frame before the TCP connection goes away.
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	if err := conn.Close(); err != nil {
		logx.Debug("Rejected connection close error", "error", err.Error())
	}
}
