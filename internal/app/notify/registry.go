package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/metrics"
)

const (
	replacedReason = "Session replaced by new connection."
	shutdownReason = "Server shutting down"
)

// Status is a point-in-time view of the registry.
type Status struct {
	ActiveConnections int      `json:"active_connections"`
	ConnectedUsers    []string `json:"connected_users"`
}

// Registry maps each user id to at most one live connection.
type Registry struct {
	// mu protects conns. Send and Close on a Conn never block, so both may run under it.
	mu    sync.RWMutex
	conns map[string]Conn

	logger zerolog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]Conn),
		logger: logx.Component("Registry"),
	}
}

// Connect registers conn as the connection of userID, closing any previous handle with
// CloseSessionReplaced, and queues the welcome message as the first frame on conn.
// The returned error only reports a failed welcome; conn stays registered either way.
func (r *Registry) Connect(conn Conn, userID string) error {
	welcome := NewConnectionEstablished()
	data, err := welcome.encode()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.conns[userID]; ok && previous != conn {
		r.logger.Info().
			Str("user_id", userID).
			Str("previous_conn", previous.ID()).
			Str("conn_id", conn.ID()).
			Msg("Replacing existing connection")

		r.closeConn(previous, userID, CloseSessionReplaced, replacedReason)
		metrics.ConnectionsReplaced.Inc()
	}

	r.conns[userID] = conn
	metrics.ActiveConnections.Set(float64(len(r.conns)))

	r.logger.Info().
		Str("user_id", userID).
		Str("conn_id", conn.ID()).
		Int("active_connections", len(r.conns)).
		Msg("User connected")

	if err := conn.Send(data); err != nil {
		metrics.DeliveryFailures.WithLabelValues(welcome.Kind()).Inc()
		return fmt.Errorf("notify: send welcome to %s: %w", userID, err)
	}
	metrics.MessagesSent.WithLabelValues(welcome.Kind()).Inc()

	return nil
}

// Disconnect removes whatever connection userID has and closes it normally.
// It reports whether an entry was removed; an unknown user is a no-op.
func (r *Registry) Disconnect(userID string) bool {
	return r.remove(userID, nil, websocket.CloseNormalClosure, "")
}

// DisconnectHandle removes userID only while it still maps to conn. A session that
// was replaced by a newer connection therefore never evicts its successor.
func (r *Registry) DisconnectHandle(userID string, conn Conn) bool {
	return r.remove(userID, conn, websocket.CloseNormalClosure, "")
}

func (r *Registry) remove(userID string, expected Conn, code int, reason string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[userID]
	if !ok || (expected != nil && current != expected) {
		r.logger.Debug().Str("user_id", userID).Msg("Disconnect ignored, no matching connection")
		return false
	}

	delete(r.conns, userID)
	metrics.ActiveConnections.Set(float64(len(r.conns)))
	r.closeConn(current, userID, code, reason)

	r.logger.Info().
		Str("user_id", userID).
		Str("conn_id", current.ID()).
		Int("active_connections", len(r.conns)).
		Msg("User disconnected")

	return true
}

// closeConn closes conn, tolerating handles that are already closed.
func (r *Registry) closeConn(conn Conn, userID string, code int, reason string) {
	err := conn.Close(code, reason)

	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyClosed):
		r.logger.Debug().Str("user_id", userID).Str("conn_id", conn.ID()).Msg("Connection was already closed")
	default:
		r.logger.Warn().Err(err).Str("user_id", userID).Str("conn_id", conn.ID()).Msg("Failed to close connection")
	}
}

// SendPersonal delivers msg to userID only. It returns ErrNotConnected when the user
// has no registered connection.
func (r *Registry) SendPersonal(userID string, msg Message) error {
	return r.sendTo(userID, nil, msg)
}

// SendToHandle delivers msg to userID only while it is still served by conn.
func (r *Registry) SendToHandle(userID string, conn Conn, msg Message) error {
	return r.sendTo(userID, conn, msg)
}

func (r *Registry) sendTo(userID string, expected Conn, msg Message) error {
	data, err := msg.encode()
	if err != nil {
		return err
	}

	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()

	if !ok || (expected != nil && conn != expected) {
		return ErrNotConnected
	}

	if err := conn.Send(data); err != nil {
		metrics.DeliveryFailures.WithLabelValues(msg.Kind()).Inc()
		r.logger.Warn().Err(err).
			Str("user_id", userID).
			Str("msg_type", msg.Kind()).
			Msg("Failed to send personal message")
		return fmt.Errorf("notify: send %s to %s: %w", msg.Kind(), userID, err)
	}

	metrics.MessagesSent.WithLabelValues(msg.Kind()).Inc()
	return nil
}

type registryEntry struct {
	userID string
	conn   Conn
}

// BroadcastExcept sends msg to every registered user except excluded and returns the
// number of successful deliveries. Connections that fail are disconnected afterwards.
func (r *Registry) BroadcastExcept(msg Message, excluded string) (int, error) {
	data, err := msg.encode()
	if err != nil {
		return 0, err
	}

	r.mu.RLock()
	targets := make([]registryEntry, 0, len(r.conns))
	for userID, conn := range r.conns {
		if userID != excluded {
			targets = append(targets, registryEntry{userID: userID, conn: conn})
		}
	}
	r.mu.RUnlock()

	delivered := 0
	var failed []registryEntry

	for _, target := range targets {
		if err := target.conn.Send(data); err != nil {
			r.logger.Warn().Err(err).
				Str("user_id", target.userID).
				Str("msg_type", msg.Kind()).
				Msg("Broadcast delivery failed")
			metrics.DeliveryFailures.WithLabelValues(msg.Kind()).Inc()
			failed = append(failed, target)
			continue
		}
		delivered++
	}

	for _, target := range failed {
		r.DisconnectHandle(target.userID, target.conn)
	}

	metrics.MessagesSent.WithLabelValues(msg.Kind()).Add(float64(delivered))
	metrics.BroadcastRecipients.Observe(float64(delivered))

	return delivered, nil
}

// Snapshot returns the number of registered users and their ids in sorted order.
func (r *Registry) Snapshot() Status {
	r.mu.RLock()
	users := make([]string, 0, len(r.conns))
	for userID := range r.conns {
		users = append(users, userID)
	}
	r.mu.RUnlock()

	sort.Strings(users)

	return Status{
		ActiveConnections: len(users),
		ConnectedUsers:    users,
	}
}

// Shutdown closes every registered connection with CloseGoingAway and empties the
// registry. It then waits, until ctx is done, for handles that expose a Done channel
// to finish writing their close frame.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()

	r.logger.Info().Int("active_connections", len(r.conns)).Msg("Closing all connections...")

	var pending []<-chan struct{}
	for userID, conn := range r.conns {
		r.closeConn(conn, userID, websocket.CloseGoingAway, shutdownReason)
		if d, ok := conn.(interface{ Done() <-chan struct{} }); ok {
			pending = append(pending, d.Done())
		}
	}

	r.conns = make(map[string]Conn)
	metrics.ActiveConnections.Set(0)
	r.mu.Unlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			r.logger.Warn().Int("connections", len(pending)).Msg("Registry shutdown deadline reached before all close frames were written.")
			return ctx.Err()
		}
	}

	r.logger.Info().Msg("Registry shutdown complete.")
	return nil
}
