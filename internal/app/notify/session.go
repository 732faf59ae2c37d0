package notify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"moviehub/internal/app/user"
	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/errs"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/metrics"
	"moviehub/internal/pkg/worker"
)

// State is the lifecycle position of a session.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticating
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const authFailedReason = "Authentication failed"

// Dispatcher runs session work off the read loop. Jobs sharing a key run in
// submission order, which keeps everything one user's session produces in order.
type Dispatcher interface {
	SubmitKeyed(key string, job worker.Job) error
	SubmitKeyedWait(ctx context.Context, key string, job worker.Job) error
}

// SessionConfig wires a session to its collaborators.
type SessionConfig struct {
	// UserID is the id claimed by the connection path. When set it must match
	// the validated identity.
	UserID string

	// Token is the credential presented on the upgrade request.
	Token string

	Peer       Peer
	Validator  auth.Validator
	Registry   *Registry
	Notifier   *Notifier
	Dispatcher Dispatcher
}

// Session drives one connection from authentication to teardown.
type Session struct {
	cfg    SessionConfig
	user   user.User
	state  atomic.Int32
	logger zerolog.Logger
}

// NewSession returns a session in StateConnecting.
func NewSession(cfg SessionConfig) *Session {
	return &Session{
		cfg: cfg,
		logger: logx.Logger().With().
			Str("component", "Session").
			Str("conn_id", cfg.Peer.ID()).
			Str("user_id", cfg.UserID).
			Logger(),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) transition(to State) {
	from := State(s.state.Swap(int32(to)))
	s.logger.Debug().Stringer("from", from).Stringer("to", to).Msg("Session state changed")
}

// Run authenticates the peer, registers it and processes frames until the connection
// ends. The registry entry of this peer is released exactly once on the way out.
func (s *Session) Run(ctx context.Context) {
	defer s.terminate()

	s.transition(StateAuthenticating)
	if !s.authenticate(ctx) {
		return
	}

	s.transition(StateActive)
	metrics.ConnectionAttempts.WithLabelValues("accepted").Inc()

	if err := s.cfg.Registry.Connect(s.cfg.Peer, s.user.ID); err != nil {
		s.logger.Warn().Err(err).Msg("Welcome message not delivered")
	}

	for {
		data, err := s.cfg.Peer.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			} else {
				s.logger.Debug().Err(err).Msg("Read loop ended")
			}
			return
		}

		s.handleFrame(ctx, data)
	}
}

func (s *Session) authenticate(ctx context.Context) bool {
	reject := func(err error, msg string) bool {
		metrics.ConnectionAttempts.WithLabelValues("unauthorized").Inc()
		s.logger.Warn().Err(err).Msg(msg)
		if closeErr := s.cfg.Peer.Close(websocket.ClosePolicyViolation, authFailedReason); closeErr != nil {
			s.logger.Debug().Err(closeErr).Msg("Close after failed authentication")
		}
		return false
	}

	if s.cfg.Token == "" {
		return reject(auth.ErrUnauthorized, "Connection without credential")
	}

	u, err := s.cfg.Validator.Validate(ctx, s.cfg.Token)
	if err != nil {
		return reject(err, "Credential rejected")
	}

	if s.cfg.UserID != "" && u.ID != s.cfg.UserID {
		return reject(auth.ErrUnauthorized, "Credential belongs to a different user")
	}

	s.user = u
	s.logger = s.logger.With().Str("user_id", u.ID).Logger()
	return true
}

func (s *Session) terminate() {
	s.transition(StateClosing)

	if s.user.ID == "" || !s.cfg.Registry.DisconnectHandle(s.user.ID, s.cfg.Peer) {
		if err := s.cfg.Peer.Close(websocket.CloseNormalClosure, ""); err != nil && !errors.Is(err, ErrAlreadyClosed) {
			s.logger.Debug().Err(err).Msg("Close on teardown")
		}
	}

	s.transition(StateClosed)
}

func (s *Session) handleFrame(ctx context.Context, data []byte) {
	msg, err := decodeInbound(data)
	if err != nil {
		metrics.InboundMessages.WithLabelValues("malformed").Inc()
		s.logger.Warn().Err(err).Int("size", len(data)).Msg("Client sent invalid JSON")
		s.replyError(ctx, errs.NewError(errs.ErrMalformedMessage))
		return
	}

	switch msg.Type {
	case TypePing:
		metrics.InboundMessages.WithLabelValues(string(TypePing)).Inc()
		s.reply(ctx, NewPong(msg.Timestamp))

	case TypeFavoriteMovie:
		metrics.InboundMessages.WithLabelValues(string(TypeFavoriteMovie)).Inc()
		s.handleFavorite(ctx, msg)

	default:
		metrics.InboundMessages.WithLabelValues("unknown").Inc()
		s.logger.Warn().Str("msg_type", string(msg.Type)).Msg("Client sent unsupported message type")
		s.replyError(ctx, errs.NewError(errs.ErrUnknownMessageType, msg.Type))
	}
}

func (s *Session) handleFavorite(ctx context.Context, msg inboundMessage) {
	if !hasMoviePayload(msg.Movie) {
		s.logger.Debug().Msg("favorite_movie without movie payload ignored")
		return
	}

	displayName := UnknownUserName
	if msg.UserName != nil && strings.TrimSpace(*msg.UserName) != "" {
		displayName = *msg.UserName
	}

	ev := FavoriteEvent{
		UserID:      s.user.ID,
		Movie:       msg.Movie,
		DisplayName: displayName,
	}

	job := func(jobCtx context.Context) {
		s.cfg.Notifier.HandleFavorite(jobCtx, ev)
	}

	if s.cfg.Dispatcher == nil {
		job(ctx)
		return
	}

	if err := s.cfg.Dispatcher.SubmitKeyed(s.user.ID, job); err != nil {
		s.logger.Warn().Err(err).Msg("Favorite dispatch rejected")
		s.replyError(ctx, errs.NewError(errs.ErrServerBusy))
	}
}

// reply answers the sender on this connection only. It queues behind any
// favorite fan-out this user still has pending, waiting for a lane slot if needed.
func (s *Session) reply(ctx context.Context, msg Message) {
	send := func(context.Context) {
		if err := s.cfg.Registry.SendToHandle(s.user.ID, s.cfg.Peer, msg); err != nil {
			s.logger.Debug().Err(err).Str("msg_type", msg.Kind()).Msg("Reply not delivered")
		}
	}

	if s.cfg.Dispatcher == nil {
		send(ctx)
		return
	}

	if err := s.cfg.Dispatcher.SubmitKeyedWait(ctx, s.user.ID, send); err != nil {
		s.logger.Debug().Err(err).Str("msg_type", msg.Kind()).Msg("Reply dispatch failed, sending directly")
		send(ctx)
	}
}

func (s *Session) replyError(ctx context.Context, err *errs.CustomError) {
	s.reply(ctx, NewError(err.Message))
}
