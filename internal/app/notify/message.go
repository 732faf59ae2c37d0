/*
Package notify implements the real-time notification core: the connection registry,
the favorite notifier, the per-connection session loop and the WebSocket client that
serialises writes to one peer.

This file defines the wire messages exchanged with clients.
*/
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MessageType discriminates inbound and outbound messages.
type MessageType string

const (
	TypePing                  MessageType = "ping"
	TypePong                  MessageType = "pong"
	TypeFavoriteMovie         MessageType = "favorite_movie"
	TypeConnectionEstablished MessageType = "connection_established"
	TypeFavoriteConfirmed     MessageType = "favorite_confirmed"
	TypeNewFavorite           MessageType = "new_favorite"
)

const (
	// WelcomeText is sent to every newly registered connection.
	WelcomeText = "Connected to movie notifications!"

	// UnknownUserName is used when a favorite_movie message carries no user_name.
	UnknownUserName = "Unknown User"

	// untitledMovie stands in for a movie payload without a title.
	untitledMovie = "a movie"
)

// Message is an outbound message. Error messages carry only the Error field.
type Message struct {
	Type      MessageType     `json:"type,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Movie     json.RawMessage `json:"movie,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Kind returns the message type used for logging and metrics labels.
func (m Message) Kind() string {
	if m.Type == "" && m.Error != "" {
		return "error"
	}
	return string(m.Type)
}

func (m Message) encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("notify: encode %s message: %w", m.Kind(), err)
	}
	return data, nil
}

// NewConnectionEstablished builds the welcome message.
func NewConnectionEstablished() Message {
	return Message{Type: TypeConnectionEstablished, Message: WelcomeText}
}

// NewPong echoes timestamp back to the sender unchanged.
func NewPong(timestamp json.RawMessage) Message {
	return Message{Type: TypePong, Timestamp: timestamp}
}

// NewFavoriteConfirmed builds the confirmation sent to the user who favorited movie.
func NewFavoriteConfirmed(title string, movie json.RawMessage) Message {
	return Message{
		Type:    TypeFavoriteConfirmed,
		Message: fmt.Sprintf("🎬 You just favorited %s", title),
		Movie:   movie,
	}
}

// NewFavoriteNotification builds the message broadcast to everyone else.
func NewFavoriteNotification(displayName, title string) Message {
	return Message{
		Type:    TypeNewFavorite,
		Message: fmt.Sprintf("🎬 %s just favorited '%s'", displayName, title),
	}
}

// NewError builds an in-band error reply.
func NewError(text string) Message {
	return Message{Error: text}
}

// inboundMessage is the union of all client-to-server message shapes.
type inboundMessage struct {
	Type      MessageType     `json:"type"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Movie     json.RawMessage `json:"movie,omitempty"`
	UserName  *string         `json:"user_name,omitempty"`
}

// decodeInbound parses a client frame. Anything but a JSON object is malformed.
func decodeInbound(data []byte) (inboundMessage, error) {
	var msg inboundMessage

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return msg, fmt.Errorf("notify: frame is not a JSON object")
	}

	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return msg, fmt.Errorf("notify: decode frame: %w", err)
	}
	return msg, nil
}

// FavoriteEvent is the transient input of one favorite fan-out.
type FavoriteEvent struct {
	UserID      string
	Movie       json.RawMessage
	DisplayName string
}

// Title extracts the movie title, falling back to a neutral phrase.
func (e FavoriteEvent) Title() string {
	var movie struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(e.Movie, &movie); err != nil || strings.TrimSpace(movie.Title) == "" {
		return untitledMovie
	}
	return movie.Title
}

// hasMoviePayload reports whether raw is a JSON object.
func hasMoviePayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
