package notify

import (
	"context"

	"github.com/rs/zerolog"

	"moviehub/internal/pkg/logx"
)

// Notifier turns a favorite event into a confirmation for the actor and a
// notification for everyone else.
type Notifier struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewNotifier returns a Notifier that delivers through registry.
func NewNotifier(registry *Registry) *Notifier {
	return &Notifier{
		registry: registry,
		logger:   logx.Component("Notifier"),
	}
}

// HandleFavorite confirms the favorite to ev.UserID and broadcasts it to all other
// connected users. It returns the number of users the broadcast reached and never fails:
// errors are logged and count as zero recipients.
func (n *Notifier) HandleFavorite(ctx context.Context, ev FavoriteEvent) int {
	title := ev.Title()
	logger := n.logger.With().Str("user_id", ev.UserID).Str("movie_title", title).Logger()

	if err := n.registry.SendPersonal(ev.UserID, NewFavoriteConfirmed(title, ev.Movie)); err != nil {
		logger.Warn().Err(err).Msg("Favorite confirmation not delivered")
	}

	if err := ctx.Err(); err != nil {
		logger.Warn().Err(err).Msg("Favorite broadcast skipped")
		return 0
	}

	displayName := ev.DisplayName
	if displayName == "" {
		displayName = UnknownUserName
	}

	count, err := n.registry.BroadcastExcept(NewFavoriteNotification(displayName, title), ev.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("Favorite broadcast failed")
		return 0
	}

	logger.Info().Int("recipients", count).Msg("Favorite broadcast")
	return count
}
