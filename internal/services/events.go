package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/myflix/movieapi/internal/logging"
)

// Channels events are published on.
const (
	UsersChannel  = "myflix.users"
	MoviesChannel = "myflix.movies"
)

// Event types.
const (
	EventUserCreated     = "user.created"
	EventUserUpdated     = "user.updated"
	EventUserDeleted     = "user.deleted"
	EventFavoriteAdded   = "favorite.added"
	EventFavoriteRemoved = "favorite.removed"
	EventMovieCreated    = "movie.created"
	EventMovieUpdated    = "movie.updated"
	EventMovieDeleted    = "movie.deleted"
)

// EventPublisher is the broker side the services publish to. *mq.MQ satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Event is the JSON payload of every published message.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	MovieID    string    `json:"movie_id,omitempty"`
	MovieTitle string    `json:"movie_title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// emitter publishes events best-effort; a nil publisher disables publishing.
type emitter struct {
	publisher EventPublisher
	logger    logging.Logger
}

func (e emitter) emit(ctx context.Context, channel string, event Event) {
	if e.publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	data, err := json.Marshal(event)
	if err != nil {
		e.logger.Error(ctx, "encode event failed", "type", event.Type, "error", err)
		return
	}
	attrs := map[string]string{"type": event.Type}
	if _, err := e.publisher.Publish(ctx, channel, data, attrs); err != nil {
		e.logger.Warn(ctx, "publish event failed", "type", event.Type, "channel", channel, "error", err)
	}
}
