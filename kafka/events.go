package kafka

import "time"

// FavouriteAddedEvent is the insertion notification emitted when a new
// favourite edge is committed. EventID is the idempotency key consumers
// use to collapse at-least-once redelivery.
type FavouriteAddedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Username  string    `json:"username"`
	MovieID   uint      `json:"movie_id"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRegisteredEvent is emitted when a new user record is committed
type UserRegisteredEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeFavouriteAdded = "favourite.added"
	EventTypeUserRegistered = "user.registered"
)

// Kafka topics
const (
	TopicFavouriteAdded = "favourite-added"
	TopicUserRegistered = "user-registered"
)
