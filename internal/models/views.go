package models

import (
	"time"

	"github.com/google/uuid"
)

// View-model structures derived from the local cache. They are never
// persisted and are recomputed on every read.

// FriendData is one row of the confirmed-friends list.
type FriendData struct {
	FriendID     uuid.UUID `json:"friend_id"`
	Name         string    `json:"name"`
	IsDrinking   bool      `json:"is_drinking"`
	LastActivity time.Time `json:"last_activity"`
	BeerEmojis   int       `json:"beer_emojis"`
}

// FriendRequestData is one row of the pending-requests list.
type FriendRequestData struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	RequesterID uuid.UUID `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActiveBeerSession is a map marker for a friend's running session.
type ActiveBeerSession struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	UserName     string          `json:"user_name"`
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Duration     SessionDuration `json:"duration"`
	Message      string          `json:"message"`
	BeerCount    int             `json:"beer_count"`
	StartedAt    time.Time       `json:"started_at"`
	EndsAt       time.Time       `json:"ends_at"`
}
