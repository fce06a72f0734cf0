// Package cache is the local entity store the sync layer reconciles into and
// the aggregator reads from. The cache owns all entity instances; durability
// depends on the chosen backend (memory, redis, sqlite).
package cache

import (
	"context"

	"github.com/google/uuid"

	"elfkoelsch/internal/models"
)

// Snapshot is a point-in-time copy of every cached entity. The aggregator
// works exclusively on snapshots so a slow derivation never blocks writers.
type Snapshot struct {
	Profiles    []models.UserProfile
	Friendships []models.Friendship
	Sessions    []models.BeerSession
	Events      []models.Event
	Venues      []models.KoelschLocation
}

// Store is the cache contract: insert-or-update, point lookup, delete and
// predicate query per entity type. A nil predicate matches everything.
// Lookups that miss return a NOT_FOUND application error.
type Store interface {
	PutProfile(ctx context.Context, p models.UserProfile) error
	GetProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error)
	ListProfiles(ctx context.Context, match func(models.UserProfile) bool) ([]models.UserProfile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	PutFriendship(ctx context.Context, f models.Friendship) error
	GetFriendship(ctx context.Context, id uuid.UUID) (models.Friendship, error)
	ListFriendships(ctx context.Context, match func(models.Friendship) bool) ([]models.Friendship, error)
	DeleteFriendship(ctx context.Context, id uuid.UUID) error

	PutSession(ctx context.Context, s models.BeerSession) error
	GetSession(ctx context.Context, id uuid.UUID) (models.BeerSession, error)
	ListSessions(ctx context.Context, match func(models.BeerSession) bool) ([]models.BeerSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	PutEvent(ctx context.Context, e models.Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error)
	ListEvents(ctx context.Context, match func(models.Event) bool) ([]models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	PutVenue(ctx context.Context, v models.KoelschLocation) error
	GetVenue(ctx context.Context, id uuid.UUID) (models.KoelschLocation, error)
	ListVenues(ctx context.Context, match func(models.KoelschLocation) bool) ([]models.KoelschLocation, error)

	Snapshot(ctx context.Context) (Snapshot, error)
}
