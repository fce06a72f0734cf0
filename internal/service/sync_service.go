// Package service wires the remote client and the local cache together and
// exposes the operations the presentation layer calls.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"elfkoelsch/internal/aggregate"
	"elfkoelsch/internal/cache"
	"elfkoelsch/internal/codec"
	"elfkoelsch/internal/models"
	"elfkoelsch/internal/observability"
)

// Backend is the remote surface the sync service drives. Implemented by
// remote.Client.
type Backend interface {
	CreateProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error)
	FetchProfiles(ctx context.Context, ids []uuid.UUID) ([]models.UserProfile, error)

	CreateBeerSession(ctx context.Context, s models.BeerSession) (models.BeerSession, error)
	UpdateBeerSession(ctx context.Context, id uuid.UUID, updates codec.Record) (models.BeerSession, error)
	ListActiveSessions(ctx context.Context) ([]models.BeerSession, error)

	CreateFriendship(ctx context.Context, f models.Friendship) (models.Friendship, error)
	UpdateFriendship(ctx context.Context, id uuid.UUID, updates codec.Record) (models.Friendship, error)
	DeleteFriendship(ctx context.Context, id uuid.UUID) error
	ListFriendships(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)

	CreateEvent(ctx context.Context, e models.Event) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)

	ListVenues(ctx context.Context) ([]models.KoelschLocation, error)
}

var (
	profileWrites    = observability.NewSyncLogger("user_profiles")
	sessionWrites    = observability.NewSyncLogger("beer_sessions")
	friendshipWrites = observability.NewSyncLogger("friendships")
	eventWrites      = observability.NewSyncLogger("events")
)

// SyncService reconciles the local cache against the backend and computes
// the derived views. Mutations are write-through: the backend is updated
// first, the stored row then overwrites the cache. A per-entity-id guard
// keeps concurrent mutations of the same row from losing updates.
type SyncService struct {
	backend Backend
	store   cache.Store
	logger  *observability.Logger
	now     func() time.Time

	mu       sync.Mutex
	inflight map[uuid.UUID]*sync.Mutex
}

// NewSyncService returns a SyncService over the given backend and store.
func NewSyncService(backend Backend, store cache.Store, logger *observability.Logger) *SyncService {
	return &SyncService{
		backend:  backend,
		store:    store,
		logger:   logger,
		now:      time.Now,
		inflight: make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockID serializes mutations per entity id.
func (s *SyncService) lockID(id uuid.UUID) func() {
	s.mu.Lock()
	m, ok := s.inflight[id]
	if !ok {
		m = &sync.Mutex{}
		s.inflight[id] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Refresh pulls the user's friendships, the profiles they reference, all
// active sessions, the events list and the venue directory into the cache.
// Conflict resolution is simple overwrite. Friendship edges that vanished
// remotely (declined elsewhere) are pruned from the cache, and cached active
// sessions absent from the pull are marked completed so a friend who ended
// their session remotely stops counting as drinking.
func (s *SyncService) Refresh(ctx context.Context, userID uuid.UUID) error {
	start := s.now()
	defer func() {
		observability.SyncRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	friendships, err := s.backend.ListFriendships(ctx, userID)
	if err != nil {
		return err
	}

	remoteIDs := make(map[uuid.UUID]bool, len(friendships))
	profileIDs := map[uuid.UUID]bool{userID: true}
	for _, f := range friendships {
		remoteIDs[f.ID] = true
		profileIDs[f.OtherSide(userID)] = true
		if err := s.store.PutFriendship(ctx, f); err != nil {
			return err
		}
	}

	stale, err := s.store.ListFriendships(ctx, func(f models.Friendship) bool {
		return f.Involves(userID) && !remoteIDs[f.ID]
	})
	if err != nil {
		return err
	}
	for _, f := range stale {
		if err := s.store.DeleteFriendship(ctx, f.ID); err != nil {
			return err
		}
	}

	ids := make([]uuid.UUID, 0, len(profileIDs))
	for id := range profileIDs {
		ids = append(ids, id)
	}
	profiles, err := s.backend.FetchProfiles(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if err := s.store.PutProfile(ctx, p); err != nil {
			return err
		}
	}

	sessions, err := s.backend.ListActiveSessions(ctx)
	if err != nil {
		return err
	}
	activeIDs := make(map[uuid.UUID]bool, len(sessions))
	for _, sess := range sessions {
		activeIDs[sess.ID] = true
		if err := s.store.PutSession(ctx, sess); err != nil {
			return err
		}
	}

	ended, err := s.store.ListSessions(ctx, func(sess models.BeerSession) bool {
		return sess.Status == models.SessionStatusActive && !activeIDs[sess.ID]
	})
	if err != nil {
		return err
	}
	for _, sess := range ended {
		sess.Status = models.SessionStatusCompleted
		if err := s.store.PutSession(ctx, sess); err != nil {
			return err
		}
	}

	events, err := s.backend.ListEvents(ctx)
	if err != nil {
		return err
	}
	for _, e := range events {
		if err := s.store.PutEvent(ctx, e); err != nil {
			return err
		}
	}

	venues, err := s.backend.ListVenues(ctx)
	if err != nil {
		return err
	}
	for _, v := range venues {
		if err := s.store.PutVenue(ctx, v); err != nil {
			return err
		}
	}

	s.updateGauges(ctx)
	s.logger.Info("cache refreshed",
		"friendships", len(friendships),
		"profiles", len(profiles),
		"active_sessions", len(sessions),
		"events", len(events),
		"venues", len(venues),
	)
	return nil
}

func (s *SyncService) updateGauges(ctx context.Context) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return
	}
	observability.CacheEntities.WithLabelValues("user_profiles").Set(float64(len(snap.Profiles)))
	observability.CacheEntities.WithLabelValues("friendships").Set(float64(len(snap.Friendships)))
	observability.CacheEntities.WithLabelValues("beer_sessions").Set(float64(len(snap.Sessions)))
	observability.CacheEntities.WithLabelValues("events").Set(float64(len(snap.Events)))
	observability.CacheEntities.WithLabelValues("koelsch_locations").Set(float64(len(snap.Venues)))
}

// StartSession creates an active session for the user at the given venue.
// EndsAt is computed from the duration at creation time.
func (s *SyncService) StartSession(
	ctx context.Context,
	userID, locationID uuid.UUID,
	duration models.SessionDuration,
	message string,
	latitude, longitude *float64,
) (models.BeerSession, error) {
	now := s.now()

	var messagePtr *string
	if message != "" {
		messagePtr = &message
	}

	session := models.BeerSession{
		ID:         uuid.New(),
		UserID:     userID,
		LocationID: locationID,
		Duration:   duration,
		StartedAt:  now,
		EndsAt:     aggregate.SessionEnd(duration, now),
		Status:     models.SessionStatusActive,
		Message:    messagePtr,
		CreatedAt:  now,
		Latitude:   latitude,
		Longitude:  longitude,
	}

	stored, err := s.backend.CreateBeerSession(ctx, session)
	if err != nil {
		return models.BeerSession{}, err
	}
	if err := s.store.PutSession(ctx, stored); err != nil {
		return models.BeerSession{}, err
	}
	sessionWrites.LogWrite("create", stored.ID.String())
	return stored, nil
}

// AddBeer bumps the beer counter of a session by one.
func (s *SyncService) AddBeer(ctx context.Context, sessionID uuid.UUID) (models.BeerSession, error) {
	defer s.lockID(sessionID)()

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return models.BeerSession{}, err
	}

	stored, err := s.backend.UpdateBeerSession(ctx, sessionID, codec.Record{
		"beer_count": session.BeerCount + 1,
	})
	if err != nil {
		return models.BeerSession{}, err
	}
	if err := s.store.PutSession(ctx, stored); err != nil {
		return models.BeerSession{}, err
	}
	sessionWrites.LogWrite("add_beer", stored.ID.String())
	return stored, nil
}

// EndSession transitions a session to completed. Expiry by timeout is the
// caller's concern; this is the explicit end only.
func (s *SyncService) EndSession(ctx context.Context, sessionID uuid.UUID) (models.BeerSession, error) {
	defer s.lockID(sessionID)()

	stored, err := s.backend.UpdateBeerSession(ctx, sessionID, codec.Record{
		"status": string(models.SessionStatusCompleted),
	})
	if err != nil {
		return models.BeerSession{}, err
	}
	if err := s.store.PutSession(ctx, stored); err != nil {
		return models.BeerSession{}, err
	}
	sessionWrites.LogWrite("end", stored.ID.String())
	return stored, nil
}

// SendFriendRequest creates a pending edge from userID to friendID. At most
// one edge per unordered pair is kept locally; the backend is authoritative.
func (s *SyncService) SendFriendRequest(ctx context.Context, userID, friendID uuid.UUID) (models.Friendship, error) {
	if userID == friendID {
		return models.Friendship{}, models.NewValidationError("Du kannst dich nicht selbst als Freund hinzufügen")
	}

	existing, err := s.store.ListFriendships(ctx, func(f models.Friendship) bool {
		return f.Involves(userID) && f.Involves(friendID)
	})
	if err != nil {
		return models.Friendship{}, err
	}
	if len(existing) > 0 {
		if existing[0].Status == models.FriendshipStatusAccepted {
			return models.Friendship{}, models.NewValidationError("Ihr seid bereits Freunde")
		}
		return models.Friendship{}, models.NewValidationError("Es gibt bereits eine offene Freundschaftsanfrage")
	}

	now := s.now()
	friendship := models.Friendship{
		ID:        uuid.New(),
		UserID:    userID,
		FriendID:  friendID,
		Status:    models.FriendshipStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := s.backend.CreateFriendship(ctx, friendship)
	if err != nil {
		return models.Friendship{}, err
	}
	if err := s.store.PutFriendship(ctx, stored); err != nil {
		return models.Friendship{}, err
	}
	friendshipWrites.LogWrite("request", stored.ID.String())
	return stored, nil
}

// AcceptFriendRequest marks a pending edge accepted.
func (s *SyncService) AcceptFriendRequest(ctx context.Context, friendshipID uuid.UUID) (models.Friendship, error) {
	defer s.lockID(friendshipID)()

	friendship, err := s.store.GetFriendship(ctx, friendshipID)
	if err != nil {
		return models.Friendship{}, err
	}
	if friendship.Status == models.FriendshipStatusAccepted {
		return models.Friendship{}, models.NewValidationError("Die Anfrage wurde bereits angenommen")
	}

	stored, err := s.backend.UpdateFriendship(ctx, friendshipID, codec.Record{
		"status":     string(models.FriendshipStatusAccepted),
		"updated_at": s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return models.Friendship{}, err
	}
	if err := s.store.PutFriendship(ctx, stored); err != nil {
		return models.Friendship{}, err
	}
	friendshipWrites.LogWrite("accept", stored.ID.String())
	return stored, nil
}

// DeclineFriendRequest deletes the edge, remote first.
func (s *SyncService) DeclineFriendRequest(ctx context.Context, friendshipID uuid.UUID) error {
	defer s.lockID(friendshipID)()

	if err := s.backend.DeleteFriendship(ctx, friendshipID); err != nil {
		return err
	}
	if err := s.store.DeleteFriendship(ctx, friendshipID); err != nil {
		return err
	}
	friendshipWrites.LogWrite("decline", friendshipID.String())
	return nil
}

// CreateEvent creates an event owned by the user.
func (s *SyncService) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if e.Title == "" {
		return models.Event{}, models.NewValidationError("Titel ist erforderlich")
	}
	if !e.EndDate.After(e.StartDate) {
		return models.Event{}, models.NewValidationError("Das Ende muss nach dem Beginn liegen")
	}

	now := s.now()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	stored, err := s.backend.CreateEvent(ctx, e)
	if err != nil {
		return models.Event{}, err
	}
	if err := s.store.PutEvent(ctx, stored); err != nil {
		return models.Event{}, err
	}
	eventWrites.LogWrite("create", stored.ID.String())
	return stored, nil
}

// UpdateProfile overwrites the user's profile.
func (s *SyncService) UpdateProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	defer s.lockID(p.ID)()

	p.UpdatedAt = s.now()
	stored, err := s.backend.UpdateProfile(ctx, p)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := s.store.PutProfile(ctx, stored); err != nil {
		return models.UserProfile{}, err
	}
	profileWrites.LogWrite("update", stored.ID.String())
	return stored, nil
}

// ConfirmedFriends derives the accepted-friends list for the user.
func (s *SyncService) ConfirmedFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendData, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.ConfirmedFriends(snap.Friendships, snap.Profiles, snap.Sessions, userID), nil
}

// PendingFriendRequests derives the open-requests list for the user.
func (s *SyncService) PendingFriendRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequestData, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.PendingFriendRequests(snap.Friendships, snap.Profiles, userID), nil
}

// ActiveFriendSessions derives the map markers for the user.
func (s *SyncService) ActiveFriendSessions(ctx context.Context, userID uuid.UUID) ([]models.ActiveBeerSession, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.ActiveFriendSessions(snap.Friendships, snap.Profiles, snap.Sessions, snap.Venues, userID), nil
}

// FilteredEvents derives the events list for a timeframe selector.
func (s *SyncService) FilteredEvents(ctx context.Context, timeframe aggregate.Timeframe) ([]models.Event, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.FilterEvents(snap.Events, timeframe, s.now()), nil
}
