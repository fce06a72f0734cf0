package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"elfkoelsch/internal/models"
)

// MemoryStore is the default in-memory Store. Safe for concurrent use; no
// persistence beyond process lifetime.
type MemoryStore struct {
	mu          sync.RWMutex
	profiles    map[uuid.UUID]models.UserProfile
	friendships map[uuid.UUID]models.Friendship
	sessions    map[uuid.UUID]models.BeerSession
	events      map[uuid.UUID]models.Event
	venues      map[uuid.UUID]models.KoelschLocation
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[uuid.UUID]models.UserProfile),
		friendships: make(map[uuid.UUID]models.Friendship),
		sessions:    make(map[uuid.UUID]models.BeerSession),
		events:      make(map[uuid.UUID]models.Event),
		venues:      make(map[uuid.UUID]models.KoelschLocation),
	}
}

func (s *MemoryStore) PutProfile(_ context.Context, p models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return nil
}

func (s *MemoryStore) GetProfile(_ context.Context, id uuid.UUID) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.UserProfile{}, models.NewNotFoundError("UserProfile", id)
	}
	return p, nil
}

func (s *MemoryStore) ListProfiles(_ context.Context, match func(models.UserProfile) bool) ([]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if match == nil || match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteProfile(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	return nil
}

func (s *MemoryStore) PutFriendship(_ context.Context, f models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendships[f.ID] = f
	return nil
}

func (s *MemoryStore) GetFriendship(_ context.Context, id uuid.UUID) (models.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.friendships[id]
	if !ok {
		return models.Friendship{}, models.NewNotFoundError("Friendship", id)
	}
	return f, nil
}

func (s *MemoryStore) ListFriendships(_ context.Context, match func(models.Friendship) bool) ([]models.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Friendship, 0, len(s.friendships))
	for _, f := range s.friendships {
		if match == nil || match(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteFriendship(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.friendships, id)
	return nil
}

func (s *MemoryStore) PutSession(_ context.Context, sess models.BeerSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (models.BeerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return models.BeerSession{}, models.NewNotFoundError("BeerSession", id)
	}
	return sess, nil
}

func (s *MemoryStore) ListSessions(_ context.Context, match func(models.BeerSession) bool) ([]models.BeerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BeerSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if match == nil || match(sess) {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) PutEvent(_ context.Context, e models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
	return nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id uuid.UUID) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return models.Event{}, models.NewNotFoundError("Event", id)
	}
	return e, nil
}

func (s *MemoryStore) ListEvents(_ context.Context, match func(models.Event) bool) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if match == nil || match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteEvent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	return nil
}

func (s *MemoryStore) PutVenue(_ context.Context, v models.KoelschLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[v.ID] = v
	return nil
}

func (s *MemoryStore) GetVenue(_ context.Context, id uuid.UUID) (models.KoelschLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.venues[id]
	if !ok {
		return models.KoelschLocation{}, models.NewNotFoundError("KoelschLocation", id)
	}
	return v, nil
}

func (s *MemoryStore) ListVenues(_ context.Context, match func(models.KoelschLocation) bool) ([]models.KoelschLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.KoelschLocation, 0, len(s.venues))
	for _, v := range s.venues {
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Profiles:    make([]models.UserProfile, 0, len(s.profiles)),
		Friendships: make([]models.Friendship, 0, len(s.friendships)),
		Sessions:    make([]models.BeerSession, 0, len(s.sessions)),
		Events:      make([]models.Event, 0, len(s.events)),
		Venues:      make([]models.KoelschLocation, 0, len(s.venues)),
	}
	for _, p := range s.profiles {
		snap.Profiles = append(snap.Profiles, p)
	}
	for _, f := range s.friendships {
		snap.Friendships = append(snap.Friendships, f)
	}
	for _, sess := range s.sessions {
		snap.Sessions = append(snap.Sessions, sess)
	}
	for _, e := range s.events {
		snap.Events = append(snap.Events, e)
	}
	for _, v := range s.venues {
		snap.Venues = append(snap.Venues, v)
	}
	return snap, nil
}
