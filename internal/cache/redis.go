package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"elfkoelsch/internal/models"
)

// RedisStore keeps the cache in a Redis hash per table so the daemon
// survives a restart without a full re-sync. Same semantics as MemoryStore.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient creates a client from either a redis:// URL or a bare
// host:port address and verifies the connection.
func NewRedisClient(addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, keyPrefix: "elfkoelsch:"}
}

func (s *RedisStore) key(table string) string {
	return s.keyPrefix + table
}

func (s *RedisStore) put(ctx context.Context, table string, id uuid.UUID, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key(table), id.String(), raw).Err()
}

func (s *RedisStore) get(ctx context.Context, table string, id uuid.UUID, out any, resource string) error {
	raw, err := s.client.HGet(ctx, s.key(table), id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return models.NewNotFoundError(resource, id)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *RedisStore) delete(ctx context.Context, table string, id uuid.UUID) error {
	return s.client.HDel(ctx, s.key(table), id.String()).Err()
}

func (s *RedisStore) all(ctx context.Context, table string) ([]string, error) {
	rows, err := s.client.HGetAll(ctx, s.key(table)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, raw := range rows {
		out = append(out, raw)
	}
	return out, nil
}

func (s *RedisStore) PutProfile(ctx context.Context, p models.UserProfile) error {
	return s.put(ctx, "user_profiles", p.ID, p)
}

func (s *RedisStore) GetProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	var p models.UserProfile
	if err := s.get(ctx, "user_profiles", id, &p, "UserProfile"); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

func (s *RedisStore) ListProfiles(ctx context.Context, match func(models.UserProfile) bool) ([]models.UserProfile, error) {
	rows, err := s.all(ctx, "user_profiles")
	if err != nil {
		return nil, err
	}
	out := make([]models.UserProfile, 0, len(rows))
	for _, raw := range rows {
		var p models.UserProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			continue
		}
		if match == nil || match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *RedisStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, "user_profiles", id)
}

func (s *RedisStore) PutFriendship(ctx context.Context, f models.Friendship) error {
	return s.put(ctx, "friendships", f.ID, f)
}

func (s *RedisStore) GetFriendship(ctx context.Context, id uuid.UUID) (models.Friendship, error) {
	var f models.Friendship
	if err := s.get(ctx, "friendships", id, &f, "Friendship"); err != nil {
		return models.Friendship{}, err
	}
	return f, nil
}

func (s *RedisStore) ListFriendships(ctx context.Context, match func(models.Friendship) bool) ([]models.Friendship, error) {
	rows, err := s.all(ctx, "friendships")
	if err != nil {
		return nil, err
	}
	out := make([]models.Friendship, 0, len(rows))
	for _, raw := range rows {
		var f models.Friendship
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		if match == nil || match(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *RedisStore) DeleteFriendship(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, "friendships", id)
}

func (s *RedisStore) PutSession(ctx context.Context, sess models.BeerSession) error {
	return s.put(ctx, "beer_sessions", sess.ID, sess)
}

func (s *RedisStore) GetSession(ctx context.Context, id uuid.UUID) (models.BeerSession, error) {
	var sess models.BeerSession
	if err := s.get(ctx, "beer_sessions", id, &sess, "BeerSession"); err != nil {
		return models.BeerSession{}, err
	}
	return sess, nil
}

func (s *RedisStore) ListSessions(ctx context.Context, match func(models.BeerSession) bool) ([]models.BeerSession, error) {
	rows, err := s.all(ctx, "beer_sessions")
	if err != nil {
		return nil, err
	}
	out := make([]models.BeerSession, 0, len(rows))
	for _, raw := range rows {
		var sess models.BeerSession
		if err := json.Unmarshal([]byte(raw), &sess); err != nil {
			continue
		}
		if match == nil || match(sess) {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, "beer_sessions", id)
}

func (s *RedisStore) PutEvent(ctx context.Context, e models.Event) error {
	return s.put(ctx, "events", e.ID, e)
}

func (s *RedisStore) GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	var e models.Event
	if err := s.get(ctx, "events", id, &e, "Event"); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *RedisStore) ListEvents(ctx context.Context, match func(models.Event) bool) ([]models.Event, error) {
	rows, err := s.all(ctx, "events")
	if err != nil {
		return nil, err
	}
	out := make([]models.Event, 0, len(rows))
	for _, raw := range rows {
		var e models.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		if match == nil || match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *RedisStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, "events", id)
}

func (s *RedisStore) PutVenue(ctx context.Context, v models.KoelschLocation) error {
	return s.put(ctx, "koelsch_locations", v.ID, v)
}

func (s *RedisStore) GetVenue(ctx context.Context, id uuid.UUID) (models.KoelschLocation, error) {
	var v models.KoelschLocation
	if err := s.get(ctx, "koelsch_locations", id, &v, "KoelschLocation"); err != nil {
		return models.KoelschLocation{}, err
	}
	return v, nil
}

func (s *RedisStore) ListVenues(ctx context.Context, match func(models.KoelschLocation) bool) ([]models.KoelschLocation, error) {
	rows, err := s.all(ctx, "koelsch_locations")
	if err != nil {
		return nil, err
	}
	out := make([]models.KoelschLocation, 0, len(rows))
	for _, raw := range rows {
		var v models.KoelschLocation
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *RedisStore) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Profiles, err = s.ListProfiles(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Friendships, err = s.ListFriendships(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Sessions, err = s.ListSessions(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Events, err = s.ListEvents(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Venues, err = s.ListVenues(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
