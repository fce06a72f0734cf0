package cache

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"elfkoelsch/internal/models"
)

// SQLiteStore is the durable local cache, the on-device database the mobile
// shell keeps between launches. Predicates run in Go over the loaded rows;
// the table sizes here are a single user's social graph, not a server's.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates the
// entity schema. Use ":memory:" for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Friendship{},
		&models.BeerSession{},
		&models.Event{},
		&models.KoelschLocation{},
	); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func notFound(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

func (s *SQLiteStore) PutProfile(ctx context.Context, p models.UserProfile) error {
	return s.db.WithContext(ctx).Save(&p).Error
}

func (s *SQLiteStore) GetProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	var p models.UserProfile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return models.UserProfile{}, notFound(err, "UserProfile", id)
	}
	return p, nil
}

func (s *SQLiteStore) ListProfiles(ctx context.Context, match func(models.UserProfile) bool) ([]models.UserProfile, error) {
	var rows []models.UserProfile
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	if match == nil {
		return rows, nil
	}
	out := rows[:0]
	for _, p := range rows {
		if match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *SQLiteStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.UserProfile{}, "id = ?", id).Error
}

func (s *SQLiteStore) PutFriendship(ctx context.Context, f models.Friendship) error {
	return s.db.WithContext(ctx).Save(&f).Error
}

func (s *SQLiteStore) GetFriendship(ctx context.Context, id uuid.UUID) (models.Friendship, error) {
	var f models.Friendship
	if err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return models.Friendship{}, notFound(err, "Friendship", id)
	}
	return f, nil
}

func (s *SQLiteStore) ListFriendships(ctx context.Context, match func(models.Friendship) bool) ([]models.Friendship, error) {
	var rows []models.Friendship
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	if match == nil {
		return rows, nil
	}
	out := rows[:0]
	for _, f := range rows {
		if match(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *SQLiteStore) DeleteFriendship(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Friendship{}, "id = ?", id).Error
}

func (s *SQLiteStore) PutSession(ctx context.Context, sess models.BeerSession) error {
	return s.db.WithContext(ctx).Save(&sess).Error
}

func (s *SQLiteStore) GetSession(ctx context.Context, id uuid.UUID) (models.BeerSession, error) {
	var sess models.BeerSession
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error; err != nil {
		return models.BeerSession{}, notFound(err, "BeerSession", id)
	}
	return sess, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, match func(models.BeerSession) bool) ([]models.BeerSession, error) {
	var rows []models.BeerSession
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	if match == nil {
		return rows, nil
	}
	out := rows[:0]
	for _, sess := range rows {
		if match(sess) {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.BeerSession{}, "id = ?", id).Error
}

func (s *SQLiteStore) PutEvent(ctx context.Context, e models.Event) error {
	return s.db.WithContext(ctx).Save(&e).Error
}

func (s *SQLiteStore) GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	var e models.Event
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return models.Event{}, notFound(err, "Event", id)
	}
	return e, nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context, match func(models.Event) bool) ([]models.Event, error) {
	var rows []models.Event
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	if match == nil {
		return rows, nil
	}
	out := rows[:0]
	for _, e := range rows {
		if match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *SQLiteStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error
}

func (s *SQLiteStore) PutVenue(ctx context.Context, v models.KoelschLocation) error {
	return s.db.WithContext(ctx).Save(&v).Error
}

func (s *SQLiteStore) GetVenue(ctx context.Context, id uuid.UUID) (models.KoelschLocation, error) {
	var v models.KoelschLocation
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return models.KoelschLocation{}, notFound(err, "KoelschLocation", id)
	}
	return v, nil
}

func (s *SQLiteStore) ListVenues(ctx context.Context, match func(models.KoelschLocation) bool) ([]models.KoelschLocation, error) {
	var rows []models.KoelschLocation
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	if match == nil {
		return rows, nil
	}
	out := rows[:0]
	for _, v := range rows {
		if match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *SQLiteStore) Snapshot(ctx context.Context) (Snapshot, error) {
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
