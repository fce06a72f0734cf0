// Package seed fills a local store with demo data for development and
// testing. It never talks to the backend.
package seed

import (
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"elfkoelsch/internal/aggregate"
	"elfkoelsch/internal/models"
)

// Factory builds domain entities with plausible demo content.
type Factory struct {
	rng *rand.Rand
}

// NewFactory creates a Factory. A fixed seed yields reproducible data.
func NewFactory(seed int64) *Factory {
	gofakeit.Seed(seed)
	return &Factory{rng: rand.New(rand.NewSource(seed))}
}

// BuildProfile constructs a user profile without persisting it.
func (f *Factory) BuildProfile(overrides ...func(*models.UserProfile)) models.UserProfile {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	username := gofakeit.Username()

	// created_at spread over the last 90 days
	created := time.Now().Add(-time.Duration(f.rng.Intn(90*24)) * time.Hour)

	profile := models.UserProfile{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  &last,
		Username:  &username,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, fn := range overrides {
		fn(&profile)
	}
	return profile
}

// BuildFriendship links two users. Roughly two thirds come out accepted.
func (f *Factory) BuildFriendship(userID, friendID uuid.UUID, overrides ...func(*models.Friendship)) models.Friendship {
	status := models.FriendshipStatusAccepted
	if f.rng.Intn(3) == 0 {
		status = models.FriendshipStatusPending
	}
	created := time.Now().Add(-time.Duration(f.rng.Intn(30*24)) * time.Hour)

	friendship := models.Friendship{
		ID:        uuid.New(),
		UserID:    userID,
		FriendID:  friendID,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, fn := range overrides {
		fn(&friendship)
	}
	return friendship
}

// BuildSession creates an active session for a user at a venue.
func (f *Factory) BuildSession(userID uuid.UUID, venue models.KoelschLocation, overrides ...func(*models.BeerSession)) models.BeerSession {
	durations := []models.SessionDuration{
		models.Duration30Minutes,
		models.Duration1Hour,
		models.Duration2Hours,
		models.Duration3Hours,
	}
	duration := durations[f.rng.Intn(len(durations))]
	started := time.Now().Add(-time.Duration(f.rng.Intn(25)) * time.Minute)

	var message *string
	if f.rng.Intn(2) == 0 {
		m := gofakeit.Sentence(4)
		message = &m
	}

	session := models.BeerSession{
		ID:         uuid.New(),
		UserID:     userID,
		LocationID: venue.ID,
		Duration:   duration,
		StartedAt:  started,
		EndsAt:     aggregate.SessionEnd(duration, started),
		Status:     models.SessionStatusActive,
		Message:    message,
		BeerCount:  f.rng.Intn(5),
		Latitude:   &venue.Latitude,
		Longitude:  &venue.Longitude,
		CreatedAt:  started,
	}
	for _, fn := range overrides {
		fn(&session)
	}
	return session
}

// BuildEvent creates an upcoming public event.
func (f *Factory) BuildEvent(createdBy uuid.UUID, overrides ...func(*models.Event)) models.Event {
	start := time.Now().Add(time.Duration(1+f.rng.Intn(21*24)) * time.Hour)
	end := start.Add(time.Duration(2+f.rng.Intn(4)) * time.Hour)
	description := gofakeit.Paragraph(1, 2, 8, " ")
	location := gofakeit.Street()
	max := 10 + f.rng.Intn(40)
	now := time.Now()

	event := models.Event{
		ID:           uuid.New(),
		Title:        gofakeit.Sentence(3),
		Description:  &description,
		Location:     &location,
		StartDate:    start,
		EndDate:      end,
		IsPublic:     true,
		MaxAttendees: &max,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, fn := range overrides {
		fn(&event)
	}
	return event
}
