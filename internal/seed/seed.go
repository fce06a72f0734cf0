package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"elfkoelsch/internal/cache"
	"elfkoelsch/internal/models"
)

// Options configures how much demo data Run creates.
type Options struct {
	NumUsers    int
	NumSessions int
	NumEvents   int
	Seed        int64
}

// DefaultOptions returns a small but lively demo dataset.
func DefaultOptions() Options {
	return Options{
		NumUsers:    12,
		NumSessions: 5,
		NumEvents:   6,
		Seed:        time.Now().UnixNano(),
	}
}

// venues is a fixed set of Cologne brewery houses. Coordinates are real so
// the map view renders sensibly.
var venues = []models.KoelschLocation{
	{Name: "Früh am Dom", Address: "Am Hof 12-18, 50667 Köln", Latitude: 50.9402, Longitude: 6.9569, PriceRange: "€€", Tags: models.StringList{"brauhaus", "altstadt"}},
	{Name: "Gaffel am Dom", Address: "Bahnhofsvorplatz 1, 50667 Köln", Latitude: 50.9417, Longitude: 6.9570, PriceRange: "€€", Tags: models.StringList{"brauhaus", "bahnhof"}},
	{Name: "Päffgen", Address: "Friesenstraße 64-66, 50670 Köln", Latitude: 50.9410, Longitude: 6.9441, PriceRange: "€€", Tags: models.StringList{"brauhaus", "friesenviertel"}},
	{Name: "Brauhaus Sion", Address: "Unter Taschenmacher 5-7, 50667 Köln", Latitude: 50.9393, Longitude: 6.9598, PriceRange: "€€", Tags: models.StringList{"brauhaus", "altstadt"}},
	{Name: "Lommerzheim", Address: "Siegesstraße 18, 50679 Köln", Latitude: 50.9358, Longitude: 6.9753, PriceRange: "€", Tags: models.StringList{"kneipe", "deutz"}},
	{Name: "Schreckenskammer", Address: "Ursulagartenstraße 11, 50668 Köln", Latitude: 50.9454, Longitude: 6.9533, PriceRange: "€", Tags: models.StringList{"kneipe", "kunibertsviertel"}},
}

// Run fills the store with demo users, friendships, sessions and events and
// returns the profile that should act as the signed-in user.
func Run(ctx context.Context, store cache.Store, opts Options) (models.UserProfile, error) {
	if opts.NumUsers < 2 {
		opts.NumUsers = 2
	}
	factory := NewFactory(opts.Seed)

	stored := make([]models.KoelschLocation, 0, len(venues))
	for _, v := range venues {
		v.ID = uuid.New()
		v.CreatedAt = time.Now()
		if err := store.PutVenue(ctx, v); err != nil {
			return models.UserProfile{}, fmt.Errorf("seed venue: %w", err)
		}
		stored = append(stored, v)
	}

	profiles := make([]models.UserProfile, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		p := factory.BuildProfile()
		if err := store.PutProfile(ctx, p); err != nil {
			return models.UserProfile{}, fmt.Errorf("seed profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	me := profiles[0]

	// Every other user gets an edge to the demo user; direction alternates so
	// both incoming and outgoing requests show up.
	for i, p := range profiles[1:] {
		userID, friendID := me.ID, p.ID
		if i%2 == 0 {
			userID, friendID = p.ID, me.ID
		}
		f := factory.BuildFriendship(userID, friendID)
		if err := store.PutFriendship(ctx, f); err != nil {
			return models.UserProfile{}, fmt.Errorf("seed friendship: %w", err)
		}
	}

	for i := 0; i < opts.NumSessions && i < len(profiles)-1; i++ {
		venue := stored[i%len(stored)]
		s := factory.BuildSession(profiles[i+1].ID, venue)
		if err := store.PutSession(ctx, s); err != nil {
			return models.UserProfile{}, fmt.Errorf("seed session: %w", err)
		}
	}

	for i := 0; i < opts.NumEvents; i++ {
		e := factory.BuildEvent(profiles[i%len(profiles)].ID)
		if err := store.PutEvent(ctx, e); err != nil {
			return models.UserProfile{}, fmt.Errorf("seed event: %w", err)
		}
	}

	return me, nil
}
