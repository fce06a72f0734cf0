// Command seed loads demo data into a local store so the daemon's views can
// be exercised without a backend.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"elfkoelsch/internal/cache"
	"elfkoelsch/internal/seed"
)

func main() {
	var (
		sqlitePath  = flag.String("sqlite", "elfkoelsch.db", "sqlite database path")
		redisURL    = flag.String("redis", "", "redis address; takes precedence over sqlite when set")
		numUsers    = flag.Int("users", 12, "number of demo users")
		numSessions = flag.Int("sessions", 5, "number of active demo sessions")
		numEvents   = flag.Int("events", 6, "number of demo events")
		seedValue   = flag.Int64("seed", 0, "random seed; 0 derives one from the clock")
	)
	flag.Parse()

	store, err := buildStore(*redisURL, *sqlitePath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumSessions: *numSessions,
		NumEvents:   *numEvents,
		Seed:        *seedValue,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	me, err := seed.Run(ctx, store, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d sessions, %d events", opts.NumUsers, opts.NumSessions, opts.NumEvents)
	log.Printf("Demo user: %s (%s)", me.DisplayName(), me.ID)
}

func buildStore(redisURL, sqlitePath string) (cache.Store, error) {
	if redisURL != "" {
		client, err := cache.NewRedisClient(redisURL)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client), nil
	}
	return cache.NewSQLiteStore(sqlitePath)
}
