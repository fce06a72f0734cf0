// Command syncd runs the local sync daemon: it mirrors the remote backend
// into a local store and serves the derived views over HTTP.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"elfkoelsch/internal/auth"
	"elfkoelsch/internal/cache"
	"elfkoelsch/internal/config"
	"elfkoelsch/internal/observability"
	"elfkoelsch/internal/remote"
	"elfkoelsch/internal/server"
	"elfkoelsch/internal/service"
)

// syncedTables are the backend tables mirrored into the local store.
var syncedTables = []string{
	"user_profiles",
	"friendships",
	"beer_sessions",
	"events",
	"koelsch_locations",
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.GlobalLogger

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	client := remote.NewClient(cfg.BackendURL, cfg.BackendAnonKey, logger,
		remote.WithTimeout(cfg.Timeout()))
	manager := auth.NewManager(client, logger)
	syncSvc := service.NewSyncService(client, store, logger)

	srv := server.NewServer(cfg, manager, syncSvc, store, logger)

	app := fiber.New(fiber.Config{
		AppName:   "11Koelsch Sync Daemon",
		BodyLimit: 1 * 1024 * 1024,
	})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Realtime {
		feed := client.NewRealtimeFeed(syncedTables, func(ev remote.ChangeEvent) {
			syncSvc.ApplyChange(ctx, ev)
		})
		go feed.Run(ctx)
	}

	go refreshLoop(ctx, cfg, manager, syncSvc, logger)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down sync daemon...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Sync daemon listening on %s...", cfg.ListenAddr)
	log.Fatal(app.Listen(cfg.ListenAddr))
}

// buildStore selects the local store backend from configuration.
func buildStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client), nil
	case "sqlite":
		return cache.NewSQLiteStore(cfg.SQLitePath)
	default:
		return cache.NewMemoryStore(), nil
	}
}

// refreshLoop reconciles the local store on a fixed interval while a user is
// signed in. The loop itself never fails; individual refresh errors are
// logged and retried on the next tick.
func refreshLoop(ctx context.Context, cfg *config.Config, manager *auth.Manager, syncSvc *service.SyncService, logger *observability.Logger) {
	ticker := time.NewTicker(cfg.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		user := manager.CurrentUser()
		if manager.State() != auth.StateAuthenticated || user == nil {
			continue
		}

		refreshCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
		if err := syncSvc.Refresh(refreshCtx, user.ID); err != nil {
			logger.Warn("periodic refresh failed", "error", err)
		}
		cancel()
	}
}
