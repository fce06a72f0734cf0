// Package server exposes the synced local state and the auth flows over a
// small HTTP API for companion tooling.
package server

import (
	"context"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"elfkoelsch/internal/auth"
	"elfkoelsch/internal/cache"
	"elfkoelsch/internal/config"
	"elfkoelsch/internal/models"
	"elfkoelsch/internal/observability"
	"elfkoelsch/internal/service"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	auth           *auth.Manager
	sync           *service.SyncService
	store          cache.Store
	logger         *observability.Logger
	promMiddleware *fiberprometheus.FiberPrometheus
}

// NewServer creates a server instance from already-initialized dependencies.
func NewServer(cfg *config.Config, mgr *auth.Manager, sync *service.SyncService, store cache.Store, logger *observability.Logger) *Server {
	return &Server{
		config:         cfg,
		auth:           mgr,
		sync:           sync,
		store:          store,
		logger:         logger,
		promMiddleware: fiberprometheus.New("elfkoelsch-syncd"),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// CORS before anything that can short-circuit, so browser clients still
	// receive CORS headers on error responses.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5173,http://localhost:3000",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	// The API is local-first; the limiter only guards against runaway
	// polling loops in companion tooling.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", s.Login)
	authGroup.Post("/register", s.Register)
	authGroup.Post("/otp/send", s.SendOTP)
	authGroup.Post("/otp/verify", s.VerifyOTP)
	authGroup.Post("/confirm", s.ConfirmEmail)
	authGroup.Post("/reset", s.ResetPassword)
	authGroup.Post("/logout", s.Logout)
	authGroup.Get("/session", s.SessionInfo)

	data := api.Group("/", s.AuthRequired())
	data.Post("/sync/refresh", s.RefreshNow)

	data.Get("/friends", s.ListFriends)
	data.Get("/friends/requests", s.ListFriendRequests)
	data.Post("/friends", s.SendFriendRequest)
	data.Post("/friends/:id/accept", s.AcceptFriendRequest)
	data.Delete("/friends/:id", s.DeclineFriendRequest)

	data.Get("/map/sessions", s.MapSessions)
	data.Post("/sessions", s.StartSession)
	data.Post("/sessions/:id/beer", s.AddBeer)
	data.Post("/sessions/:id/end", s.EndSession)

	data.Get("/events", s.ListEvents)
	data.Post("/events", s.CreateEvent)

	data.Put("/profile", s.UpdateProfile)
}

// AuthRequired rejects data requests until a login or OTP verification has
// completed.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.auth.State() != auth.StateAuthenticated || s.auth.CurrentUser() == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthError("Nicht angemeldet"))
		}
		return c.Next()
	}
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessCheck reports whether the local store answers queries.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.store.ListVenues(ctx, nil); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": "ready",
		"auth":   string(s.auth.State()),
	})
}
