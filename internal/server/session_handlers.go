package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"elfkoelsch/internal/models"
)

type startSessionRequest struct {
	LocationID uuid.UUID `json:"location_id"`
	Duration   string    `json:"duration"`
	Message    string    `json:"message"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
}

// MapSessions handles GET /api/map/sessions
func (s *Server) MapSessions(c *fiber.Ctx) error {
	sessions, err := s.sync.ActiveFriendSessions(c.Context(), s.currentUserID())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}

// StartSession handles POST /api/sessions
func (s *Server) StartSession(c *fiber.Ctx) error {
	var req startSessionRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if req.LocationID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Standort ist erforderlich"))
	}

	duration := models.SessionDuration(req.Duration)
	switch duration {
	case models.Duration30Minutes, models.Duration1Hour, models.Duration2Hours, models.Duration3Hours:
	case "":
		duration = models.Duration2Hours
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Ungültige Dauer"))
	}

	session, err := s.sync.StartSession(c.Context(), s.currentUserID(), req.LocationID,
		duration, req.Message, req.Latitude, req.Longitude)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// AddBeer handles POST /api/sessions/:id/beer
func (s *Server) AddBeer(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	session, err := s.sync.AddBeer(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

// EndSession handles POST /api/sessions/:id/end
func (s *Server) EndSession(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	session, err := s.sync.EndSession(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

// RefreshNow handles POST /api/sync/refresh
func (s *Server) RefreshNow(c *fiber.Ctx) error {
	if err := s.sync.Refresh(c.Context(), s.currentUserID()); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "refreshed"})
}
