package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"elfkoelsch/internal/aggregate"
	"elfkoelsch/internal/models"
)

type createEventRequest struct {
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Location     *string   `json:"location,omitempty"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	IsPublic     *bool     `json:"is_public,omitempty"`
	MaxAttendees *int      `json:"max_attendees,omitempty"`
}

type updateProfileRequest struct {
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ListEvents handles GET /api/events?timeframe=
func (s *Server) ListEvents(c *fiber.Ctx) error {
	timeframe := aggregate.ParseTimeframe(c.Query("timeframe"))
	events, err := s.sync.FilteredEvents(c.Context(), timeframe)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"events": events, "count": len(events)})
}

// CreateEvent handles POST /api/events
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req createEventRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	event, err := s.sync.CreateEvent(c.Context(), models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsPublic:     isPublic,
		MaxAttendees: req.MaxAttendees,
		CreatedBy:    s.currentUserID(),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// UpdateProfile handles PUT /api/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if req.FirstName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Vorname ist erforderlich"))
	}

	profile, err := s.sync.UpdateProfile(c.Context(), models.UserProfile{
		ID:        s.currentUserID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}
