package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"elfkoelsch/internal/models"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseUUID extracts a route parameter as a UUID. On failure it writes a 400
// JSON response and returns errResponseWritten. Callers should check:
// if err != nil { return nil }
func (s *Server) parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Ungültige ID"))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// parseBody unmarshals the JSON request body. On failure it writes a 400
// response and returns errResponseWritten.
func (s *Server) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Ungültiger Request-Body"))
		return errResponseWritten
	}
	return nil
}

// currentUserID returns the signed-in user's ID. AuthRequired guarantees a
// user is present on data routes.
func (s *Server) currentUserID() uuid.UUID {
	if u := s.auth.CurrentUser(); u != nil {
		return u.ID
	}
	return uuid.Nil
}

// respondServiceError maps a service error to its HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
