package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type friendRequestBody struct {
	FriendID uuid.UUID `json:"friend_id"`
}

// ListFriends handles GET /api/friends
func (s *Server) ListFriends(c *fiber.Ctx) error {
	friends, err := s.sync.ConfirmedFriends(c.Context(), s.currentUserID())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"friends": friends, "count": len(friends)})
}

// ListFriendRequests handles GET /api/friends/requests
func (s *Server) ListFriendRequests(c *fiber.Ctx) error {
	requests, err := s.sync.PendingFriendRequests(c.Context(), s.currentUserID())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests, "count": len(requests)})
}

// SendFriendRequest handles POST /api/friends
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var req friendRequestBody
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	friendship, err := s.sync.SendFriendRequest(c.Context(), s.currentUserID(), req.FriendID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// AcceptFriendRequest handles POST /api/friends/:id/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	friendship, err := s.sync.AcceptFriendRequest(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(friendship)
}

// DeclineFriendRequest handles DELETE /api/friends/:id
func (s *Server) DeclineFriendRequest(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.sync.DeclineFriendRequest(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
