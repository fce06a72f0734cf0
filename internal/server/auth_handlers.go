package server

import (
	"github.com/gofiber/fiber/v2"

	"elfkoelsch/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
}

type otpSendRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

type otpVerifyRequest struct {
	Phone    string         `json:"phone"`
	Code     string         `json:"code"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type confirmRequest struct {
	Token string `json:"token"`
}

type resetRequest struct {
	Email string `json:"email"`
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.auth.LoginWithEmail(c.Context(), req.Email, req.Password); err != nil {
		return respondServiceError(c, err)
	}
	return s.sessionPayload(c)
}

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.auth.RegisterWithEmail(c.Context(), req.Email, req.Password, req.FirstName); err != nil {
		return respondServiceError(c, err)
	}
	return s.sessionPayload(c)
}

// SendOTP handles POST /api/auth/otp/send
func (s *Server) SendOTP(c *fiber.Ctx) error {
	var req otpSendRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	purpose := models.OTPPurposeLogin
	if req.Purpose == string(models.OTPPurposeRegister) {
		purpose = models.OTPPurposeRegister
	}
	if err := s.auth.RequestOTP(c.Context(), req.Phone, purpose); err != nil {
		return respondServiceError(c, err)
	}
	return s.sessionPayload(c)
}

// VerifyOTP handles POST /api/auth/otp/verify
func (s *Server) VerifyOTP(c *fiber.Ctx) error {
	var req otpVerifyRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.auth.VerifyOTP(c.Context(), req.Phone, req.Code, req.Metadata); err != nil {
		return respondServiceError(c, err)
	}
	return s.sessionPayload(c)
}

// ConfirmEmail handles POST /api/auth/confirm
func (s *Server) ConfirmEmail(c *fiber.Ctx) error {
	var req confirmRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.auth.ConfirmEmail(c.Context(), req.Token); err != nil {
		return respondServiceError(c, err)
	}
	return s.sessionPayload(c)
}

// ResetPassword handles POST /api/auth/reset
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req resetRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.auth.ResetPassword(c.Context(), req.Email); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "sent"})
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.auth.Logout(c.Context()); err != nil {
		return respondServiceError(c, err)
	}
	return s.sessionPayload(c)
}

// SessionInfo handles GET /api/auth/session
func (s *Server) SessionInfo(c *fiber.Ctx) error {
	return s.sessionPayload(c)
}

func (s *Server) sessionPayload(c *fiber.Ctx) error {
	payload := fiber.Map{
		"state":   string(s.auth.State()),
		"loading": s.auth.Loading(),
	}
	if u := s.auth.CurrentUser(); u != nil {
		payload["user"] = u
	}
	if contact := s.auth.PendingContact(); contact != "" {
		payload["pending_contact"] = contact
	}
	return c.JSON(payload)
}
