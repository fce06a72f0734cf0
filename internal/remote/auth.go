package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"elfkoelsch/internal/codec"
	"elfkoelsch/internal/models"
	"elfkoelsch/internal/observability"
)

func decodeAuthUserRecord(m map[string]any) (models.AuthUser, bool) {
	return codec.DecodeAuthUser(codec.Record(m))
}

func (c *Client) authCall(ctx context.Context, operation, path string, body any) (models.AuthUser, error) {
	start := time.Now()
	raw, status, err := c.do(ctx, http.MethodPost, path, body)
	observability.ObserveRemote(operation, start, err)
	if err != nil {
		return models.AuthUser{}, err
	}
	if status < 200 || status > 299 {
		return models.AuthUser{}, models.NewAuthError(backendMessage(raw))
	}

	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return models.AuthUser{}, models.NewNetworkError(err)
	}
	return c.adoptAuthResponse(resp)
}

// LoginWithEmail signs in with an email/password pair.
func (c *Client) LoginWithEmail(ctx context.Context, email, password string) (models.AuthUser, error) {
	return c.authCall(ctx, "login_email", "/auth/v1/token?grant_type=password", map[string]any{
		"email":    email,
		"password": password,
	})
}

// RegisterWithEmail signs up a new account. metadata lands in the user's
// profile trigger on the backend (first_name etc.).
func (c *Client) RegisterWithEmail(ctx context.Context, email, password string, metadata map[string]any) (models.AuthUser, error) {
	return c.authCall(ctx, "register_email", "/auth/v1/signup", map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	})
}

// SendOTP asks the backend to text a one-time code to the given E.164
// number. The same endpoint serves both login and registration; purpose is
// recorded for observability only.
func (c *Client) SendOTP(ctx context.Context, phone string, purpose models.OTPPurpose) error {
	start := time.Now()
	raw, status, err := c.do(ctx, http.MethodPost, "/auth/v1/otp", map[string]any{
		"phone":       phone,
		"create_user": purpose == models.OTPPurposeRegister,
	})
	observability.ObserveRemote("send_otp", start, err)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return models.NewAuthError(backendMessage(raw))
	}
	return nil
}

// VerifyOTP redeems a texted code. metadata, when present, is attached to
// the new user (registration flow).
func (c *Client) VerifyOTP(ctx context.Context, phone, code string, metadata map[string]any) (models.AuthUser, error) {
	body := map[string]any{
		"phone": phone,
		"token": code,
		"type":  "sms",
	}
	if metadata != nil {
		body["data"] = metadata
	}
	return c.authCall(ctx, "verify_otp", "/auth/v1/verify", body)
}

// ConfirmEmail redeems an email confirmation token.
func (c *Client) ConfirmEmail(ctx context.Context, token string) (models.AuthUser, error) {
	return c.authCall(ctx, "confirm_email", "/auth/v1/verify", map[string]any{
		"token": token,
		"type":  "email",
	})
}

// ResetPassword triggers a password-reset email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	start := time.Now()
	raw, status, err := c.do(ctx, http.MethodPost, "/auth/v1/recover", map[string]any{
		"email": email,
	})
	observability.ObserveRemote("reset_password", start, err)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return models.NewAuthError(backendMessage(raw))
	}
	return nil
}

// Logout revokes the session server-side and drops the local token pair.
func (c *Client) Logout(ctx context.Context) error {
	start := time.Now()
	raw, status, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil)
	observability.ObserveRemote("logout", start, err)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return models.NewAuthError(backendMessage(raw))
	}
	c.setSession(nil)
	return nil
}
