// Package auth tracks the authentication lifecycle of the current user:
// anonymous, pending verification, authenticated. All validation happens
// before any network round trip.
package auth

import (
	"context"
	"sync"

	"elfkoelsch/internal/models"
	"elfkoelsch/internal/observability"
)

// State is the current position in the auth lifecycle.
type State string

const (
	// StateAnonymous means no user is signed in.
	StateAnonymous State = "anonymous"
	// StatePendingVerification means an OTP or confirmation email is out.
	StatePendingVerification State = "pending_verification"
	// StateAuthenticated means a user is signed in.
	StateAuthenticated State = "authenticated"
)

// Service is the remote auth surface the manager drives. Implemented by
// remote.Client.
type Service interface {
	LoginWithEmail(ctx context.Context, email, password string) (models.AuthUser, error)
	RegisterWithEmail(ctx context.Context, email, password string, metadata map[string]any) (models.AuthUser, error)
	SendOTP(ctx context.Context, phone string, purpose models.OTPPurpose) error
	VerifyOTP(ctx context.Context, phone, code string, metadata map[string]any) (models.AuthUser, error)
	ConfirmEmail(ctx context.Context, token string) (models.AuthUser, error)
	ResetPassword(ctx context.Context, email string) error
	Logout(ctx context.Context) error
}

// Manager is the auth state machine. Failed operations keep the current
// state and surface the error; logout is the only way back to anonymous.
type Manager struct {
	service Service
	logger  *observability.Logger

	mu             sync.Mutex
	state          State
	currentUser    *models.AuthUser
	pendingContact string
	loading        bool
	onChange       func(State, *models.AuthUser)
}

// NewManager returns a Manager in the anonymous state.
func NewManager(service Service, logger *observability.Logger) *Manager {
	return &Manager{
		service: service,
		logger:  logger,
		state:   StateAnonymous,
	}
}

// SetOnChange registers a listener fired after every state transition. The
// listener runs on the calling goroutine; keep it cheap.
func (m *Manager) SetOnChange(fn func(State, *models.AuthUser)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated user, or nil.
func (m *Manager) CurrentUser() *models.AuthUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentUser
}

// PendingContact returns the phone number or email awaiting verification.
func (m *Manager) PendingContact() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingContact
}

// Loading reports whether a network operation is in flight. Validation
// rejections never set it; every completion path clears it.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LoginWithEmail signs in with email and password. Success transitions to
// authenticated.
func (m *Manager) LoginWithEmail(ctx context.Context, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateLoginPassword(password); err != nil {
		return err
	}

	m.beginRequest()
	user, err := m.service.LoginWithEmail(ctx, email, password)
	if err != nil {
		m.endRequest()
		m.logger.Warn("email login failed", "error", err)
		return err
	}

	m.transition(StateAuthenticated, &user, "")
	return nil
}

// RegisterWithEmail signs up a new account. Success transitions to pending
// verification; the account becomes usable once the confirmation email is
// processed via ConfirmEmail.
func (m *Manager) RegisterWithEmail(ctx context.Context, email, password, firstName string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateRegistrationPassword(password); err != nil {
		return err
	}
	if firstName == "" {
		return models.NewValidationError("Vorname ist erforderlich")
	}

	metadata := map[string]any{
		"first_name": firstName,
		"email":      email,
	}

	m.beginRequest()
	if _, err := m.service.RegisterWithEmail(ctx, email, password, metadata); err != nil {
		m.endRequest()
		m.logger.Warn("email registration failed", "error", err)
		return err
	}

	m.transition(StatePendingVerification, nil, email)
	return nil
}

// RequestOTP normalizes and validates the phone number, then asks the
// backend to send a one-time code. Success transitions to pending
// verification with the normalized number as contact.
func (m *Manager) RequestOTP(ctx context.Context, phone string, purpose models.OTPPurpose) error {
	normalized := NormalizePhone(phone)
	if err := ValidatePhone(normalized); err != nil {
		return err
	}

	m.beginRequest()
	if err := m.service.SendOTP(ctx, normalized, purpose); err != nil {
		m.endRequest()
		m.logger.Warn("otp send failed", "purpose", string(purpose), "error", err)
		return err
	}

	m.transition(StatePendingVerification, nil, normalized)
	return nil
}

// VerifyOTP checks the one-time code with the backend. The 6-character rule
// is UI gating only and deliberately not re-checked here. metadata may carry
// profile fields for the registration flow.
func (m *Manager) VerifyOTP(ctx context.Context, phone, code string, metadata map[string]any) error {
	normalized := NormalizePhone(phone)

	m.beginRequest()
	user, err := m.service.VerifyOTP(ctx, normalized, code, metadata)
	if err != nil {
		m.endRequest()
		m.logger.Warn("otp verification failed", "error", err)
		return err
	}

	m.transition(StateAuthenticated, &user, "")
	return nil
}

// ConfirmEmail redeems an email confirmation token. Success transitions to
// authenticated.
func (m *Manager) ConfirmEmail(ctx context.Context, token string) error {
	if token == "" {
		return models.NewValidationError("Bestätigungstoken ist erforderlich")
	}

	m.beginRequest()
	user, err := m.service.ConfirmEmail(ctx, token)
	if err != nil {
		m.endRequest()
		m.logger.Warn("email confirmation failed", "error", err)
		return err
	}

	m.transition(StateAuthenticated, &user, "")
	return nil
}

// ResetPassword triggers a password-reset email. No state transition.
func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}

	m.beginRequest()
	defer m.endRequest()
	if err := m.service.ResetPassword(ctx, email); err != nil {
		m.logger.Warn("password reset failed", "error", err)
		return err
	}
	return nil
}

// Logout signs out and returns to anonymous. A failed remote sign-out keeps
// the current state.
func (m *Manager) Logout(ctx context.Context) error {
	m.beginRequest()
	if err := m.service.Logout(ctx); err != nil {
		m.endRequest()
		m.logger.Warn("logout failed", "error", err)
		return err
	}

	m.transition(StateAnonymous, nil, "")
	return nil
}

func (m *Manager) beginRequest() {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
}

func (m *Manager) endRequest() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

func (m *Manager) transition(state State, user *models.AuthUser, contact string) {
	m.mu.Lock()
	m.loading = false
	m.state = state
	m.currentUser = user
	m.pendingContact = contact
	listener := m.onChange
	m.mu.Unlock()

	m.logger.Info("auth state changed", "state", string(state))
	if listener != nil {
		listener(state, user)
	}
}
