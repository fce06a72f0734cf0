package auth

import (
	"regexp"

	"elfkoelsch/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,64}$`)
	phonePattern = regexp.MustCompile(`^\+49[1-9][0-9]{1,10}$`)
)

// ValidateEmail checks the address shape before any network call.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return models.NewValidationError("Ungültige E-Mail-Adresse")
	}
	return nil
}

// ValidateLoginPassword only requires a non-empty password.
func ValidateLoginPassword(password string) error {
	if password == "" {
		return models.NewValidationError("Passwort ist erforderlich")
	}
	return nil
}

// ValidateRegistrationPassword enforces the minimum length for sign-up.
func ValidateRegistrationPassword(password string) error {
	if len(password) < 6 {
		return models.NewValidationError("Passwort muss mindestens 6 Zeichen lang sein")
	}
	return nil
}

// ValidatePhone checks the normalized number against the German E.164 rule.
// This is a single-country rule on purpose, not general E.164 validation.
func ValidatePhone(normalized string) error {
	if !phonePattern.MatchString(normalized) {
		return models.NewValidationError("Ungültige Telefonnummer")
	}
	return nil
}

// ValidateConfirmationCode gates the verify button in the UI. The code is not
// re-validated before the network call; the backend is authoritative.
func ValidateConfirmationCode(code string) error {
	if len(code) != 6 {
		return models.NewValidationError("Der Bestätigungscode muss 6 Zeichen lang sein")
	}
	return nil
}
