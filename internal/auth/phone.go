package auth

import "strings"

var phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "/", "")

// NormalizePhone converts user input to the +49 E.164 form the OTP endpoints
// expect. Separators (space, dash, parentheses, slash) are stripped, then a
// leading 0 becomes +49, a bare 49 gains its +, an existing +49 stays, and
// anything else has +49 prepended wholesale. Hard-wired to German numbers;
// non-German input comes out wrong rather than erroring. Idempotent.
func NormalizePhone(raw string) string {
	cleaned := phoneCleaner.Replace(raw)

	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "+49" + cleaned[1:]
	case strings.HasPrefix(cleaned, "+49"):
		return cleaned
	case strings.HasPrefix(cleaned, "49"):
		return "+" + cleaned
	default:
		return "+49" + cleaned
	}
}
