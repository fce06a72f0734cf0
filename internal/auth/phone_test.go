package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"leading zero becomes country code", "0151 123 45678", "+4915112345678"},
		{"already normalized stays put", "+49 151 1234567", "+491511234567"},
		{"bare country code gains plus", "49151 1234567", "+491511234567"},
		{"no prefix gains full country code", "151/1234567", "+491511234567"},
		{"dashes and parens are stripped", "(0151) 123-45678", "+4915112345678"},
		{"empty input", "", "+49"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"0151 12345678", "+49 151 1234567", "49151 1234567", "151 1234567"}
	for _, input := range inputs {
		once := NormalizePhone(input)
		assert.Equal(t, once, NormalizePhone(once), "input %q", input)
	}
}
