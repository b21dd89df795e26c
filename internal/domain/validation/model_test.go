package validation_test

import (
	"strings"
	"testing"

	"eventra/internal/domain/validation"
)

// TestValidatePhone tests required, format and length bounds.
func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"international", "+971501234567", ""},
		{"dashed local", "050-123-4567", ""},
		{"spaces stripped", "050 123 4567", ""},
		{"empty", "", validation.MsgPhoneRequired},
		{"blank", "   ", validation.MsgPhoneRequired},
		{"letters", "abc", validation.MsgPhoneInvalidFormat},
		{"exactly 8", "12345678", ""},
		{"exactly 15", "123456789012345", ""},
		{"7 chars", "1234567", validation.MsgPhoneInvalidFormat},
		{"16 chars", "1234567890123456", validation.MsgPhoneInvalidFormat},
		{"15 after stripping", "12345 67890 12345", ""},
		{"mixed letters", "05012345x7", validation.MsgPhoneInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validation.ValidatePhone(tt.phone); got != tt.want {
				t.Errorf("ValidatePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

// TestValidateGuestName tests the 2-50 bounds.
func TestValidateGuestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"two chars", "Al", ""},
		{"fifty chars", strings.Repeat("a", 50), ""},
		{"one char", "A", validation.MsgNameTooShort},
		{"fifty one chars", strings.Repeat("a", 51), validation.MsgNameTooLong},
		{"empty", "", validation.MsgNameRequired},
		{"multibyte counted as runes", "Zoë", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validation.ValidateGuestName(tt.input); got != tt.want {
				t.Errorf("ValidateGuestName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestValidateAdditionalGuest tests optional names and guest numbering.
func TestValidateAdditionalGuest(t *testing.T) {
	if got := validation.ValidateAdditionalGuest("", 0); got != "" {
		t.Errorf("empty guest should be valid, got %q", got)
	}
	if got := validation.ValidateAdditionalGuest("Bo", 3); got != "" {
		t.Errorf("two-char guest should be valid, got %q", got)
	}
	got := validation.ValidateAdditionalGuest("B", 0)
	if !strings.Contains(got, "Guest 2") {
		t.Errorf("index 0 should reference guest 2, got %q", got)
	}
	got = validation.ValidateAdditionalGuest(strings.Repeat("b", 51), 4)
	if !strings.Contains(got, "Guest 6") {
		t.Errorf("index 4 should reference guest 6, got %q", got)
	}
}
