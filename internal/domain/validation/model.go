// Package validation holds the field validators shared by the booking forms.
// Each validator returns "" for a valid value or a human-readable message.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Name length bounds, inclusive.
const (
	MinNameLength = 2
	MaxNameLength = 50
)

// Messages returned by the validators.
const (
	MsgPhoneRequired      = "Phone number is required"
	MsgPhoneInvalidFormat = "Please enter a valid phone number (8-15 digits)"
	MsgNameRequired       = "Name is required"
	MsgNameTooShort       = "Name must be at least 2 characters"
	MsgNameTooLong        = "Name must be less than 50 characters"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s]{8,15}$`)

var whitespace = regexp.MustCompile(`\s+`)

// ValidatePhone checks a phone number.
// PRE: none
// POST: Returns MsgPhoneRequired for blank input, MsgPhoneInvalidFormat unless
// the whitespace-stripped value is 8-15 characters of digits, '+', '-'
func ValidatePhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return MsgPhoneRequired
	}
	if !phonePattern.MatchString(whitespace.ReplaceAllString(phone, "")) {
		return MsgPhoneInvalidFormat
	}
	return ""
}

// ValidateGuestName checks the primary guest's name.
// PRE: none
// POST: Returns "" iff the trimmed name is 2-50 characters
func ValidateGuestName(name string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return MsgNameRequired
	case n < MinNameLength:
		return MsgNameTooShort
	case n > MaxNameLength:
		return MsgNameTooLong
	}
	return ""
}

// ValidateAdditionalGuest checks an optional additional guest name at index.
// Guest numbering starts at 2 since the primary guest is guest 1.
// PRE: index >= 0
// POST: Returns "" for blank input or a 2-50 character name
func ValidateAdditionalGuest(name string, index int) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return ""
	case n < MinNameLength:
		return fmt.Sprintf("Guest %d name must be at least %d characters", index+2, MinNameLength)
	case n > MaxNameLength:
		return fmt.Sprintf("Guest %d name must be less than %d characters", index+2, MaxNameLength)
	}
	return ""
}
