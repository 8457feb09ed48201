package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Letters (any script) and spaces only
	nameRegex = regexp.MustCompile(`^[\p{L} ]+$`)

	// Indian mobile numbering plan: 10 digits, leading digit 6-9.
	// Input must already be normalized to digits only.
	inMobileRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)

	nonDigitRegex = regexp.MustCompile(`[^0-9]`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("person_name", PersonName)
	_ = v.RegisterValidation("in_mobile", IndianMobile)
}

// NormalizePhone strips every non-digit character so formatted inputs like
// "+91 98765-43210" validate the same as "9876543210".
func NormalizePhone(raw string) string {
	digits := nonDigitRegex.ReplaceAllString(raw, "")
	// Drop the country prefix when the caller typed it out
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return digits
}

// PersonName validates that a string contains only letters and spaces
func PersonName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// IndianMobile validates a normalized 10-digit Indian mobile number
func IndianMobile(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return inMobileRegex.MatchString(val)
}
