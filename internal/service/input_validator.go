package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"truckrecruit/internal/errors"
)

const (
	maxSanitizedLength = 2000
	minPasswordLength  = 8
	maxPasswordLength  = 128
)

var (
	nameRegex         = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	phoneRegex        = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	javascriptRegex   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)on\w+=`)
	commonPasswords   = map[string]bool{
		"password": true, "123456": true, "qwerty": true, "abc123": true, "password123": true,
	}
)

// InputValidator validates and cleans user-supplied text.
type InputValidator struct{}

// NewInputValidator creates a new input validator.
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidatePassword requires 8-128 characters with lower, upper and digit, and rejects
// well-known passwords.
func (v *InputValidator) ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return invalid("password must be between 8 and 128 characters")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return invalid("password must contain a lowercase letter, an uppercase letter and a number")
	}
	if commonPasswords[strings.ToLower(password)] {
		return invalid("password is too common")
	}
	return nil
}

// ValidateName checks length and allowed characters.
func (v *InputValidator) ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 2 || n > 100 {
		return invalid("name must be between 2 and 100 characters")
	}
	if !nameRegex.MatchString(name) {
		return invalid("name can only contain letters, spaces, hyphens, and apostrophes")
	}
	return nil
}

// ValidatePhone accepts an empty value or digits with common separators.
func (v *InputValidator) ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return invalid("please enter a valid phone number")
	}
	return nil
}

// Sanitize trims input, strips angle brackets, javascript: URLs and inline event handlers,
// and caps the length.
func (v *InputValidator) Sanitize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = javascriptRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	if utf8.RuneCountInString(s) > maxSanitizedLength {
		s = string([]rune(s)[:maxSanitizedLength])
	}
	return s
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", errors.ErrInvalidInput, msg)
}
