package dto

import (
	"errors"
	"net/mail"
	"strings"
)

// MaxEmailLength matches the users.email column width.
const MaxEmailLength = 254

// ErrInvalidEmail is returned when an email fails syntax validation.
var ErrInvalidEmail = errors.New("invalid email address")

// ValidateEmail checks that raw is a bare addr-spec with a dotted domain
// and returns it with surrounding whitespace removed.
func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" || len(email) > MaxEmailLength {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", ErrInvalidEmail
	}
	// Reject display-name forms such as "Bob <bob@example.com>".
	if addr.Address != email {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", ErrInvalidEmail
	}

	return email, nil
}
