package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// UserIDHeader carries the authenticated user's ID, set by the gateway.
const UserIDHeader = "X-User-Id"

// Identity errors.
var (
	ErrMissingIdentity = errors.New("authentication required")
	ErrInvalidIdentity = errors.New("invalid user id")
)

// UserIDFromRequest reads the caller's user ID from UserIDHeader.
func UserIDFromRequest(r *http.Request) (int64, error) {
	return ParseUserID(r.Header.Get(UserIDHeader))
}

// ParseUserID parses a raw header value.
// Empty values return ErrMissingIdentity; non-integers return ErrInvalidIdentity.
func ParseUserID(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrMissingIdentity
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrInvalidIdentity
	}

	return id, nil
}
