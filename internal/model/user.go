// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/samber/mo"
)

// User is a user profile row. Creation happens outside this service.
type User struct {
	ID        int64
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserUpdate is a sparse update. Only fields that are present get written.
type UserUpdate struct {
	Email mo.Option[string]
}

// IsEmpty reports whether the update carries no fields.
func (u UserUpdate) IsEmpty() bool {
	return u.Email.IsAbsent()
}
