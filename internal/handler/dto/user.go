// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/samber/mo"

	"github.com/asdf-project/user-service/internal/model"
)

// UpdateUserRequest represents the request body for PUT /api/v1/users/me.
// A missing or null email leaves the stored email unchanged.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
}

// ToUpdate validates the request and converts it to a model.UserUpdate.
func (r UpdateUserRequest) ToUpdate() (model.UserUpdate, error) {
	if r.Email == nil {
		return model.UserUpdate{Email: mo.None[string]()}, nil
	}

	email, err := ValidateEmail(*r.Email)
	if err != nil {
		return model.UserUpdate{}, err
	}
	return model.UserUpdate{Email: mo.Some(email)}, nil
}

// UserResponse represents a user in API responses.
// Fields are listed explicitly; nothing else from the stored record is exposed.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
}
