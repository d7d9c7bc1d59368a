package repository

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/asdf-project/user-service/internal/model"
)

// MockUsers is a mock implementation of Users.
type MockUsers struct {
	mock.Mock
}

var _ Users = (*MockUsers)(nil)

func (m *MockUsers) GetUserByID(ctx context.Context, id int64) (mo.Option[*model.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*model.User]), args.Error(1)
}

func (m *MockUsers) GetUserByEmail(ctx context.Context, email string) (mo.Option[*model.User], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(mo.Option[*model.User]), args.Error(1)
}

func (m *MockUsers) UpdateUser(ctx context.Context, id int64, update model.UserUpdate) (mo.Option[*model.User], error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(mo.Option[*model.User]), args.Error(1)
}

// SessionStub hands the same Users to every session and counts how many were
// opened and released, standing in for *Repository.WithSession.
type SessionStub struct {
	Users      Users
	AcquireErr error
	Opened     int
	Released   int
}

// WithSession runs fn with s.Users.
func (s *SessionStub) WithSession(ctx context.Context, fn func(Users) error) error {
	if s.AcquireErr != nil {
		return s.AcquireErr
	}
	s.Opened++
	defer func() { s.Released++ }()
	return fn(s.Users)
}
