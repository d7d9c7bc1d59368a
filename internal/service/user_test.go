package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asdf-project/user-service/internal/metrics"
	"github.com/asdf-project/user-service/internal/model"
	"github.com/asdf-project/user-service/internal/repository"
)

func newTestService(t *testing.T) (*UserService, *repository.MockUsers, *repository.SessionStub, *metrics.InMemoryRecorder) {
	t.Helper()
	users := &repository.MockUsers{}
	store := &repository.SessionStub{Users: users}
	recorder := metrics.NewInMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	t.Cleanup(func() { users.AssertExpectations(t) })
	return NewUserService(store, logger, recorder), users, store, recorder
}

func someUser(id int64, email string) mo.Option[*model.User] {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return mo.Some(&model.User{ID: id, Email: email, CreatedAt: now, UpdatedAt: now})
}

func noUser() mo.Option[*model.User] {
	return mo.None[*model.User]()
}

func TestGetUser_Found(t *testing.T) {
	svc, users, store, recorder := newTestService(t)
	ctx := context.Background()

	users.On("GetUserByID", ctx, int64(42)).Return(someUser(42, "a@example.com"), nil)

	user, err := svc.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "a@example.com", user.Email)

	assert.Equal(t, 1, store.Opened)
	assert.Equal(t, 1, store.Released)
	snap := recorder.Snapshot()
	assert.Equal(t, uint64(1), snap.UserLookupsFound)
	assert.Equal(t, uint64(1), snap.StoreDurationCount)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, users, store, recorder := newTestService(t)
	ctx := context.Background()

	users.On("GetUserByID", ctx, int64(9)).Return(noUser(), nil)

	_, err := svc.GetUser(ctx, 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 1, store.Released)
	assert.Equal(t, uint64(1), recorder.Snapshot().UserLookupsNotFound)
}

func TestGetUser_StoreError(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	ctx := context.Background()
	storeErr := errors.New("connection reset")

	users.On("GetUserByID", ctx, int64(1)).Return(noUser(), storeErr)

	_, err := svc.GetUser(ctx, 1)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestGetUser_AcquireError(t *testing.T) {
	users := &repository.MockUsers{}
	store := &repository.SessionStub{Users: users, AcquireErr: errors.New("pool closed")}
	svc := NewUserService(store, nil, nil)

	_, err := svc.GetUser(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool closed")
	users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestUpdateUser_NewEmail(t *testing.T) {
	svc, users, store, recorder := newTestService(t)
	ctx := context.Background()
	update := model.UserUpdate{Email: mo.Some("new@example.com")}

	users.On("GetUserByEmail", ctx, "new@example.com").Return(noUser(), nil)
	users.On("UpdateUser", ctx, int64(5), update).Return(someUser(5, "new@example.com"), nil)

	user, err := svc.UpdateUser(ctx, 5, update)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)

	// Check and write share one session.
	assert.Equal(t, 1, store.Opened)
	assert.Equal(t, uint64(1), recorder.Snapshot().UsersUpdated)
}

func TestUpdateUser_SameEmailAsSelf(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	ctx := context.Background()
	update := model.UserUpdate{Email: mo.Some("mine@example.com")}

	users.On("GetUserByEmail", ctx, "mine@example.com").Return(someUser(5, "mine@example.com"), nil)
	users.On("UpdateUser", ctx, int64(5), update).Return(someUser(5, "mine@example.com"), nil)

	user, err := svc.UpdateUser(ctx, 5, update)
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
}

func TestUpdateUser_EmailTakenByOther(t *testing.T) {
	svc, users, _, recorder := newTestService(t)
	ctx := context.Background()
	update := model.UserUpdate{Email: mo.Some("taken@example.com")}

	users.On("GetUserByEmail", ctx, "taken@example.com").Return(someUser(8, "taken@example.com"), nil)

	_, err := svc.UpdateUser(ctx, 5, update)
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, uint64(1), recorder.Snapshot().DuplicateEmails)
}

func TestUpdateUser_UniqueViolationRace(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	ctx := context.Background()
	update := model.UserUpdate{Email: mo.Some("race@example.com")}

	users.On("GetUserByEmail", ctx, "race@example.com").Return(noUser(), nil)
	users.On("UpdateUser", ctx, int64(5), update).Return(noUser(), repository.ErrEmailExists)

	_, err := svc.UpdateUser(ctx, 5, update)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, users, _, recorder := newTestService(t)
	ctx := context.Background()
	update := model.UserUpdate{Email: mo.Some("ghost@example.com")}

	users.On("GetUserByEmail", ctx, "ghost@example.com").Return(noUser(), nil)
	users.On("UpdateUser", ctx, int64(404), update).Return(noUser(), nil)

	_, err := svc.UpdateUser(ctx, 404, update)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, recorder.Snapshot().UsersUpdated)
}

func TestUpdateUser_EmptyUpdateSkipsEmailCheck(t *testing.T) {
	svc, users, _, recorder := newTestService(t)
	ctx := context.Background()
	update := model.UserUpdate{}

	users.On("UpdateUser", ctx, int64(5), update).Return(someUser(5, "same@example.com"), nil)

	user, err := svc.UpdateUser(ctx, 5, update)
	require.NoError(t, err)
	assert.Equal(t, "same@example.com", user.Email)
	users.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	assert.Zero(t, recorder.Snapshot().UsersUpdated)
}

func TestUpdateUser_LookupError(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	ctx := context.Background()
	update := model.UserUpdate{Email: mo.Some("x@example.com")}
	storeErr := errors.New("timeout")

	users.On("GetUserByEmail", ctx, "x@example.com").Return(noUser(), storeErr)

	_, err := svc.UpdateUser(ctx, 5, update)
	assert.ErrorIs(t, err, storeErr)
	users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}
