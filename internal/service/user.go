// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asdf-project/user-service/internal/metrics"
	"github.com/asdf-project/user-service/internal/model"
	"github.com/asdf-project/user-service/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore hands out request-scoped query sessions. *repository.Repository implements it.
type UserStore interface {
	WithSession(ctx context.Context, fn func(repository.Users) error) error
}

// UserService handles user profile business logic.
type UserService struct {
	store   UserStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, logger *slog.Logger, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// GetUser returns the user with id, or ErrUserNotFound.
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user *model.User

	err := s.session(ctx, func(users repository.Users) error {
		found, err := users.GetUserByID(ctx, id)
		if err != nil {
			return err
		}
		u, ok := found.Get()
		if !ok {
			s.metrics.IncUserLookup(metrics.LookupNotFound)
			return ErrUserNotFound
		}
		s.metrics.IncUserLookup(metrics.LookupFound)
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser applies update to the user with id and returns the stored result.
//
// When an email is supplied, a different user already holding it yields
// ErrEmailTaken. The check and the write are separate statements; a concurrent
// writer that wins the race is caught by the unique index and reported the same way.
func (s *UserService) UpdateUser(ctx context.Context, id int64, update model.UserUpdate) (*model.User, error) {
	var user *model.User

	err := s.session(ctx, func(users repository.Users) error {
		if email, ok := update.Email.Get(); ok {
			existing, err := users.GetUserByEmail(ctx, email)
			if err != nil {
				return err
			}
			if holder, ok := existing.Get(); ok && holder.ID != id {
				return ErrEmailTaken
			}
		}

		updated, err := users.UpdateUser(ctx, id, update)
		if err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				return ErrEmailTaken
			}
			return err
		}

		u, ok := updated.Get()
		if !ok {
			return ErrUserNotFound
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.metrics.IncDuplicateEmail()
			s.logger.Info("email already registered", slog.Int64("user_id", id))
		}
		return nil, err
	}

	if !update.IsEmpty() {
		s.metrics.IncUserUpdated()
		s.logger.Info("user updated", slog.Int64("user_id", id))
	}

	return user, nil
}

// session runs fn on one pooled connection and records how long it was held.
func (s *UserService) session(ctx context.Context, fn func(repository.Users) error) error {
	start := time.Now()
	err := s.store.WithSession(ctx, fn)
	s.metrics.ObserveStoreDuration(time.Since(start))

	if err != nil && !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrEmailTaken) {
		return fmt.Errorf("user store: %w", err)
	}
	return err
}
