package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/mo"

	"github.com/asdf-project/user-service/internal/model"
)

// Common errors for user repository operations.
var (
	ErrEmailExists = errors.New("email already exists")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

const userColumns = "id, email, created_at, updated_at"

// Users is the set of user queries. Absence is reported as mo.None, never as an error.
type Users interface {
	GetUserByID(ctx context.Context, id int64) (mo.Option[*model.User], error)
	GetUserByEmail(ctx context.Context, email string) (mo.Option[*model.User], error)
	UpdateUser(ctx context.Context, id int64, update model.UserUpdate) (mo.Option[*model.User], error)
}

// UserQueries runs user queries on a pool, a single connection or a transaction.
type UserQueries struct {
	db    querier
	table string
}

var _ Users = (*UserQueries)(nil)

// GetUserByID retrieves a user by their ID.
func (q *UserQueries) GetUserByID(ctx context.Context, id int64) (mo.Option[*model.User], error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, userColumns, q.table)

	user, err := scanUser(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*model.User](), nil
		}
		return mo.None[*model.User](), fmt.Errorf("failed to get user by ID: %w", err)
	}

	return mo.Some(user), nil
}

// GetUserByEmail retrieves a user by their email address.
func (q *UserQueries) GetUserByEmail(ctx context.Context, email string) (mo.Option[*model.User], error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE email = $1
	`, userColumns, q.table)

	user, err := scanUser(q.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*model.User](), nil
		}
		return mo.None[*model.User](), fmt.Errorf("failed to get user by email: %w", err)
	}

	return mo.Some(user), nil
}

// UpdateUser applies the present fields of update and refreshes updated_at.
// An update with no fields present is a read: nothing is written.
func (q *UserQueries) UpdateUser(ctx context.Context, id int64, update model.UserUpdate) (mo.Option[*model.User], error) {
	if update.IsEmpty() {
		return q.GetUserByID(ctx, id)
	}

	args := []any{id}
	sets := make([]string, 0, 2)

	if email, ok := update.Email.Get(); ok {
		args = append(args, email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $1
		RETURNING %s
	`, q.table, strings.Join(sets, ", "), userColumns)

	user, err := scanUser(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*model.User](), nil
		}
		if isUniqueViolation(err) {
			return mo.None[*model.User](), ErrEmailExists
		}
		return mo.None[*model.User](), fmt.Errorf("failed to update user: %w", err)
	}

	return mo.Some(user), nil
}

// scanUser scans a single row into a User.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
