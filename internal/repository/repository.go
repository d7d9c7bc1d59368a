// Package repository provides database access layer.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// querier is the subset of pgx shared by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Options tunes the connection pool.
type Options struct {
	// Schema qualifies the users table. Empty means the search_path decides.
	Schema   string
	MaxConns int32
	MinConns int32
	// ConnectTimeout bounds each dial. Zero keeps the pgx default.
	ConnectTimeout time.Duration
	Logger         *slog.Logger
}

// Repository provides database access methods.
type Repository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// New creates a new Repository with a connection pool.
// Connections are opened lazily; use TestConnection or Ping to verify reachability.
func New(ctx context.Context, databaseURL string, opts Options) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.MinConns = opts.MinConns
	if opts.ConnectTimeout > 0 {
		config.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		pool:   pool,
		table:  usersTable(opts.Schema),
		logger: logger,
	}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// TestConnection issues a trivial round-trip against the database.
// Failures are logged and reported as false, never returned.
func (r *Repository) TestConnection(ctx context.Context) bool {
	return testConnection(ctx, r.pool, r.logger)
}

// WithSession acquires one pooled connection, runs fn with user queries bound
// to it, and releases the connection on every exit path.
func (r *Repository) WithSession(ctx context.Context, fn func(Users) error) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(r.bind(conn))
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// bind returns user queries that run on q.
func (r *Repository) bind(q querier) *UserQueries {
	return &UserQueries{db: q, table: r.table}
}

func testConnection(ctx context.Context, q querier, logger *slog.Logger) bool {
	var one int
	if err := q.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		logger.Error("database connection test failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// usersTable returns the quoted, optionally schema-qualified users table name.
func usersTable(schema string) string {
	if schema == "" {
		return pq.QuoteIdentifier("users")
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier("users")
}
