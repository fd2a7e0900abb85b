package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

type PgRepository struct {
	db    *sqlx.DB
	clock func() time.Time
}

type Option func(*PgRepository)

// WithClock replaces time.Now as the source of created_at and updated_at values.
func WithClock(clock func() time.Time) Option {
	return func(r *PgRepository) {
		r.clock = clock
	}
}

func NewPgRepository(host, database, user, password, port, sslMode string) *PgRepository {
	db := sqlx.MustConnect("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslMode,
	))

	// With 3 replicas × 15 conns = 45 total connections (safer for default PG max_connections=100)
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewRepository(db)
}

// NewRepository wraps an already opened database. Queries are written with ? placeholders
// and rebound for the driver, so any sqlx-registered driver works.
func NewRepository(db *sqlx.DB, opts ...Option) *PgRepository {
	r := &PgRepository{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates any missing tables and indexes.
func (r *PgRepository) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, r.db)
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]any {
	stats := r.db.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

func (r *PgRepository) now() time.Time {
	return r.clock().UTC().Truncate(time.Microsecond)
}

func (r *PgRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.inTx(ctx, nil, fn)
}

// readTx runs fn in a read-only REPEATABLE READ transaction, so all of its statements see
// the same snapshot.
func (r *PgRepository) readTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.inTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (r *PgRepository) inTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zap.L().Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}

// count runs a SELECT COUNT(*) style query written with ? placeholders.
func (r *PgRepository) count(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (int, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return 0, err
	}

	var n int
	if err := sqlx.GetContext(ctx, q, &n, r.db.Rebind(query), args...); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// exists reports whether a row with the given id is present in table.
func (r *PgRepository) exists(ctx context.Context, q sqlx.QueryerContext, table, id string) (bool, error) {
	n, err := r.count(ctx, q, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table), id)
	return n > 0, err
}
