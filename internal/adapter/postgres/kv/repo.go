// Package kv stores the engine's local state in PostgreSQL, one row per key
// within a namespace.
package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/readrace/internal/adapter/postgres"
)

const table = "engine_kv"

// Repo is a namespaced key-value store backed by PostgreSQL.
type Repo struct {
	pool      *pgxpool.Pool
	namespace string
	now       func() time.Time
}

// New creates a Repo whose keys live under namespace.
func New(pool *pgxpool.Pool, namespace string) *Repo {
	return &Repo{pool: pool, namespace: namespace, now: time.Now}
}

// Get returns the value stored at key, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := postgres.Builder().
		Select("value").
		From(table).
		Where(squirrel.Eq{"namespace": r.namespace, "key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var value []byte
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return nil, postgres.MapError(err, "kv", key)
	}
	return value, nil
}

// Put upserts value at key.
func (r *Repo) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("namespace", "key", "value", "updated_at").
		Values(r.namespace, key, value, r.now().UTC()).
		Suffix("ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build put query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "kv", key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *Repo) Delete(ctx context.Context, key string) error {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"namespace": r.namespace, "key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "kv", key)
	}
	return nil
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
