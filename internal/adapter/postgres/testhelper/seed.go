package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueNamespace returns a namespace no other test uses, so tests can share
// the container without cleaning up.
func UniqueNamespace() string {
	return "test-" + uuid.New().String()[:8]
}

// SeedKV writes a raw row into engine_kv.
func SeedKV(t *testing.T, pool *pgxpool.Pool, namespace, key string, value []byte) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO engine_kv (namespace, key, value) VALUES ($1, $2, $3)`,
		namespace, key, value,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedKV insert: %v", err)
	}
}
