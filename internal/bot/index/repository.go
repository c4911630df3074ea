// Package index durably maps an uploader identity to the URLs it has
// uploaded, in insertion order.
package index

import (
	"context"
	"strings"
)

// Repository records which owner uploaded which file URL. Records are
// append-only: they are never mutated or deleted, and duplicate pairs are
// legitimate (the same image uploaded twice produces two records).
type Repository interface {
	// Append durably records the pair. Each call is atomic: a partially
	// written record is never observable.
	Append(ctx context.Context, ownerID, url string) error

	// ListByOwner returns every URL recorded for the owner, oldest first.
	// An owner with no records gets an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID string) ([]string, error)

	Close() error
}

// Open selects a backend from the DSN: postgres:// DSNs get a pgx-backed
// repository, anything else is treated as a sqlite database path.
func Open(ctx context.Context, dsn string) (Repository, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresRepository(ctx, dsn)
	}
	return NewSQLiteRepository(ctx, dsn)
}
