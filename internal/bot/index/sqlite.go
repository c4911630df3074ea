package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register the "sqlite" database/sql driver
)

// sqliteSchema keeps insertion order explicit through the rowid-backed id
// column. No uniqueness constraints: duplicate (owner, url) pairs are data.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS images (
	id        INTEGER PRIMARY KEY,
	owner_id  TEXT NOT NULL,
	image_url TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_images_owner_id ON images(owner_id);
`

// SQLiteRepository stores ownership records in an embedded sqlite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the sqlite database at path
// and ensures the schema exists.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Single writer, WAL for concurrent readers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Append(ctx context.Context, ownerID, url string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO images (owner_id, image_url) VALUES (?, ?)", ownerID, url)
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT image_url FROM images WHERE owner_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
