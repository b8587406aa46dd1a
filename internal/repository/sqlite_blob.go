package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/db"
)

// SQLiteBlobStore is an app.BlobStore over the kv_store table.
type SQLiteBlobStore struct {
	db db.DBTX
}

var _ app.BlobStore = (*SQLiteBlobStore)(nil)

func NewSQLiteBlobStore(db db.DBTX) *SQLiteBlobStore {
	return &SQLiteBlobStore{db: db}
}

func (s *SQLiteBlobStore) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, app.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteBlobStore) PutBlob(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, nowUTC())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteBlobStore) DeleteBlob(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return app.ErrBlobNotFound
	}
	return nil
}
