package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/db"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// SQLiteAuthSessionRepo stores bearer sessions by token hash; raw tokens are
// never written.
type SQLiteAuthSessionRepo struct {
	db db.DBTX
}

func NewSQLiteAuthSessionRepo(db db.DBTX) *SQLiteAuthSessionRepo {
	return &SQLiteAuthSessionRepo{db: db}
}

func (r *SQLiteAuthSessionRepo) Create(ctx context.Context, s *domain.AuthSession) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO auth_sessions (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.TokenHash, s.ExpiresAt.UTC().Format(timeLayout), s.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting auth session: %w", err)
	}
	return nil
}

func (r *SQLiteAuthSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.AuthSession, error) {
	var s domain.AuthSession
	var expiresAt, createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, token_hash, expires_at, created_at
		FROM auth_sessions WHERE token_hash = ?`, tokenHash).
		Scan(&s.ID, &s.UserID, &s.TokenHash, &expiresAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("auth session: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning auth session: %w", err)
	}
	if s.ExpiresAt, err = time.Parse(timeLayout, expiresAt); err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}
	if s.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteAuthSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return fmt.Errorf("deleting auth session: %w", err)
	}
	return requireAffected(res, "auth session")
}

func (r *SQLiteAuthSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at <= ?`, now.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}
