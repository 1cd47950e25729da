package tokenrepo

import (
	"context"
	"database/sql"
	"time"
)

// Repo stores one-time password-reset tokens and the logout denylist.
type Repo interface {
	InsertResetToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	// ConsumeResetToken deletes the token and returns the user it belonged
	// to. sql.ErrNoRows means unknown or already used.
	ConsumeResetToken(ctx context.Context, token string) (userID int64, expiresAt time.Time, err error)

	RevokeJTI(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) InsertResetToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	const q = `
INSERT INTO password_reset_tokens (token, user_id, expires_at)
VALUES ($1,$2,$3)`
	_, err := r.db.ExecContext(ctx, q, token, userID, expiresAt)
	return err
}

func (r *repo) ConsumeResetToken(ctx context.Context, token string) (int64, time.Time, error) {
	const q = `
DELETE FROM password_reset_tokens
WHERE token = $1
RETURNING user_id, expires_at`
	var userID int64
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, q, token).Scan(&userID, &expiresAt)
	return userID, expiresAt, err
}

func (r *repo) RevokeJTI(ctx context.Context, jti string, expiresAt time.Time) error {
	const q = `
INSERT INTO revoked_tokens (jti, expires_at)
VALUES ($1,$2)
ON CONFLICT (jti) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, jti, expiresAt)
	return err
}

func (r *repo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, jti).Scan(&ok)
	return ok, err
}
