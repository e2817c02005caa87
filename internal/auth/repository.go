package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// resetTokenTTL bounds how long a password reset link stays valid.
const resetTokenTTL = time.Hour

// Repository persists password reset tokens.
type Repository interface {
	// CreateResetToken deactivates any live token for the user and stores a
	// fresh one.
	CreateResetToken(ctx context.Context, userID int64, token string) error
	// ConsumeResetToken resolves a live, unexpired token to its user id and
	// burns it. Returns shared.ErrNotFound for unknown or expired tokens.
	ConsumeResetToken(ctx context.Context, token string) (int64, error)
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	store *db.Store
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(store *db.Store) *PGRepository {
	return &PGRepository{store: store}
}

// CreateResetToken implements Repository. A user holds at most one live
// token at a time.
func (r *PGRepository) CreateResetToken(ctx context.Context, userID int64, token string) error {
	return db.WithTx(ctx, r.store.Pool(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE tb_password_reset SET status = 0 WHERE status = 1 AND user_id = $1`,
			userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO tb_password_reset (user_id, reset_token, status) VALUES ($1, $2, 1)`,
			userID, token)
		return err
	})
}

// ConsumeResetToken implements Repository.
func (r *PGRepository) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT user_id
		FROM tb_password_reset
		WHERE reset_token = $1
		  AND status = 1
		  AND created_at > now() - make_interval(secs => $2)`,
		token, resetTokenTTL.Seconds()).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if _, err := r.store.Exec(ctx, db.ModeWrite, `
		UPDATE tb_password_reset SET status = 0 WHERE status = 1 AND user_id = $1`,
		userID); err != nil {
		return 0, err
	}
	return userID, nil
}
