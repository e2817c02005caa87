package connections

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Repository provides connection lookups, pre-filtered to enabled rows.
type Repository interface {
	Get(ctx context.Context, accountID, connectionID int64) (Connection, error)
	List(ctx context.Context, accountID int64) ([]Connection, error)
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	store *db.Store
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(store *db.Store) *PGRepository {
	return &PGRepository{store: store}
}

// Get loads a single enabled connection.
func (r *PGRepository) Get(ctx context.Context, accountID, connectionID int64) (Connection, error) {
	var conn Connection
	err := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT id, account_id, connection_name, type, added_by
		FROM tb_credentials
		WHERE id = $2 AND account_id = $1 AND status = 1`,
		accountID, connectionID).
		Scan(&conn.ID, &conn.AccountID, &conn.Name, &conn.Type, &conn.AddedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return Connection{}, shared.ErrNotFound
	}
	if err != nil {
		return Connection{}, err
	}
	return conn, nil
}

// List returns the account's enabled connections.
func (r *PGRepository) List(ctx context.Context, accountID int64) ([]Connection, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT id, account_id, connection_name, type, added_by
		FROM tb_credentials
		WHERE account_id = $1 AND status = 1
		ORDER BY id`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []Connection
	for rows.Next() {
		var conn Connection
		if err := rows.Scan(&conn.ID, &conn.AccountID, &conn.Name, &conn.Type, &conn.AddedBy); err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}
