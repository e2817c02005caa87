package dashboards

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Repository provides dashboard lookups, pre-filtered to active rows.
type Repository interface {
	Get(ctx context.Context, accountID, dashboardID int64) (Dashboard, error)
	List(ctx context.Context, accountID int64) ([]Dashboard, error)
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	store *db.Store
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(store *db.Store) *PGRepository {
	return &PGRepository{store: store}
}

// Get loads a single active dashboard.
func (r *PGRepository) Get(ctx context.Context, accountID, dashboardID int64) (Dashboard, error) {
	var dashboard Dashboard
	err := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT d.id, d.account_id, COALESCE(d.name, ''), d.added_by, d.visibility
		FROM tb_dashboards d
		WHERE d.id = $2 AND d.account_id = $1 AND d.status = 1`,
		accountID, dashboardID).
		Scan(&dashboard.ID, &dashboard.AccountID, &dashboard.Name, &dashboard.AddedBy, &dashboard.Visibility)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dashboard{}, shared.ErrNotFound
	}
	if err != nil {
		return Dashboard{}, err
	}
	return dashboard, nil
}

// List returns the account's active dashboards.
func (r *PGRepository) List(ctx context.Context, accountID int64) ([]Dashboard, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT d.id, d.account_id, COALESCE(d.name, ''), d.added_by, d.visibility
		FROM tb_dashboards d
		WHERE d.account_id = $1 AND d.status = 1
		ORDER BY d.id`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dashboards []Dashboard
	for rows.Next() {
		var dashboard Dashboard
		if err := rows.Scan(&dashboard.ID, &dashboard.AccountID, &dashboard.Name, &dashboard.AddedBy, &dashboard.Visibility); err != nil {
			return nil, err
		}
		dashboards = append(dashboards, dashboard)
	}
	return dashboards, rows.Err()
}
