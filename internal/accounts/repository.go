package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Repository provides account and feature persistence.
type Repository interface {
	FindByID(ctx context.Context, accountID int64) (Account, error)
	FindByHost(ctx context.Context, host string) (Account, error)
	ListFeatures(ctx context.Context, accountID int64) ([]Feature, error)
	ToggleFeature(ctx context.Context, accountID, featureID int64, status bool) error
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	store *db.Store
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(store *db.Store) *PGRepository {
	return &PGRepository{store: store}
}

// FindByID loads an active account.
func (r *PGRepository) FindByID(ctx context.Context, accountID int64) (Account, error) {
	row := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT account_id, name, url, COALESCE(logo, '')
		FROM tb_accounts
		WHERE account_id = $1 AND status = 1`,
		accountID)
	return scanAccount(row)
}

// FindByHost resolves the tenant serving a request host.
func (r *PGRepository) FindByHost(ctx context.Context, host string) (Account, error) {
	row := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT account_id, name, url, COALESCE(logo, '')
		FROM tb_accounts
		WHERE url = $1 AND status = 1`,
		host)
	return scanAccount(row)
}

// ListFeatures returns the account's feature toggles.
func (r *PGRepository) ListFeatures(ctx context.Context, accountID int64) ([]Feature, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT f.feature_id, f.name, COALESCE(af.status, false)
		FROM tb_features f
		LEFT JOIN tb_account_features af
			ON af.feature_id = f.feature_id AND af.account_id = $1
		ORDER BY f.feature_id`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []Feature
	for rows.Next() {
		var feature Feature
		if err := rows.Scan(&feature.FeatureID, &feature.Name, &feature.Status); err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	return features, rows.Err()
}

// ToggleFeature upserts the account/feature pairing. Unknown account or
// feature ids insert nothing and report ErrNotFound.
func (r *PGRepository) ToggleFeature(ctx context.Context, accountID, featureID int64, status bool) error {
	tag, err := r.store.Exec(ctx, db.ModeWrite, `
		INSERT INTO tb_account_features (account_id, feature_id, status)
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM tb_accounts WHERE account_id = $1)
		  AND EXISTS (SELECT 1 FROM tb_features WHERE feature_id = $2)
		ON CONFLICT (account_id, feature_id) DO UPDATE SET status = EXCLUDED.status`,
		accountID, featureID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var account Account
	err := row.Scan(&account.AccountID, &account.Name, &account.URL, &account.Logo)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, shared.ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}
