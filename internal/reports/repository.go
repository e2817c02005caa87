package reports

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Repository provides report, visualization and metadata persistence.
type Repository interface {
	Get(ctx context.Context, accountID, userID, reportID int64) (Report, error)
	List(ctx context.Context, accountID, userID int64) ([]Report, error)
	InsertVisualization(ctx context.Context, v Visualization) (int64, error)
	UpdateVisualization(ctx context.Context, v Visualization) error
	DeleteVisualization(ctx context.Context, visualizationID int64) error
	VisualizationReport(ctx context.Context, visualizationID int64) (int64, error)
	Datasets(ctx context.Context) ([]Dataset, error)
	MetadataEntries(ctx context.Context, accountID int64) (categories, privileges, roles []MetadataEntry, err error)
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	store *db.Store
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(store *db.Store) *PGRepository {
	return &PGRepository{store: store}
}

const reportColumns = `
	q.query_id,
	q.account_id,
	COALESCE(q.category_id, 0),
	COALESCE(q.name, ''),
	COALESCE(q.query, ''),
	COALESCE(q.connection_id, 0),
	q.added_by,
	COALESCE(q.roles, ''),
	(
		EXISTS (
			SELECT 1 FROM tb_user_query uq
			WHERE uq.query_id = q.query_id AND uq.user_id = $2
		)
		OR EXISTS (
			SELECT 1
			FROM tb_visualization_dashboard vd
			JOIN tb_query_visualizations qv USING (visualization_id)
			JOIN tb_user_dashboard ud ON ud.dashboard_id = vd.dashboard_id
			WHERE qv.query_id = q.query_id AND ud.user_id = $2
		)
	) AS flag`

// Get loads a single enabled, undeleted report.
func (r *PGRepository) Get(ctx context.Context, accountID, userID, reportID int64) (Report, error) {
	row := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT`+reportColumns+`
		FROM tb_query q
		WHERE q.query_id = $3
		  AND q.account_id = $1
		  AND q.is_enabled
		  AND NOT q.is_deleted`,
		accountID, userID, reportID)
	return scanReport(row)
}

// List returns the account's enabled reports.
func (r *PGRepository) List(ctx context.Context, accountID, userID int64) ([]Report, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT`+reportColumns+`
		FROM tb_query q
		WHERE q.account_id = $1
		  AND q.is_enabled
		  AND NOT q.is_deleted
		ORDER BY q.query_id`,
		accountID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// InsertVisualization stores a new visualization.
func (r *PGRepository) InsertVisualization(ctx context.Context, v Visualization) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx, db.ModeWrite, `
		INSERT INTO tb_query_visualizations (query_id, name, type, options)
		VALUES ($1, $2, $3, $4)
		RETURNING visualization_id`,
		v.QueryID, v.Name, v.Type, v.Options).Scan(&id)
	return id, err
}

// UpdateVisualization replaces the mutable visualization fields.
func (r *PGRepository) UpdateVisualization(ctx context.Context, v Visualization) error {
	tag, err := r.store.Exec(ctx, db.ModeWrite, `
		UPDATE tb_query_visualizations
		SET name = $2, type = $3, options = $4
		WHERE visualization_id = $1`,
		v.VisualizationID, v.Name, v.Type, v.Options)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteVisualization removes a visualization.
func (r *PGRepository) DeleteVisualization(ctx context.Context, visualizationID int64) error {
	tag, err := r.store.Exec(ctx, db.ModeWrite, `
		DELETE FROM tb_query_visualizations WHERE visualization_id = $1`,
		visualizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// VisualizationReport resolves the report backing a visualization.
func (r *PGRepository) VisualizationReport(ctx context.Context, visualizationID int64) (int64, error) {
	var reportID int64
	err := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT query_id FROM tb_query_visualizations WHERE visualization_id = $1`,
		visualizationID).Scan(&reportID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return reportID, err
}

// Datasets lists the reports feeding account metadata.
func (r *PGRepository) Datasets(ctx context.Context) ([]Dataset, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT dataset_id, query_id, name FROM tb_query_datasets ORDER BY dataset_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		var dataset Dataset
		if err := rows.Scan(&dataset.DatasetID, &dataset.QueryID, &dataset.Name); err != nil {
			return nil, err
		}
		datasets = append(datasets, dataset)
	}
	return datasets, rows.Err()
}

// MetadataEntries loads the account's categories plus the global privilege
// and role catalogs in one round trip.
func (r *PGRepository) MetadataEntries(ctx context.Context, accountID int64) ([]MetadataEntry, []MetadataEntry, []MetadataEntry, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT 'categories' AS kind, category_id, name, COALESCE(is_admin, false)
		FROM tb_categories
		WHERE account_id = $1
		UNION ALL
		SELECT 'privileges', privilege_id, name, COALESCE(is_admin, false)
		FROM tb_privileges
		UNION ALL
		SELECT 'roles', role_id, name, COALESCE(is_admin, false)
		FROM tb_roles
		WHERE account_id = $1`,
		accountID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()

	var categories, privileges, roles []MetadataEntry
	for rows.Next() {
		var kind string
		var entry MetadataEntry
		if err := rows.Scan(&kind, &entry.ID, &entry.Name, &entry.IsAdmin); err != nil {
			return nil, nil, nil, err
		}
		switch kind {
		case "categories":
			categories = append(categories, entry)
		case "privileges":
			privileges = append(privileges, entry)
		case "roles":
			roles = append(roles, entry)
		}
	}
	return categories, privileges, roles, rows.Err()
}

func scanReport(row pgx.Row) (Report, error) {
	var report Report
	var roles string
	err := row.Scan(&report.QueryID, &report.AccountID, &report.CategoryID, &report.Name, &report.Query, &report.ConnectionID, &report.AddedBy, &roles, &report.Flag)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, shared.ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}
	report.Roles = parseRoleList(roles)
	return report, nil
}

func parseRoleList(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		roles = append(roles, id)
	}
	return roles
}
