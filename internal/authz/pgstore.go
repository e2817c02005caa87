package authz

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
)

// PGStore is the PostgreSQL implementation of ResourceStore and
// ObjectRoleStore. Every lookup is tenant-scoped and read-mode; disabled or
// deleted rows are filtered here so the authorizers never see them.
type PGStore struct {
	store *db.Store
}

// NewPGStore constructs a PGStore over the query facade.
func NewPGStore(store *db.Store) *PGStore {
	return &PGStore{store: store}
}

const reportColumns = `
	q.query_id,
	q.account_id,
	COALESCE(q.category_id, 0),
	q.added_by,
	COALESCE(q.connection_id, 0),
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

// Report loads a single enabled, undeleted report with the individual-share
// flag precomputed for the requesting user.
func (s *PGStore) Report(ctx context.Context, accountID, userID, reportID int64) (Report, error) {
	row := s.store.QueryRow(ctx, db.ModeRead, `
		SELECT`+reportColumns+`
		FROM tb_query q
		WHERE q.query_id = $3
		  AND q.account_id = $1
		  AND q.is_enabled
		  AND NOT q.is_deleted`,
		accountID, userID, reportID)
	return scanReport(row)
}

// DashboardReports loads the reports contained in a dashboard through the
// visualization join, flags precomputed for the requesting user.
func (s *PGStore) DashboardReports(ctx context.Context, accountID, userID, dashboardID int64) ([]Report, error) {
	rows, err := s.store.Query(ctx, db.ModeRead, `
		SELECT`+reportColumns+`
		FROM tb_query q
		WHERE q.account_id = $1
		  AND q.is_enabled
		  AND NOT q.is_deleted
		  AND q.query_id IN (
			SELECT qv.query_id
			FROM tb_visualization_dashboard vd
			JOIN tb_query_visualizations qv USING (visualization_id)
			WHERE vd.dashboard_id = $3
		  )`,
		accountID, userID, dashboardID)
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

// ReportDashboards returns ids of dashboards containing the report.
func (s *PGStore) ReportDashboards(ctx context.Context, accountID, reportID int64) ([]int64, error) {
	rows, err := s.store.Query(ctx, db.ModeRead, `
		SELECT DISTINCT vd.dashboard_id
		FROM tb_visualization_dashboard vd
		JOIN tb_query_visualizations qv USING (visualization_id)
		JOIN tb_dashboards d ON d.id = vd.dashboard_id
		WHERE qv.query_id = $2 AND d.account_id = $1`,
		accountID, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Dashboard loads a single active dashboard.
func (s *PGStore) Dashboard(ctx context.Context, accountID, dashboardID int64) (Dashboard, error) {
	var dashboard Dashboard
	err := s.store.QueryRow(ctx, db.ModeRead, `
		SELECT d.id, d.account_id, d.added_by, d.visibility
		FROM tb_dashboards d
		WHERE d.id = $2 AND d.account_id = $1 AND d.status = 1`,
		accountID, dashboardID).
		Scan(&dashboard.ID, &dashboard.AccountID, &dashboard.AddedBy, &dashboard.Visibility)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dashboard{}, ErrResourceNotFound
	}
	if err != nil {
		return Dashboard{}, err
	}
	return dashboard, nil
}

// Connection loads a single enabled connection.
func (s *PGStore) Connection(ctx context.Context, accountID, connectionID int64) (Connection, error) {
	var conn Connection
	err := s.store.QueryRow(ctx, db.ModeRead, `
		SELECT c.id, c.account_id, c.added_by
		FROM tb_credentials c
		WHERE c.id = $2 AND c.account_id = $1 AND c.status = 1`,
		accountID, connectionID).
		Scan(&conn.ID, &conn.AccountID, &conn.AddedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return Connection{}, ErrResourceNotFound
	}
	if err != nil {
		return Connection{}, err
	}
	return conn, nil
}

// Get returns share edges matching the filter. An optional target id narrows
// the grantee side.
func (s *PGStore) Get(ctx context.Context, accountID int64, owner OwnerType, target TargetType, ownerIDs []int64, targetIDs ...int64) ([]ObjectRole, error) {
	query := `
		SELECT id, account_id, owner, owner_id, target, target_id, COALESCE(category_id, 0)
		FROM tb_object_roles
		WHERE account_id = $1 AND owner = $2 AND target = $3 AND owner_id = ANY($4)`
	args := []any{accountID, string(owner), string(target), ownerIDs}
	if len(targetIDs) > 0 {
		query += ` AND target_id = ANY($5)`
		args = append(args, targetIDs)
	}

	rows, err := s.store.Query(ctx, db.ModeRead, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []ObjectRole
	for rows.Next() {
		var share ObjectRole
		if err := rows.Scan(&share.ID, &share.AccountID, &share.OwnerType, &share.OwnerID, &share.TargetType, &share.TargetID, &share.CategoryID); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

func scanReport(row pgx.Row) (Report, error) {
	var report Report
	var roles string
	err := row.Scan(&report.ID, &report.AccountID, &report.CategoryID, &report.AddedBy, &report.ConnectionID, &roles, &report.Flag)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrResourceNotFound
	}
	if err != nil {
		return Report{}, err
	}
	report.Roles = parseRoleList(roles)
	return report, nil
}

// parseRoleList parses the comma-separated role column carried over from the
// legacy schema. Unparseable entries are dropped rather than failing the load.
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
