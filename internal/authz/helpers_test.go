package authz_test

import (
	"context"
	"slices"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// stubShares is an in-memory ObjectRoleStore filtering rows the same way the
// SQL implementation does.
type stubShares struct {
	rows []authz.ObjectRole
	err  error
}

func (s *stubShares) Get(_ context.Context, accountID int64, owner authz.OwnerType, target authz.TargetType, ownerIDs []int64, targetIDs ...int64) ([]authz.ObjectRole, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []authz.ObjectRole
	for _, row := range s.rows {
		if row.AccountID != accountID || row.OwnerType != owner || row.TargetType != target {
			continue
		}
		if !slices.Contains(ownerIDs, row.OwnerID) {
			continue
		}
		if len(targetIDs) > 0 && !slices.Contains(targetIDs, row.TargetID) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// stubResources is an in-memory ResourceStore.
type stubResources struct {
	connections      map[int64]authz.Connection
	reports          map[int64]authz.Report
	dashboards       map[int64]authz.Dashboard
	dashboardReports map[int64][]authz.Report
	reportDashboards map[int64][]int64
}

func newStubResources() *stubResources {
	return &stubResources{
		connections:      make(map[int64]authz.Connection),
		reports:          make(map[int64]authz.Report),
		dashboards:       make(map[int64]authz.Dashboard),
		dashboardReports: make(map[int64][]authz.Report),
		reportDashboards: make(map[int64][]int64),
	}
}

func (s *stubResources) Connection(_ context.Context, accountID, connectionID int64) (authz.Connection, error) {
	conn, ok := s.connections[connectionID]
	if !ok || conn.AccountID != accountID {
		return authz.Connection{}, authz.ErrResourceNotFound
	}
	return conn, nil
}

func (s *stubResources) Report(_ context.Context, accountID, _, reportID int64) (authz.Report, error) {
	report, ok := s.reports[reportID]
	if !ok || report.AccountID != accountID {
		return authz.Report{}, authz.ErrResourceNotFound
	}
	return report, nil
}

func (s *stubResources) Dashboard(_ context.Context, accountID, dashboardID int64) (authz.Dashboard, error) {
	dashboard, ok := s.dashboards[dashboardID]
	if !ok || dashboard.AccountID != accountID {
		return authz.Dashboard{}, authz.ErrResourceNotFound
	}
	return dashboard, nil
}

func (s *stubResources) DashboardReports(_ context.Context, _, _, dashboardID int64) ([]authz.Report, error) {
	return s.dashboardReports[dashboardID], nil
}

func (s *stubResources) ReportDashboards(_ context.Context, _, reportID int64) ([]int64, error) {
	return s.reportDashboards[reportID], nil
}

func userWithRoles(accountID, userID int64, roles ...shared.RoleGrant) *shared.UserContext {
	return &shared.UserContext{
		AccountID: accountID,
		UserID:    userID,
		Roles:     roles,
	}
}
