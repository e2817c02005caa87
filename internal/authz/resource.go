package authz

import (
	"context"
	"errors"
)

// ErrResourceNotFound is returned by ResourceStore lookups when no enabled,
// undeleted row matches within the account. Authorizers translate it into a
// denial; genuine store failures pass through untouched.
var ErrResourceNotFound = errors.New("authz: resource not found")

// Connection is the slice of a data connection the engine needs.
type Connection struct {
	ID        int64
	AccountID int64
	AddedBy   int64
}

// Report is the slice of a report/query row the engine needs. Flag is
// precomputed by the loading query: it is set when the requesting user holds
// an individual share to a dashboard containing this report. Roles is the
// report's own role-share list; empty means the report is unreachable through
// the role channel.
type Report struct {
	ID           int64
	AccountID    int64
	CategoryID   int64
	AddedBy      int64
	ConnectionID int64
	Roles        []int64
	Flag         bool
}

// Dashboard is the slice of a dashboard row the engine needs. Visibility true
// marks the dashboard private to the account, which currently bypasses all
// sharing checks.
type Dashboard struct {
	ID         int64
	AccountID  int64
	AddedBy    int64
	Visibility bool
}

// ResourceStore loads resources on demand. Implementations scope every lookup
// to the account and pre-filter disabled or deleted rows; the engine never
// re-checks status. All lookups are read-only.
type ResourceStore interface {
	Connection(ctx context.Context, accountID, connectionID int64) (Connection, error)
	Report(ctx context.Context, accountID, userID, reportID int64) (Report, error)
	Dashboard(ctx context.Context, accountID, dashboardID int64) (Dashboard, error)
	// DashboardReports returns the reports contained in a dashboard through
	// the visualization join, with Flag precomputed for the given user.
	DashboardReports(ctx context.Context, accountID, userID, dashboardID int64) ([]Report, error)
	// ReportDashboards returns ids of dashboards containing the report.
	ReportDashboards(ctx context.Context, accountID, reportID int64) ([]int64, error)
}
