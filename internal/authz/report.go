package authz

import (
	"context"
	"errors"

	"github.com/Ravikant96/AllSpark/internal/shared"
)

// ReportOptions carries pre-fetched rows for the report resolution chain.
// DashboardRoles are the role shares of dashboards containing the report,
// supplied by callers that already walked the containment join.
type ReportOptions struct {
	DashboardRoles     []ObjectRole
	HaveDashboardRoles bool
}

// ReportAuthorizer resolves access to a single report. The rule chain is
// totally ordered; once a rule matches, later rules are unreachable:
//
//  1. operational bypass (config)
//  2. precomputed individual-share flag
//  3. ownership
//  4. connection gate (a failure here is final)
//  5. orphan rule: no role shares and not the owner denies
//  6. inherited dashboard role shares
//  7. report role/category policy match
type ReportAuthorizer struct {
	cfg         Config
	store       ResourceStore
	shares      ObjectRoleStore
	connections *ConnectionAuthorizer
}

// NewReportAuthorizer constructs a ReportAuthorizer.
func NewReportAuthorizer(cfg Config, store ResourceStore, shares ObjectRoleStore) *ReportAuthorizer {
	return &ReportAuthorizer{
		cfg:         cfg,
		store:       store,
		shares:      shares,
		connections: NewConnectionAuthorizer(shares),
	}
}

// AuthorizeByID loads the report and resolves access. A missing report is a
// denial, not an error.
func (a *ReportAuthorizer) AuthorizeByID(ctx context.Context, reportID int64, user *shared.UserContext, opts ReportOptions) (Result, error) {
	report, err := a.store.Report(ctx, user.AccountID, user.UserID, reportID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return Deny("report does not exist"), nil
		}
		return Result{}, err
	}
	return a.Authorize(ctx, report, user, opts)
}

// Authorize resolves access to an already-loaded report.
func (a *ReportAuthorizer) Authorize(ctx context.Context, report Report, user *shared.UserContext, opts ReportOptions) (Result, error) {
	if a.cfg.BypassEnabled() {
		return Allow("role and privilege checks disabled"), nil
	}

	if report.Flag {
		return Allow("individual access"), nil
	}

	if report.AddedBy == user.UserID {
		return Allow("report owner"), nil
	}

	if report.ConnectionID != 0 {
		conn, err := a.store.Connection(ctx, report.AccountID, report.ConnectionID)
		if err != nil {
			if errors.Is(err, ErrResourceNotFound) {
				return Deny("connection error"), nil
			}
			return Result{}, err
		}
		res, err := a.connections.Authorize(ctx, conn, user, ConnectionOptions{})
		if err != nil {
			return Result{}, err
		}
		if !res.Allowed() {
			// A report is never reachable through a connection the user
			// cannot use, regardless of later rules.
			return Deny("connection error"), nil
		}
	}

	if len(report.Roles) == 0 {
		return Deny("report is not shared with anyone"), nil
	}

	dashboardRoles := opts.DashboardRoles
	if !opts.HaveDashboardRoles {
		dashboardIDs, err := a.store.ReportDashboards(ctx, report.AccountID, report.ID)
		if err != nil {
			return Result{}, err
		}
		if len(dashboardIDs) > 0 {
			dashboardRoles, err = a.shares.Get(ctx, report.AccountID, OwnerDashboard, TargetRole, dashboardIDs)
			if err != nil {
				return Result{}, err
			}
		}
	}
	if res := MatchTuples(UserTuples(user), ShareTuples(dashboardRoles)); res.Allowed() {
		return Allow("authenticated via dashboard role"), nil
	}

	return MatchTuples(UserTuples(user), ResourceTuples(report.AccountID, []int64{report.CategoryID}, report.Roles)), nil
}
