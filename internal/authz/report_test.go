package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

func newReportAuthorizer(cfg authz.Config, store *stubResources, shares *stubShares) *authz.ReportAuthorizer {
	return authz.NewReportAuthorizer(cfg, store, shares)
}

func TestReportBypass(t *testing.T) {
	a := newReportAuthorizer(authz.Config{RoleIgnore: true, PrivilegeIgnore: true}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7)

	res, err := a.Authorize(context.Background(), authz.Report{AccountID: 1}, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
}

func TestReportBypassNeedsBothToggles(t *testing.T) {
	a := newReportAuthorizer(authz.Config{RoleIgnore: true}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7)

	res, err := a.Authorize(context.Background(), authz.Report{AccountID: 1}, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
}

func TestReportIndividualFlag(t *testing.T) {
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7)

	res, err := a.Authorize(context.Background(), authz.Report{AccountID: 1, Flag: true}, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "individual access", res.Message)
}

func TestReportOwnershipSupremacy(t *testing.T) {
	// The owner gets access regardless of share or role state.
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7)

	res, err := a.Authorize(context.Background(), authz.Report{AccountID: 1, AddedBy: 7}, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "report owner", res.Message)
}

func TestReportConnectionGate(t *testing.T) {
	store := newStubResources()
	store.connections[3] = authz.Connection{ID: 3, AccountID: 1, AddedBy: 99}
	a := newReportAuthorizer(authz.Config{}, store, &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 2, ConnectionID: 3, Roles: []int64{5}}

	// The report's own policy matches, but the connection is unreachable.
	res, err := a.Authorize(context.Background(), report, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
	require.Equal(t, "connection error", res.Message)
}

func TestReportMissingConnectionDenies(t *testing.T) {
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 2, ConnectionID: 3, Roles: []int64{5}}

	res, err := a.Authorize(context.Background(), report, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
	require.Equal(t, "connection error", res.Message)
}

func TestReportOrphanFailsClosed(t *testing.T) {
	// No role shares and no owner match: unreachable even for a user with
	// arbitrary roles.
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7,
		shared.RoleGrant{CategoryID: 0, RoleID: 0},
		shared.RoleGrant{CategoryID: 2, RoleID: 5})
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 2}

	res, err := a.Authorize(context.Background(), report, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
	require.Equal(t, "report is not shared with anyone", res.Message)
}

func TestReportDashboardRoleInheritance(t *testing.T) {
	store := newStubResources()
	store.reportDashboards[20] = []int64{30}
	shares := &stubShares{rows: []authz.ObjectRole{
		{AccountID: 1, OwnerType: authz.OwnerDashboard, OwnerID: 30, TargetType: authz.TargetRole, TargetID: 5, CategoryID: 2},
	}}
	a := newReportAuthorizer(authz.Config{}, store, shares)
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})
	// Report's own policy would deny (role 9 only).
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 2, Roles: []int64{9}}

	res, err := a.Authorize(context.Background(), report, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "authenticated via dashboard role", res.Message)
}

func TestReportFallbackPolicyMatch(t *testing.T) {
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 2, Roles: []int64{5}}

	res, err := a.Authorize(context.Background(), report, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.False(t, res.Error)
}

func TestReportFallbackCategoryMismatch(t *testing.T) {
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 9, Roles: []int64{5}}

	res, err := a.Authorize(context.Background(), report, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
}

func TestReportMonotonicity(t *testing.T) {
	// Granting an extra role never turns a success into a denial.
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 2, Roles: []int64{5}}

	base := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})
	resBase, err := a.Authorize(context.Background(), report, base, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, resBase.Allowed())

	extended := userWithRoles(1, 7,
		shared.RoleGrant{CategoryID: 2, RoleID: 5},
		shared.RoleGrant{CategoryID: 9, RoleID: 1},
		shared.RoleGrant{CategoryID: 0, RoleID: 0})
	resExt, err := a.Authorize(context.Background(), report, extended, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, resExt.Allowed())
}

func TestReportAuthorizeByIDNotFound(t *testing.T) {
	a := newReportAuthorizer(authz.Config{}, newStubResources(), &stubShares{})
	user := userWithRoles(1, 7)

	res, err := a.AuthorizeByID(context.Background(), 404, user, authz.ReportOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
	require.Equal(t, "report does not exist", res.Message)
}
