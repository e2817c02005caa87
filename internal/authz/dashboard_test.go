package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

func newDashboardAuthorizer(store *stubResources, shares *stubShares) *authz.DashboardAuthorizer {
	cfg := authz.Config{}
	reports := authz.NewReportAuthorizer(cfg, store, shares)
	return authz.NewDashboardAuthorizer(cfg, store, shares, reports)
}

func TestDashboardUserWithoutRolesFailsClosed(t *testing.T) {
	a := newDashboardAuthorizer(newStubResources(), &stubShares{})
	user := userWithRoles(1, 7)

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
	require.Equal(t, "user has no role", res.Message)
}

func TestDashboardNotFound(t *testing.T) {
	a := newDashboardAuthorizer(newStubResources(), &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
	require.Equal(t, "dashboard does not exist", res.Message)
}

func TestDashboardPrivateVisibilityBypass(t *testing.T) {
	// Current behavior: a private dashboard is reachable by any
	// authenticated user of the account, shares or not.
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 99, Visibility: true}
	a := newDashboardAuthorizer(store, &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
}

func TestDashboardOwner(t *testing.T) {
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 7}
	a := newDashboardAuthorizer(store, &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "dashboard owner", res.Message)
}

func TestDashboardDirectUserShareWildcardOnly(t *testing.T) {
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 99}
	shares := &stubShares{rows: []authz.ObjectRole{
		{AccountID: 1, OwnerType: authz.OwnerDashboard, OwnerID: 30, TargetType: authz.TargetUser, TargetID: 7, CategoryID: 4},
	}}
	a := newDashboardAuthorizer(store, shares)
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	// Category-scoped user share does not count as a direct share.
	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)

	shares.rows[0].CategoryID = authz.Wildcard
	res, err = a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "dashboard shared with user", res.Message)
}

func TestDashboardRoleMatch(t *testing.T) {
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 99}
	shares := &stubShares{rows: []authz.ObjectRole{
		{AccountID: 1, OwnerType: authz.OwnerDashboard, OwnerID: 30, TargetType: authz.TargetRole, TargetID: 5, CategoryID: 2},
	}}
	a := newDashboardAuthorizer(store, shares)
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "dashboard role match", res.Message)
}

func TestDashboardContainmentDelegatesToReports(t *testing.T) {
	// A dashboard containing exactly one report is accessible iff that
	// report is accessible to the same user.
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 99}
	report := authz.Report{ID: 20, AccountID: 1, CategoryID: 2, Roles: []int64{5}}
	store.dashboardReports[30] = []authz.Report{report}
	a := newDashboardAuthorizer(store, &stubShares{})

	allowed := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})
	res, err := a.AuthorizeByID(context.Background(), 30, allowed, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "authenticated via report 20", res.Message)

	denied := userWithRoles(1, 8, shared.RoleGrant{CategoryID: 9, RoleID: 1})
	res, err = a.AuthorizeByID(context.Background(), 30, denied, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
}

func TestDashboardContainmentVisibleQuerySet(t *testing.T) {
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 99}
	// Orphan report: the recursive path would deny it.
	store.dashboardReports[30] = []authz.Report{{ID: 20, AccountID: 1}}
	a := newDashboardAuthorizer(store, &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{
		VisibleQuerySet: map[int64]struct{}{20: {}},
	})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "authenticated via report 20", res.Message)

	res, err = a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{
		VisibleQuerySet: map[int64]struct{}{},
	})
	require.NoError(t, err)
	require.True(t, res.Error)
}

func TestDashboardSuperadminOverride(t *testing.T) {
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 99}
	a := newDashboardAuthorizer(store, &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 9, RoleID: 1})
	user.Privileges = []shared.PrivilegeGrant{{Name: shared.PrivilegeSuperadmin}}

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
}

func TestDashboardDeniedWhenNothingMatches(t *testing.T) {
	store := newStubResources()
	store.dashboards[30] = authz.Dashboard{ID: 30, AccountID: 1, AddedBy: 99}
	a := newDashboardAuthorizer(store, &stubShares{})
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 9, RoleID: 1})

	res, err := a.AuthorizeByID(context.Background(), 30, user, authz.DashboardOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
}
