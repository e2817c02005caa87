package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

func TestConnectionOwner(t *testing.T) {
	a := authz.NewConnectionAuthorizer(&stubShares{})
	conn := authz.Connection{ID: 10, AccountID: 1, AddedBy: 42}
	user := userWithRoles(1, 42)

	res, err := a.Authorize(context.Background(), conn, user, authz.ConnectionOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "connection owner", res.Message)
}

func TestConnectionDirectShare(t *testing.T) {
	shares := &stubShares{rows: []authz.ObjectRole{
		{AccountID: 1, OwnerType: authz.OwnerConnection, OwnerID: 10, TargetType: authz.TargetUser, TargetID: 7},
	}}
	a := authz.NewConnectionAuthorizer(shares)
	conn := authz.Connection{ID: 10, AccountID: 1, AddedBy: 42}
	user := userWithRoles(1, 7)

	res, err := a.Authorize(context.Background(), conn, user, authz.ConnectionOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
	require.Equal(t, "connection shared with user", res.Message)
}

func TestConnectionRoleMatch(t *testing.T) {
	shares := &stubShares{rows: []authz.ObjectRole{
		{AccountID: 1, OwnerType: authz.OwnerConnection, OwnerID: 10, TargetType: authz.TargetRole, TargetID: 5, CategoryID: 2},
	}}
	a := authz.NewConnectionAuthorizer(shares)
	conn := authz.Connection{ID: 10, AccountID: 1, AddedBy: 42}
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.Authorize(context.Background(), conn, user, authz.ConnectionOptions{})
	require.NoError(t, err)
	require.True(t, res.Allowed())
}

func TestConnectionNoSharesDenies(t *testing.T) {
	a := authz.NewConnectionAuthorizer(&stubShares{})
	conn := authz.Connection{ID: 10, AccountID: 1, AddedBy: 42}
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.Authorize(context.Background(), conn, user, authz.ConnectionOptions{})
	require.NoError(t, err)
	require.True(t, res.Error)
}

func TestConnectionPrefetchedSharesSkipStore(t *testing.T) {
	// Supplied row sets must be trusted as-is, even when the store would
	// disagree.
	shares := &stubShares{err: context.DeadlineExceeded}
	a := authz.NewConnectionAuthorizer(shares)
	conn := authz.Connection{ID: 10, AccountID: 1, AddedBy: 42}
	user := userWithRoles(1, 7, shared.RoleGrant{CategoryID: 2, RoleID: 5})

	res, err := a.Authorize(context.Background(), conn, user, authz.ConnectionOptions{
		UserShares:     nil,
		HaveUserShares: true,
		RoleShares: []authz.ObjectRole{
			{AccountID: 1, OwnerType: authz.OwnerConnection, OwnerID: 10, TargetType: authz.TargetRole, TargetID: 5, CategoryID: 2},
		},
		HaveRoleShares: true,
	})
	require.NoError(t, err)
	require.True(t, res.Allowed())
}
