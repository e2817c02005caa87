package authz

import (
	"context"

	"github.com/Ravikant96/AllSpark/internal/shared"
)

// ConnectionOptions carries pre-fetched share rows so callers that already
// loaded them avoid redundant lookups. The Have flags distinguish "fetched
// and empty" from "not fetched".
type ConnectionOptions struct {
	UserShares     []ObjectRole
	HaveUserShares bool
	RoleShares     []ObjectRole
	HaveRoleShares bool
}

// ConnectionAuthorizer resolves access to a data connection. Disabled
// connections are treated as not found upstream; this authorizer does not
// re-check status.
type ConnectionAuthorizer struct {
	shares ObjectRoleStore
}

// NewConnectionAuthorizer constructs a ConnectionAuthorizer.
func NewConnectionAuthorizer(shares ObjectRoleStore) *ConnectionAuthorizer {
	return &ConnectionAuthorizer{shares: shares}
}

// Authorize resolves access in order: ownership, direct user share, role
// policy match.
func (a *ConnectionAuthorizer) Authorize(ctx context.Context, conn Connection, user *shared.UserContext, opts ConnectionOptions) (Result, error) {
	if conn.AddedBy == user.UserID {
		return Allow("connection owner"), nil
	}

	userShares := opts.UserShares
	if !opts.HaveUserShares {
		var err error
		userShares, err = a.shares.Get(ctx, conn.AccountID, OwnerConnection, TargetUser, []int64{conn.ID}, user.UserID)
		if err != nil {
			return Result{}, err
		}
	}
	for _, share := range userShares {
		if share.TargetID == user.UserID {
			return Allow("connection shared with user"), nil
		}
	}

	roleShares := opts.RoleShares
	if !opts.HaveRoleShares {
		var err error
		roleShares, err = a.shares.Get(ctx, conn.AccountID, OwnerConnection, TargetRole, []int64{conn.ID})
		if err != nil {
			return Result{}, err
		}
	}
	return MatchTuples(UserTuples(user), ShareTuples(roleShares)), nil
}
