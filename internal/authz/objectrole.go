package authz

import "context"

// OwnerType discriminates the resource side of a share edge.
type OwnerType string

// TargetType discriminates the grantee side of a share edge.
type TargetType string

// Share edge discriminators. Only the pairings used by the resolution rules
// exist; anything else in storage is ignored by the engine.
const (
	OwnerUser       OwnerType = "user"
	OwnerQuery      OwnerType = "query"
	OwnerDashboard  OwnerType = "dashboard"
	OwnerConnection OwnerType = "connection"

	TargetUser      TargetType = "user"
	TargetRole      TargetType = "role"
	TargetDashboard TargetType = "dashboard"
)

// ObjectRole is a polymorphic share edge: OwnerID of OwnerType is shared with
// TargetID of TargetType, scoped to CategoryID within AccountID. Rows are
// read-only to the engine; the CRUD surface maintains them.
type ObjectRole struct {
	ID         int64
	AccountID  int64
	OwnerType  OwnerType
	OwnerID    int64
	TargetType TargetType
	TargetID   int64
	CategoryID int64
}

// ObjectRoleStore looks up share edges. An empty slice means no explicit
// shares, which every authorizer treats as fail-closed.
type ObjectRoleStore interface {
	Get(ctx context.Context, accountID int64, owner OwnerType, target TargetType, ownerIDs []int64, targetIDs ...int64) ([]ObjectRole, error)
}

// ShareTuples lowers share edges to policy tuples, one per edge, with the
// edge's target id as the role id. No cross product: an empty edge set stays
// empty so the matcher denies.
func ShareTuples(shares []ObjectRole) []Tuple {
	tuples := make([]Tuple, 0, len(shares))
	for _, share := range shares {
		tuples = append(tuples, Tuple{
			AccountID:  share.AccountID,
			CategoryID: share.CategoryID,
			RoleID:     share.TargetID,
		})
	}
	return tuples
}
