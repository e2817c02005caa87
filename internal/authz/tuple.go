package authz

import "github.com/Ravikant96/AllSpark/internal/shared"

// Wildcard is the admin sentinel for category and role ids. A zero value on
// either side of a comparison matches any value on the other side.
const Wildcard int64 = 0

// Tuple is the unit of policy comparison.
type Tuple struct {
	AccountID  int64
	CategoryID int64
	RoleID     int64
}

// UserTuples lowers the user's role grants to policy tuples.
func UserTuples(user *shared.UserContext) []Tuple {
	if user == nil {
		return nil
	}
	tuples := make([]Tuple, 0, len(user.Roles))
	for _, grant := range user.Roles {
		tuples = append(tuples, Tuple{
			AccountID:  user.AccountID,
			CategoryID: grant.CategoryID,
			RoleID:     grant.RoleID,
		})
	}
	return tuples
}

// ResourceTuples builds the resource-side cross product of category and role
// ids. Empty lists normalize to the wildcard sentinel; callers that must fail
// closed on an empty role set check emptiness before calling.
func ResourceTuples(accountID int64, categories, roles []int64) []Tuple {
	if len(categories) == 0 {
		categories = []int64{Wildcard}
	}
	if len(roles) == 0 {
		roles = []int64{Wildcard}
	}
	tuples := make([]Tuple, 0, len(categories)*len(roles))
	for _, category := range categories {
		for _, role := range roles {
			tuples = append(tuples, Tuple{AccountID: accountID, CategoryID: category, RoleID: role})
		}
	}
	return tuples
}

// MatchTuples is the policy matcher: it returns success on the first pair
// where account ids are equal and both category and role match exactly or
// through the wildcard sentinel. An empty set on either side denies.
func MatchTuples(user, resource []Tuple) Result {
	for _, u := range user {
		for _, r := range resource {
			if u.AccountID != r.AccountID {
				continue
			}
			if !sentinelMatch(u.CategoryID, r.CategoryID) {
				continue
			}
			if !sentinelMatch(u.RoleID, r.RoleID) {
				continue
			}
			return Allow("user role matches resource policy")
		}
	}
	return Deny("user not authenticated for resource")
}

func sentinelMatch(a, b int64) bool {
	return a == b || a == Wildcard || b == Wildcard
}
