package shared

// Privilege names with engine-level meaning.
const (
	PrivilegeSuperadmin    = "superadmin"
	PrivilegeAdministrator = "administrator"
	PrivilegeDocumentation = "documentation"
)

// RoleGrant scopes a role to a category. A zero CategoryID or RoleID is the
// admin sentinel and matches any value during policy matching.
type RoleGrant struct {
	CategoryID int64 `json:"category_id"`
	RoleID     int64 `json:"role_id"`
}

// PrivilegeGrant names a privilege held by the user, scoped to a category.
type PrivilegeGrant struct {
	PrivilegeID int64  `json:"privilege_id"`
	Name        string `json:"name"`
	CategoryID  int64  `json:"category_id"`
}

// UserContext is the authenticated identity attached to a request. It is
// built once when the bearer token is resolved and never mutated afterwards.
type UserContext struct {
	UserID     int64            `json:"user_id"`
	AccountID  int64            `json:"account_id"`
	Email      string           `json:"email"`
	Name       string           `json:"name"`
	Roles      []RoleGrant      `json:"roles"`
	Privileges []PrivilegeGrant `json:"privileges"`
}

// HasPrivilege reports whether the user holds the named privilege in any category.
func (u *UserContext) HasPrivilege(name string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Privileges {
		if p.Name == name {
			return true
		}
	}
	return false
}

// IsSuperadmin reports whether the user carries the superadmin sentinel privilege.
func (u *UserContext) IsSuperadmin() bool {
	return u.HasPrivilege(PrivilegeSuperadmin)
}
