package authz

// Config carries the process-wide engine toggles. It is populated once at
// startup from the environment and injected into each authorizer; the engine
// never reads ambient global state.
type Config struct {
	// RoleIgnore disables role-based checks.
	RoleIgnore bool
	// PrivilegeIgnore disables privilege-based checks.
	PrivilegeIgnore bool
}

// BypassEnabled reports whether the operational escape hatch is active. Both
// toggles must be set; either one alone changes nothing.
func (c Config) BypassEnabled() bool {
	return c.RoleIgnore && c.PrivilegeIgnore
}
